package registry

import (
	"github.com/paperstreet/paperbroker/price"
	"github.com/paperstreet/paperbroker/service/account"
	"github.com/paperstreet/paperbroker/service/position"
	"github.com/paperstreet/paperbroker/service/trade"
	"github.com/paperstreet/paperbroker/service/trading"
)

type Registry interface {
	Account() account.AccountService
	Position() position.PositionService
	Trade() trade.TradeService
	Trading() trading.TradingService
	Oracle() price.Oracle
}
