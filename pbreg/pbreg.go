// Package pbreg wires the default service registry.
package pbreg

import (
	"github.com/paperstreet/paperbroker/price"
	"github.com/paperstreet/paperbroker/service/account"
	"github.com/paperstreet/paperbroker/service/position"
	"github.com/paperstreet/paperbroker/service/registry"
	"github.com/paperstreet/paperbroker/service/trade"
	"github.com/paperstreet/paperbroker/service/trading"
)

var Services registry.Registry

type pbRegistry struct {
	oracle price.Oracle
}

func (r *pbRegistry) Account() account.AccountService {
	return account.Service()
}

func (r *pbRegistry) Position() position.PositionService {
	return position.Service()
}

func (r *pbRegistry) Trade() trade.TradeService {
	return trade.Service()
}

func (r *pbRegistry) Trading() trading.TradingService {
	return trading.Service(r.oracle, r.Position(), r.Trade())
}

func (r *pbRegistry) Oracle() price.Oracle {
	return r.oracle
}

func init() {
	Services = &pbRegistry{oracle: price.NewOracle(price.NewRemoteClient())}
}
