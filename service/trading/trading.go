// Package trading implements the buy/sell ledger over the account's
// cash balance, the position book and the trade ledger.
package trading

import (
	"strings"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"github.com/paperstreet/paperbroker/db"
	"github.com/paperstreet/paperbroker/models"
	"github.com/paperstreet/paperbroker/pberrors"
	"github.com/paperstreet/paperbroker/price"
	"github.com/paperstreet/paperbroker/service/op"
	"github.com/paperstreet/paperbroker/service/position"
	"github.com/paperstreet/paperbroker/service/trade"
)

type TradingService interface {
	Buy(accountID uint, ticker string, volume decimal.Decimal) (*models.Trade, error)
	Sell(accountID uint, ticker string, volume decimal.Decimal) (*models.Trade, error)
	Quote(ticker string) (decimal.Decimal, error)
	Holdings() ([]Holding, error)
	WithTx(tx *gorm.DB) TradingService
}

// Holding is one account's open position valued at the current oracle
// price.
type Holding struct {
	AccountID uint            `json:"account_id"`
	Ticker    string          `json:"ticker"`
	Shares    decimal.Decimal `json:"shares"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Value     decimal.Decimal `json:"value"`
}

func Service(oracle price.Oracle, positions position.PositionService, trades trade.TradeService) TradingService {
	return &tradingService{
		oracle:    oracle,
		positions: positions,
		trades:    trades,
	}
}

type tradingService struct {
	tx        *gorm.DB
	oracle    price.Oracle
	positions position.PositionService
	trades    trade.TradeService
}

func (s *tradingService) WithTx(tx *gorm.DB) TradingService {
	s.tx = tx
	return s
}

// Buy purchases volume shares of ticker at the oracle price. All
// precondition checks run before any write, and the position update,
// trade append and balance debit share the caller's transaction, so a
// rejection leaves no partial state.
func (s *tradingService) Buy(accountID uint, ticker string, volume decimal.Decimal) (*models.Trade, error) {
	if !volume.IsPositive() {
		return nil, pberrors.InvalidVolume
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	unitPrice, err := s.oracle.Get(ticker)
	if err != nil {
		return nil, err
	}

	forUpdate := db.ForUpdate()
	acct, err := op.GetAccountByID(s.tx, accountID, &forUpdate)
	if err != nil {
		return nil, err
	}

	cost := volume.Mul(unitPrice)
	if cost.GreaterThan(acct.Balance) {
		return nil, pberrors.InsufficientFunds
	}

	pos, err := s.positions.WithTx(s.tx).GetOrInit(accountID, ticker)
	if err != nil {
		return nil, err
	}

	pos.Shares = pos.Shares.Add(volume)
	if err := s.positions.WithTx(s.tx).Save(pos); err != nil {
		return nil, err
	}

	t := &models.Trade{
		Ticker:    ticker,
		Volume:    volume,
		UnitPrice: unitPrice,
		AccountID: accountID,
	}
	if err := s.trades.WithTx(s.tx).Record(t); err != nil {
		return nil, err
	}

	acct.Balance = acct.Balance.Sub(cost)
	if err := s.tx.Save(acct).Error; err != nil {
		return nil, pberrors.InternalServerError.WithError(err)
	}

	return t, nil
}

// Sell disposes of volume shares of ticker at the oracle price. A sell
// that would drive the share count below zero is rejected before any
// mutation; a fresh zero-share position rejects every sell.
func (s *tradingService) Sell(accountID uint, ticker string, volume decimal.Decimal) (*models.Trade, error) {
	if !volume.IsPositive() {
		return nil, pberrors.InvalidVolume
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	unitPrice, err := s.oracle.Get(ticker)
	if err != nil {
		return nil, err
	}

	forUpdate := db.ForUpdate()
	acct, err := op.GetAccountByID(s.tx, accountID, &forUpdate)
	if err != nil {
		return nil, err
	}

	pos, err := s.positions.WithTx(s.tx).GetOrInit(accountID, ticker)
	if err != nil {
		return nil, err
	}

	if pos.Shares.LessThan(volume) {
		return nil, pberrors.InsufficientShares
	}

	pos.Shares = pos.Shares.Sub(volume)
	if err := s.positions.WithTx(s.tx).Save(pos); err != nil {
		return nil, err
	}

	t := &models.Trade{
		Ticker:    ticker,
		Volume:    volume.Neg(),
		UnitPrice: unitPrice,
		AccountID: accountID,
	}
	if err := s.trades.WithTx(s.tx).Record(t); err != nil {
		return nil, err
	}

	acct.Balance = acct.Balance.Add(volume.Mul(unitPrice))
	if err := s.tx.Save(acct).Error; err != nil {
		return nil, pberrors.InternalServerError.WithError(err)
	}

	return t, nil
}

func (s *tradingService) Quote(ticker string) (decimal.Decimal, error) {
	return s.oracle.Get(ticker)
}

// Holdings values every open position across all accounts at the
// current oracle price, largest share counts first.
func (s *tradingService) Holdings() ([]Holding, error) {
	positions, err := s.positions.WithTx(s.tx).ListAll()
	if err != nil {
		return nil, err
	}

	holdings := make([]Holding, 0, len(positions))
	for _, p := range positions {
		unitPrice, err := s.oracle.Get(p.Ticker)
		if err != nil {
			return nil, err
		}

		holdings = append(holdings, Holding{
			AccountID: p.AccountID,
			Ticker:    p.Ticker,
			Shares:    p.Shares,
			UnitPrice: unitPrice,
			Value:     p.Shares.Mul(unitPrice),
		})
	}

	return holdings, nil
}
