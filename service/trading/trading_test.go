package trading

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/paperstreet/paperbroker/db"
	"github.com/paperstreet/paperbroker/dbtest"
	"github.com/paperstreet/paperbroker/models"
	"github.com/paperstreet/paperbroker/pberrors"
	"github.com/paperstreet/paperbroker/price"
	"github.com/paperstreet/paperbroker/service/account"
	"github.com/paperstreet/paperbroker/service/position"
	"github.com/paperstreet/paperbroker/service/trade"
)

type TradingTestSuite struct {
	dbtest.Suite
}

func TestTradingTestSuite(t *testing.T) {
	suite.Run(t, new(TradingTestSuite))
}

func (s *TradingTestSuite) SetupSuite() {
	s.SetupDB()
}

func (s *TradingTestSuite) TearDownSuite() {
	s.TeardownDB()
}

func (s *TradingTestSuite) service() TradingService {
	return Service(price.NewOracle(nil), position.Service(), trade.Service()).WithTx(db.DB())
}

func (s *TradingTestSuite) createAccount(username, balance string) *models.Account {
	srv := account.Service().WithTx(db.DB())

	acct, err := srv.Create(&account.RegisterRequest{
		FirstName: "Paper",
		LastName:  "Trader",
		Username:  username,
		Email:     fmt.Sprintf("%s@example.com", username),
		Password:  "supersecret",
	})
	require.NoError(s.T(), err)

	amount := decimal.RequireFromString(balance)
	if amount.IsPositive() {
		acct, err = srv.Deposit(acct.ID, amount)
		require.NoError(s.T(), err)
	}

	return acct
}

func (s *TradingTestSuite) positionCount(accountID uint) int {
	var n int
	require.NoError(s.T(),
		db.DB().Model(&models.Position{}).Where("account_id = ?", accountID).Count(&n).Error)
	return n
}

func (s *TradingTestSuite) tradeCount(accountID uint) int {
	var n int
	require.NoError(s.T(),
		db.DB().Model(&models.Trade{}).Where("account_id = ?", accountID).Count(&n).Error)
	return n
}

func (s *TradingTestSuite) TestHoldingsValuedAcrossAccounts() {
	alpha := s.createAccount("holdalpha", "20000000")
	beta := s.createAccount("holdbeta", "20000000")
	srv := s.service()

	_, err := srv.Buy(alpha.ID, "STOK", decimal.NewFromInt(200))
	require.NoError(s.T(), err)
	_, err = srv.Buy(beta.ID, "P2P", decimal.NewFromInt(75))
	require.NoError(s.T(), err)
	_, err = srv.Buy(beta.ID, "A33A", decimal.NewFromInt(10))
	require.NoError(s.T(), err)

	all, err := srv.Holdings()
	require.NoError(s.T(), err)

	// other accounts may hold positions too; check ours in order
	mine := []Holding{}
	for _, h := range all {
		if h.AccountID == alpha.ID || h.AccountID == beta.ID {
			mine = append(mine, h)
		}
	}
	require.Len(s.T(), mine, 3)

	// largest share counts first
	assert.Equal(s.T(), alpha.ID, mine[0].AccountID)
	assert.Equal(s.T(), "STOK", mine[0].Ticker)
	assert.Equal(s.T(), "200", mine[0].Shares.String())
	assert.Equal(s.T(), "123.45", mine[0].UnitPrice.String())
	assert.Equal(s.T(), "24690", mine[0].Value.String())

	assert.Equal(s.T(), beta.ID, mine[1].AccountID)
	assert.Equal(s.T(), "P2P", mine[1].Ticker)
	assert.Equal(s.T(), "50917.5", mine[1].Value.String())

	assert.Equal(s.T(), beta.ID, mine[2].AccountID)
	assert.Equal(s.T(), "A33A", mine[2].Ticker)
	assert.Equal(s.T(), "987.6", mine[2].Value.String())
}

func (s *TradingTestSuite) TestInvalidVolumeTouchesNothing() {
	acct := s.createAccount("novolume", "20000000")
	srv := s.service()

	for _, volume := range []string{"0", "-5"} {
		v := decimal.RequireFromString(volume)

		t, err := srv.Buy(acct.ID, "STOK", v)
		assert.Nil(s.T(), t)
		assert.True(s.T(), pberrors.Is(err, pberrors.InvalidVolume))

		t, err = srv.Sell(acct.ID, "STOK", v)
		assert.Nil(s.T(), t)
		assert.True(s.T(), pberrors.Is(err, pberrors.InvalidVolume))
	}

	assert.Zero(s.T(), s.positionCount(acct.ID))
	assert.Zero(s.T(), s.tradeCount(acct.ID))
}

func (s *TradingTestSuite) TestUnknownTicker() {
	acct := s.createAccount("badticker", "20000000")
	srv := s.service()

	_, err := srv.Buy(acct.ID, "ZZZZ", decimal.NewFromInt(1))
	assert.True(s.T(), pberrors.Is(err, pberrors.UnknownTicker))

	_, err = srv.Sell(acct.ID, "ZZZZ", decimal.NewFromInt(1))
	assert.True(s.T(), pberrors.Is(err, pberrors.UnknownTicker))

	assert.Zero(s.T(), s.positionCount(acct.ID))
	assert.Zero(s.T(), s.tradeCount(acct.ID))
}

func (s *TradingTestSuite) TestBuyCreatesPosition() {
	acct := s.createAccount("firstbuy", "20000000")
	srv := s.service()

	t, err := srv.Buy(acct.ID, "STOK", decimal.NewFromInt(100))
	require.NoError(s.T(), err)
	require.NotNil(s.T(), t)

	assert.NotZero(s.T(), t.ID)
	assert.Equal(s.T(), "STOK", t.Ticker)
	assert.Equal(s.T(), "100", t.Volume.String())
	assert.Equal(s.T(), "123.45", t.UnitPrice.String())
	assert.False(s.T(), t.Time.IsZero())

	pos, err := position.Service().WithTx(db.DB()).GetOrInit(acct.ID, "STOK")
	require.NoError(s.T(), err)
	assert.True(s.T(), pos.Saved())
	assert.Equal(s.T(), "100", pos.Shares.String())

	// cost debited from the cash balance
	fresh, err := account.Service().WithTx(db.DB()).GetByID(acct.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "19987655", fresh.Balance.String())
}

func (s *TradingTestSuite) TestRepeatBuyAccumulates() {
	acct := s.createAccount("repeatbuy", "20000000")
	srv := s.service()

	_, err := srv.Buy(acct.ID, "STOK", decimal.NewFromInt(100))
	require.NoError(s.T(), err)
	_, err = srv.Buy(acct.ID, "STOK", decimal.NewFromInt(50))
	require.NoError(s.T(), err)

	// still a single row for (account, ticker)
	assert.Equal(s.T(), 1, s.positionCount(acct.ID))
	assert.Equal(s.T(), 2, s.tradeCount(acct.ID))

	pos, err := position.Service().WithTx(db.DB()).GetOrInit(acct.ID, "STOK")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "150", pos.Shares.String())
}

func (s *TradingTestSuite) TestSellReducesPosition() {
	acct := s.createAccount("sellhalf", "20000000")
	srv := s.service()

	_, err := srv.Buy(acct.ID, "STOK", decimal.NewFromInt(100))
	require.NoError(s.T(), err)

	t, err := srv.Sell(acct.ID, "STOK", decimal.NewFromInt(50))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "-50", t.Volume.String())
	assert.Equal(s.T(), "123.45", t.UnitPrice.String())

	pos, err := position.Service().WithTx(db.DB()).GetOrInit(acct.ID, "STOK")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "50", pos.Shares.String())

	trades, err := trade.Service().WithTx(db.DB()).ListByTicker(acct.ID, "STOK")
	require.NoError(s.T(), err)
	require.Len(s.T(), trades, 2)
	assert.Equal(s.T(), "100", trades[0].Volume.String())
	assert.Equal(s.T(), "-50", trades[1].Volume.String())

	// proceeds credited back: 20000000 - 100*123.45 + 50*123.45
	fresh, err := account.Service().WithTx(db.DB()).GetByID(acct.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "19993827.5", fresh.Balance.String())
}

func (s *TradingTestSuite) TestSellInsufficientShares() {
	acct := s.createAccount("oversell", "20000000")
	srv := s.service()

	// no position at all rejects
	_, err := srv.Sell(acct.ID, "STOK", decimal.NewFromInt(1))
	assert.True(s.T(), pberrors.Is(err, pberrors.InsufficientShares))
	assert.Zero(s.T(), s.tradeCount(acct.ID))

	// more than held rejects and leaves shares unchanged
	_, err = srv.Buy(acct.ID, "STOK", decimal.NewFromInt(10))
	require.NoError(s.T(), err)

	_, err = srv.Sell(acct.ID, "STOK", decimal.NewFromInt(20))
	assert.True(s.T(), pberrors.Is(err, pberrors.InsufficientShares))

	pos, err := position.Service().WithTx(db.DB()).GetOrInit(acct.ID, "STOK")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "10", pos.Shares.String())
	assert.Equal(s.T(), 1, s.tradeCount(acct.ID))
}

func (s *TradingTestSuite) TestBuyInsufficientFunds() {
	acct := s.createAccount("broke", "0")
	srv := s.service()

	_, err := srv.Buy(acct.ID, "STOK", decimal.NewFromInt(1))
	assert.True(s.T(), pberrors.Is(err, pberrors.InsufficientFunds))

	assert.Zero(s.T(), s.positionCount(acct.ID))
	assert.Zero(s.T(), s.tradeCount(acct.ID))

	fresh, err := account.Service().WithTx(db.DB()).GetByID(acct.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), fresh.Balance.IsZero())
}

type downOracle struct{}

func (downOracle) Get(string) (decimal.Decimal, error) {
	return decimal.Zero, pberrors.PriceUnavailable
}

func (s *TradingTestSuite) TestPriceSourceDownIsNotUnknownTicker() {
	acct := s.createAccount("nofeeds", "20000000")

	srv := Service(downOracle{}, position.Service(), trade.Service()).WithTx(db.DB())

	_, err := srv.Buy(acct.ID, "STOK", decimal.NewFromInt(1))
	assert.True(s.T(), pberrors.Is(err, pberrors.PriceUnavailable))
	assert.False(s.T(), pberrors.Is(err, pberrors.UnknownTicker))

	assert.Zero(s.T(), s.positionCount(acct.ID))
	assert.Zero(s.T(), s.tradeCount(acct.ID))
}

func (s *TradingTestSuite) TestQuote() {
	srv := s.service()

	quote, err := srv.Quote("stok")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "123.45", quote.String())

	_, err = srv.Quote("ZZZZ")
	assert.True(s.T(), pberrors.Is(err, pberrors.UnknownTicker))
}
