package account

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/paperstreet/paperbroker/db"
	"github.com/paperstreet/paperbroker/dbtest"
	"github.com/paperstreet/paperbroker/pberrors"
)

type AccountTestSuite struct {
	dbtest.Suite
}

func TestAccountTestSuite(t *testing.T) {
	suite.Run(t, new(AccountTestSuite))
}

func (s *AccountTestSuite) SetupSuite() {
	s.SetupDB()
}

func (s *AccountTestSuite) TearDownSuite() {
	s.TeardownDB()
}

func (s *AccountTestSuite) register(username string) *RegisterRequest {
	return &RegisterRequest{
		FirstName: "Pat",
		LastName:  "Paper",
		Username:  username,
		Email:     "pat@example.org",
		Password:  "correct horse",
	}
}

func (s *AccountTestSuite) TestCreate() {
	srv := Service().WithTx(db.DB())

	acct, err := srv.Create(s.register("patpaper"))
	require.NoError(s.T(), err)

	assert.NotZero(s.T(), acct.ID)
	assert.True(s.T(), acct.Balance.IsZero())
	assert.False(s.T(), acct.Admin)

	// account numbers are seven digits
	assert.True(s.T(), acct.AccountNumber >= 1000000 && acct.AccountNumber <= 9999999)

	// the password never lands in the row as plaintext
	assert.NotContains(s.T(), string(acct.PasswordHash), "correct horse")
	assert.True(s.T(), acct.CheckPassword("correct horse"))
}

func (s *AccountTestSuite) TestCreateRoundTrip() {
	srv := Service().WithTx(db.DB())

	created, err := srv.Create(s.register("roundtrip"))
	require.NoError(s.T(), err)

	_, err = srv.Deposit(created.ID, decimal.RequireFromString("123.45"))
	require.NoError(s.T(), err)

	loaded, err := srv.GetByID(created.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), created.ID, loaded.ID)
	assert.Equal(s.T(), "Pat", loaded.FirstName)
	assert.Equal(s.T(), "Paper", loaded.LastName)
	assert.Equal(s.T(), "roundtrip", loaded.Username)
	assert.Equal(s.T(), "pat@example.org", loaded.Email)
	assert.Equal(s.T(), created.AccountNumber, loaded.AccountNumber)
	assert.Equal(s.T(), created.PasswordHash, loaded.PasswordHash)
	assert.Equal(s.T(), "123.45", loaded.Balance.String())
	assert.False(s.T(), loaded.Admin)
}

func (s *AccountTestSuite) TestCreateTakenUsername() {
	srv := Service().WithTx(db.DB())

	_, err := srv.Create(s.register("taken"))
	require.NoError(s.T(), err)

	_, err = srv.Create(s.register("taken"))
	assert.True(s.T(), pberrors.Is(err, pberrors.DuplicateKey))
}

func (s *AccountTestSuite) TestCreateRejectsBadRequests() {
	srv := Service().WithTx(db.DB())

	for _, req := range []*RegisterRequest{
		{Username: "", Password: "longenough"},
		{Username: "ab", Password: "longenough"},
		{Username: "way_too_long_for_a_username", Password: "longenough"},
		{Username: "bad name", Password: "longenough"},
		{Username: "shortpw", Password: "2short"},
		{Username: "bademail", Password: "longenough", Email: "not-an-email"},
	} {
		_, err := srv.Create(req)
		assert.True(s.T(), pberrors.Is(err, pberrors.InvalidRequestParam), "username %q", req.Username)
	}
}

func (s *AccountTestSuite) TestAuthenticate() {
	srv := Service().WithTx(db.DB())

	created, err := srv.Create(s.register("loginme"))
	require.NoError(s.T(), err)

	acct, err := srv.Authenticate("loginme", "correct horse")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, acct.ID)

	_, err = srv.Authenticate("loginme", "wrong horse")
	assert.True(s.T(), pberrors.Is(err, pberrors.AuthFailure))

	// unknown usernames are indistinguishable from bad passwords
	_, err = srv.Authenticate("nobody", "correct horse")
	assert.True(s.T(), pberrors.Is(err, pberrors.AuthFailure))
}

func (s *AccountTestSuite) TestDeposit() {
	srv := Service().WithTx(db.DB())

	created, err := srv.Create(s.register("depositor"))
	require.NoError(s.T(), err)

	acct, err := srv.Deposit(created.ID, decimal.RequireFromString("250.50"))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "250.5", acct.Balance.String())

	acct, err = srv.Deposit(created.ID, decimal.RequireFromString("0.50"))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "251", acct.Balance.String())
}

func (s *AccountTestSuite) TestDepositRejectsNonPositive() {
	srv := Service().WithTx(db.DB())

	created, err := srv.Create(s.register("nodeposit"))
	require.NoError(s.T(), err)

	for _, amount := range []string{"0", "-10"} {
		_, err := srv.Deposit(created.ID, decimal.RequireFromString(amount))
		assert.True(s.T(), pberrors.Is(err, pberrors.InvalidRequestParam), "amount %s", amount)
	}

	acct, err := srv.GetByID(created.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), acct.Balance.IsZero())
}

func (s *AccountTestSuite) TestGetByUnknownID() {
	_, err := Service().WithTx(db.DB()).GetByID(999999)
	assert.True(s.T(), pberrors.Is(err, pberrors.NotFound))
}

func (s *AccountTestSuite) TestSetAdmin() {
	srv := Service().WithTx(db.DB())

	created, err := srv.Create(s.register("promoteme"))
	require.NoError(s.T(), err)
	require.False(s.T(), created.Admin)

	acct, err := srv.SetAdmin(created.ID, true)
	require.NoError(s.T(), err)
	assert.True(s.T(), acct.Admin)

	acct, err = srv.GetByID(created.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), acct.Admin)
}

func (s *AccountTestSuite) TestDelete() {
	srv := Service().WithTx(db.DB())

	created, err := srv.Create(s.register("deleteme"))
	require.NoError(s.T(), err)

	require.NoError(s.T(), srv.Delete(created.ID))

	_, err = srv.GetByID(created.ID)
	assert.True(s.T(), pberrors.Is(err, pberrors.NotFound))
}
