package account

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"github.com/paperstreet/paperbroker/db"
	"github.com/paperstreet/paperbroker/models"
	"github.com/paperstreet/paperbroker/pberrors"
	"github.com/paperstreet/paperbroker/service/op"
)

type AccountService interface {
	Create(req *RegisterRequest) (*models.Account, error)
	GetByID(accountID uint) (*models.Account, error)
	GetByUsername(username string) (*models.Account, error)
	Authenticate(username, password string) (*models.Account, error)
	Deposit(accountID uint, amount decimal.Decimal) (*models.Account, error)
	List() ([]models.Account, error)
	SetAdmin(accountID uint, admin bool) (*models.Account, error)
	Delete(accountID uint) error
	ForUpdate() AccountService
	WithTx(tx *gorm.DB) AccountService
}

func Service() AccountService {
	return &accountService{}
}

type accountService struct {
	tx          *gorm.DB
	queryOption *string
}

func (s *accountService) WithTx(tx *gorm.DB) AccountService {
	s.tx = tx
	return s
}

func (s *accountService) ForUpdate() AccountService {
	forUpdate := db.ForUpdate()
	s.queryOption = &forUpdate
	return s
}

var usernameMatcher = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			validation.Length(3, 15),
			validation.Match(usernameMatcher)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.Email, is.Email, validation.Length(0, 50)),
		validation.Field(&r.FirstName, validation.Length(0, 200)),
		validation.Field(&r.LastName, validation.Length(0, 200)),
	)
}

// Create registers a new account with a zero balance. A taken username
// or an account-number collision surfaces as DuplicateKey; there is no
// silent retry.
func (s *accountService) Create(req *RegisterRequest) (*models.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, pberrors.InvalidRequestParam.WithMsg(err.Error())
	}

	acct := &models.Account{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Balance:   decimal.Zero,
	}

	if err := acct.SetPassword(req.Password); err != nil {
		return nil, pberrors.InternalServerError.WithError(err)
	}

	if err := s.tx.Create(acct).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pberrors.DuplicateKey.WithMsg("username or account number already exists").WithError(err)
		}
		return nil, pberrors.InternalServerError.WithError(err)
	}

	return acct, nil
}

func (s *accountService) GetByID(accountID uint) (*models.Account, error) {
	return op.GetAccountByID(s.tx, accountID, s.queryOption)
}

func (s *accountService) GetByUsername(username string) (*models.Account, error) {
	return op.GetAccountByUsername(s.tx, username, s.queryOption)
}

// Authenticate returns the account when the username exists and the
// password matches its stored hash. Unknown usernames and wrong
// passwords both come back as AuthFailure.
func (s *accountService) Authenticate(username, password string) (*models.Account, error) {
	acct, err := op.GetAccountByUsername(s.tx, username, nil)
	if err != nil {
		return nil, pberrors.AuthFailure
	}

	if !acct.CheckPassword(password) {
		return nil, pberrors.AuthFailure
	}

	return acct, nil
}

// Deposit is the only flow that adds cash to an account.
func (s *accountService) Deposit(accountID uint, amount decimal.Decimal) (*models.Account, error) {
	if !amount.IsPositive() {
		return nil, pberrors.InvalidRequestParam.WithMsg("deposit amount must be greater than zero")
	}

	forUpdate := db.ForUpdate()
	acct, err := op.GetAccountByID(s.tx, accountID, &forUpdate)
	if err != nil {
		return nil, err
	}

	acct.Balance = acct.Balance.Add(amount)

	if err := s.tx.Save(acct).Error; err != nil {
		return nil, pberrors.InternalServerError.WithError(err)
	}

	return acct, nil
}

func (s *accountService) List() ([]models.Account, error) {
	var accts []models.Account

	q := s.tx.Order("id").Find(&accts)
	if q.Error != nil && !q.RecordNotFound() {
		return nil, pberrors.InternalServerError.WithError(q.Error)
	}

	return accts, nil
}

func (s *accountService) SetAdmin(accountID uint, admin bool) (*models.Account, error) {
	forUpdate := db.ForUpdate()
	acct, err := op.GetAccountByID(s.tx, accountID, &forUpdate)
	if err != nil {
		return nil, err
	}

	acct.Admin = admin

	if err := s.tx.Model(acct).Update("admin", admin).Error; err != nil {
		return nil, pberrors.InternalServerError.WithError(err)
	}

	return acct, nil
}

// Delete removes the account row. It exists for administrative tooling
// and is not exercised by any business flow.
func (s *accountService) Delete(accountID uint) error {
	acct, err := op.GetAccountByID(s.tx, accountID, nil)
	if err != nil {
		return err
	}

	if err := s.tx.Delete(acct).Error; err != nil {
		return pberrors.InternalServerError.WithError(err)
	}

	return nil
}
