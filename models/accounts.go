package models

import (
	"math/rand"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type Account struct {
	ID            uint            `json:"id" gorm:"primary_key"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	FirstName     string          `json:"first_name" gorm:"type:varchar(200)"`
	LastName      string          `json:"last_name" gorm:"type:varchar(200)"`
	Username      string          `json:"username" gorm:"type:varchar(15);not null;unique_index"`
	Email         string          `json:"email" gorm:"type:varchar(50)"`
	PasswordHash  []byte          `json:"-" gorm:"not null"`
	Balance       decimal.Decimal `json:"balance" gorm:"type:decimal;not null"`
	AccountNumber int64           `json:"account_number" gorm:"not null;unique_index"`
	Admin         bool            `json:"admin" gorm:"not null" sql:"default:FALSE"`
	Positions     []Position      `json:"-" gorm:"ForeignKey:AccountID"`
	Trades        []Trade         `json:"-" gorm:"ForeignKey:AccountID"`
}

// BeforeCreate assigns a random 7-digit account number when none is set.
// Uniqueness is enforced by the index; a collision surfaces as a
// duplicate-key error rather than being retried.
func (a *Account) BeforeCreate(scope *gorm.Scope) error {
	if a.AccountNumber == 0 {
		a.AccountNumber = 1000000 + rand.Int63n(9000000)
		return scope.SetColumn("account_number", a.AccountNumber)
	}
	return nil
}

func (a *Account) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

// CheckPassword compares the candidate against the stored salted hash.
// bcrypt's comparison is constant-time.
func (a *Account) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)) == nil
}
