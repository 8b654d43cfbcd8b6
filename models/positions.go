package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the running share count an account holds in one ticker.
// At most one row exists per (account, ticker); the composite unique
// index backs that up at the storage level.
type Position struct {
	ID        uint            `json:"id" gorm:"primary_key"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Ticker    string          `json:"ticker" gorm:"type:varchar(15);not null;unique_index:idx_positions_ticker_account_id"`
	Shares    decimal.Decimal `json:"shares" gorm:"type:decimal;not null"`
	AccountID uint            `json:"account_id" gorm:"not null;index;unique_index:idx_positions_ticker_account_id"`
}

// Saved distinguishes a persisted row from a fresh zero-share value
// handed out by GetOrInit that has never been written.
func (p *Position) Saved() bool {
	return p.ID != 0
}
