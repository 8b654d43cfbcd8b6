package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is the append-only audit record of a single fill. Positive
// volume is a buy, negative volume a sell.
type Trade struct {
	ID        uint            `json:"id" gorm:"primary_key"`
	Ticker    string          `json:"ticker" gorm:"type:varchar(15);not null"`
	Volume    decimal.Decimal `json:"volume" gorm:"type:decimal;not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal;not null"`
	Time      time.Time       `json:"time" gorm:"not null"`
	AccountID uint            `json:"account_id" gorm:"not null;index"`
}

func (t *Trade) Side() string {
	if t.Volume.IsNegative() {
		return "sell"
	}
	return "buy"
}
