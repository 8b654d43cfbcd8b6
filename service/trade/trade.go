package trade

import (
	"strings"
	"time"

	"github.com/jinzhu/gorm"

	"github.com/paperstreet/paperbroker/models"
	"github.com/paperstreet/paperbroker/pberrors"
)

type TradeService interface {
	Record(t *models.Trade) error
	Update(t *models.Trade) error
	List(accountID uint) ([]models.Trade, error)
	ListByTicker(accountID uint, ticker string) ([]models.Trade, error)
	DeleteAll() error
	WithTx(tx *gorm.DB) TradeService
}

func Service() TradeService {
	return &tradeService{}
}

type tradeService struct {
	tx *gorm.DB
}

func (s *tradeService) WithTx(tx *gorm.DB) TradeService {
	s.tx = tx
	return s
}

// Record appends a trade, assigning its identity and timestamp. Rows
// are immutable after this in every business flow.
func (s *tradeService) Record(t *models.Trade) error {
	if t.ID != 0 {
		return pberrors.InvalidRequestParam.WithMsg("trade has already been recorded")
	}

	t.Ticker = strings.ToUpper(strings.TrimSpace(t.Ticker))
	if t.Time.IsZero() {
		t.Time = time.Now().UTC()
	}

	if err := s.tx.Create(t).Error; err != nil {
		return pberrors.InternalServerError.WithError(err)
	}

	return nil
}

// Update rewrites a recorded trade in place. No business flow calls
// it; it exists for administrative correction tooling only.
func (s *tradeService) Update(t *models.Trade) error {
	if t.ID == 0 {
		return pberrors.NotFound.WithMsg("trade has not been recorded")
	}

	if err := s.tx.Save(t).Error; err != nil {
		return pberrors.InternalServerError.WithError(err)
	}

	return nil
}

func (s *tradeService) List(accountID uint) ([]models.Trade, error) {
	var trades []models.Trade

	q := s.tx.
		Where("account_id = ?", accountID).
		Order("time, id").
		Find(&trades)

	if q.Error != nil && !q.RecordNotFound() {
		return nil, pberrors.InternalServerError.WithError(q.Error)
	}

	return trades, nil
}

func (s *tradeService) ListByTicker(accountID uint, ticker string) ([]models.Trade, error) {
	var trades []models.Trade

	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	q := s.tx.
		Where("account_id = ? AND ticker = ?", accountID, ticker).
		Order("time, id").
		Find(&trades)

	if q.Error != nil && !q.RecordNotFound() {
		return nil, pberrors.InternalServerError.WithError(q.Error)
	}

	return trades, nil
}

// DeleteAll clears the ledger. Test and reset tooling only.
func (s *tradeService) DeleteAll() error {
	if err := s.tx.Delete(&models.Trade{}).Error; err != nil {
		return pberrors.InternalServerError.WithError(err)
	}
	return nil
}
