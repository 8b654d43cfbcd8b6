package position

import (
	"strings"

	"github.com/jinzhu/gorm"

	"github.com/paperstreet/paperbroker/db"
	"github.com/paperstreet/paperbroker/models"
	"github.com/paperstreet/paperbroker/pberrors"
)

type PositionService interface {
	GetOrInit(accountID uint, ticker string) (*models.Position, error)
	Save(p *models.Position) error
	List(accountID uint) ([]models.Position, error)
	ListAll() ([]models.Position, error)
	Delete(p *models.Position) error
	WithTx(tx *gorm.DB) PositionService
}

func Service() PositionService {
	return &positionService{}
}

type positionService struct {
	tx *gorm.DB
}

func (s *positionService) WithTx(tx *gorm.DB) PositionService {
	s.tx = tx
	return s
}

// GetOrInit returns the persisted position for (account, ticker), or a
// fresh zero-share value when none exists. It never writes; a fresh
// value reports Saved() == false until Save is called on it.
func (s *positionService) GetOrInit(accountID uint, ticker string) (*models.Position, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	p := &models.Position{}
	q := s.tx.Where(models.Position{AccountID: accountID, Ticker: ticker}).FirstOrInit(p)

	if q.Error != nil {
		return nil, pberrors.InternalServerError.WithError(q.Error)
	}

	return p, nil
}

// Save inserts a fresh position or updates a persisted one. An insert
// that collides with an existing (account, ticker) row reports
// DuplicateKey; the get-or-init discipline should make that unreachable,
// but it is never swallowed.
func (s *positionService) Save(p *models.Position) error {
	var err error
	if p.Saved() {
		err = s.tx.Save(p).Error
	} else {
		err = s.tx.Create(p).Error
	}

	if err != nil {
		if db.IsUniqueViolation(err) {
			return pberrors.DuplicateKey.WithMsg("a position for this ticker already exists").WithError(err)
		}
		return pberrors.InternalServerError.WithError(err)
	}

	return nil
}

// List returns the account's open positions, i.e. rows with more than
// zero shares. Zero-share rows stay in the table but are not holdings.
func (s *positionService) List(accountID uint) ([]models.Position, error) {
	var positions []models.Position

	q := s.tx.
		Where("account_id = ? AND shares > 0", accountID).
		Order("ticker").
		Find(&positions)

	if q.Error != nil && !q.RecordNotFound() {
		return nil, pberrors.InternalServerError.WithError(q.Error)
	}

	return positions, nil
}

// ListAll returns every open position across all accounts, largest
// share counts first. Admin reporting only.
func (s *positionService) ListAll() ([]models.Position, error) {
	var positions []models.Position

	q := s.tx.
		Where("shares > 0").
		Order("shares desc").
		Find(&positions)

	if q.Error != nil && !q.RecordNotFound() {
		return nil, pberrors.InternalServerError.WithError(q.Error)
	}

	return positions, nil
}

// Delete removes the row without checking the share count first.
func (s *positionService) Delete(p *models.Position) error {
	if !p.Saved() {
		return pberrors.NotFound.WithMsg("position has not been saved")
	}

	if err := s.tx.Delete(p).Error; err != nil {
		return pberrors.InternalServerError.WithError(err)
	}

	p.ID = 0

	return nil
}
