// Package op holds raw account queries shared across services.
package op

import (
	"fmt"

	"github.com/jinzhu/gorm"

	"github.com/paperstreet/paperbroker/models"
	"github.com/paperstreet/paperbroker/pberrors"
)

// GetAccountByID returns the account for the given row id. When a
// locking queryOption such as FOR UPDATE is supplied, the row stays
// locked until the transaction commits.
func GetAccountByID(tx *gorm.DB, accountID uint, queryOption *string) (*models.Account, error) {
	a := &models.Account{}

	q := tx.Where("id = ?", accountID)

	if queryOption != nil && *queryOption != "" {
		q = q.Set("gorm:query_option", *queryOption)
	}

	q = q.First(a)

	if q.RecordNotFound() {
		return nil, pberrors.NotFound.WithMsg(fmt.Sprintf("account not found for %v", accountID))
	}

	if q.Error != nil {
		return nil, pberrors.InternalServerError.WithError(q.Error)
	}

	return a, nil
}

// GetAccountByUsername returns the account for the given username.
func GetAccountByUsername(tx *gorm.DB, username string, queryOption *string) (*models.Account, error) {
	a := &models.Account{}

	q := tx.Where("username = ?", username)

	if queryOption != nil && *queryOption != "" {
		q = q.Set("gorm:query_option", *queryOption)
	}

	q = q.First(a)

	if q.RecordNotFound() {
		return nil, pberrors.NotFound.WithMsg(fmt.Sprintf("account not found for %q", username))
	}

	if q.Error != nil {
		return nil, pberrors.InternalServerError.WithError(q.Error)
	}

	return a, nil
}
