package migration

import (
	"github.com/jinzhu/gorm"
	"github.com/paperstreet/paperbroker/models"
	gormigrate "gopkg.in/gormigrate.v1"
)

// Migration contains the incremental migrations that keep the database
// schema in step with the models.
func Migration(db *gorm.DB) *gormigrate.Gormigrate {
	return gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// initial migration
		{
			ID: "202608211030",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&models.Account{}).Error; err != nil {
					return err
				}
				if err := tx.AutoMigrate(&models.Position{}).Error; err != nil {
					return err
				}
				if err := tx.AutoMigrate(&models.Trade{}).Error; err != nil {
					return err
				}
				// sqlite can't add FK constraints after table creation
				if tx.Dialect().GetName() == "postgres" {
					if err := tx.Model(&models.Position{}).
						AddForeignKey("account_id", "accounts(id)", "RESTRICT", "RESTRICT").Error; err != nil {
						return err
					}
					if err := tx.Model(&models.Trade{}).
						AddForeignKey("account_id", "accounts(id)", "RESTRICT", "RESTRICT").Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.DropTableIfExists("trades", "positions", "accounts").Error
			},
		},
	})
}
