package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateReportsTable creates the append-only table of sanction hits
func CreateReportsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_reports_table",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS reports (
					id VARCHAR(36) PRIMARY KEY,
					order_id VARCHAR(64) NOT NULL,
					shop_id VARCHAR(255) NOT NULL,
					customer_name VARCHAR(512) NOT NULL,
					created_at TIMESTAMP WITH TIME ZONE NOT NULL
				)
			`).Error; err != nil {
				return err
			}

			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_reports_shop_id ON reports(shop_id)`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`DROP TABLE IF EXISTS reports`).Error
		},
	}
}
