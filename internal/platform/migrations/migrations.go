package migrations

import (
	"gorm.io/gorm"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/adapters/persistence/gormdb"
)

// Run applies the order schema. A nil DB is a no-op for the file-backed deployment.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&gormdb.OrderRecord{},
		&gormdb.PaymentKeyRecord{},
	)
}
