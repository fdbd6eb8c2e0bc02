package database

import (
	"errors"
	"fmt"

	"taxinvoice-backend/models"

	"gorm.io/gorm"
)

// Migrate applies idempotent schema migrations and makes sure the invoice
// counter row exists. When an existing invoices table has no counter yet, the
// counter starts after the highest number already handed out.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoiceSequence{},
		&models.IdempotencyKey{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var seq models.InvoiceSequence
		err := tx.Where("name = ?", models.InvoiceSequenceName).First(&seq).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("read invoice sequence: %w", err)
		}

		var count int64
		if err := tx.Model(&models.Invoice{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count invoices: %w", err)
		}
		var maxSeq int64
		if err := tx.Model(&models.Invoice{}).Select("COALESCE(MAX(sequence), 0)").Scan(&maxSeq).Error; err != nil {
			return fmt.Errorf("read max invoice sequence: %w", err)
		}

		seq = models.InvoiceSequence{Name: models.InvoiceSequenceName, LastValue: max(count, maxSeq)}
		if err := tx.Create(&seq).Error; err != nil {
			return fmt.Errorf("seed invoice sequence: %w", err)
		}
		return nil
	})
}
