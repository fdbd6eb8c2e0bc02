package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taxinvoice-backend/billing"
	"taxinvoice-backend/models"

	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrSequenceNotInitialized = errors.New("invoice sequence not initialized, run migrations")
)

// InvoiceStore persists invoices. Totals are stored exactly as handed in.
type InvoiceStore struct {
	db       *gorm.DB
	template string
	now      func() time.Time
}

type ListOptions struct {
	Limit  int
	Offset int
}

// NewInvoiceStore returns a store numbering invoices with template
// (billing.DefaultInvoiceNumberTemplate when empty).
func NewInvoiceStore(db *gorm.DB, template string) *InvoiceStore {
	if template == "" {
		template = billing.DefaultInvoiceNumberTemplate
	}
	return &InvoiceStore{db: db, template: template, now: time.Now}
}

// Create assigns the next invoice number and inserts invoice with its items in
// one transaction. The counter increment is a single UPDATE, so concurrent
// creates are serialized on the counter row and never share a number.
func (s *InvoiceStore) Create(ctx context.Context, invoice *models.Invoice) error {
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = s.now()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextSequence(tx, models.InvoiceSequenceName)
		if err != nil {
			return err
		}

		number, err := billing.FormatInvoiceNumber(s.template, invoice.CreatedAt, seq)
		if err != nil {
			return fmt.Errorf("format invoice number: %w", err)
		}
		invoice.Sequence = seq
		invoice.InvoiceNumber = number
		for i := range invoice.Items {
			invoice.Items[i].Position = i
		}

		if err := tx.Create(invoice).Error; err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}
		return nil
	})
}

func nextSequence(tx *gorm.DB, name string) (int64, error) {
	res := tx.Model(&models.InvoiceSequence{}).
		Where("name = ?", name).
		Updates(map[string]any{
			"last_value": gorm.Expr("last_value + ?", 1),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("increment invoice sequence: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrSequenceNotInitialized
	}

	var seq models.InvoiceSequence
	if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, fmt.Errorf("read invoice sequence: %w", err)
	}
	return seq.LastValue, nil
}

func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// List returns invoices newest first.
func (s *InvoiceStore) List(ctx context.Context, opts ListOptions) ([]models.Invoice, error) {
	q := s.db.WithContext(ctx).
		Preload("Items", itemsInOrder).
		Order("created_at DESC").
		Order("sequence DESC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	invoices := []models.Invoice{}
	if err := q.Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

func (s *InvoiceStore) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Items", itemsInOrder).
		First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("get invoice %s: %w", id, err)
	}
	return &invoice, nil
}

// DeleteByID removes the invoice and its items. The counter is left untouched.
func (s *InvoiceStore) DeleteByID(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return fmt.Errorf("delete invoice items: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Invoice{})
		if res.Error != nil {
			return fmt.Errorf("delete invoice %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvoiceNotFound
		}
		return nil
	})
}
