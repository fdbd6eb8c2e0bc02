package models

import "time"

// InvoiceSequenceName is the counter row used for invoice numbers.
const InvoiceSequenceName = "invoice"

// InvoiceSequence is a persisted monotonic counter. LastValue only ever grows,
// so numbers of deleted invoices are never handed out again.
type InvoiceSequence struct {
	Name      string    `json:"name" gorm:"primaryKey;size:64"`
	LastValue int64     `json:"last_value" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}
