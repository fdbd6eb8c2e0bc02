package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice is an issued tax invoice. It is written once and never amended.
type Invoice struct {
	ID              string        `json:"id" gorm:"primaryKey;size:36"`
	InvoiceNumber   string        `json:"invoiceNumber" gorm:"size:64;not null;uniqueIndex"`
	Sequence        int64         `json:"-" gorm:"not null;uniqueIndex"` // value drawn from invoice_sequences
	CustomerName    string        `json:"customerName" gorm:"not null"`
	MobileNumber    string        `json:"mobileNumber" gorm:"size:32;not null"`
	CustomerAddress string        `json:"customerAddress" gorm:"not null"`
	Items           []InvoiceItem `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Subtotal        float64       `json:"subtotal" gorm:"not null"`
	TotalGst        float64       `json:"totalGst" gorm:"not null"`
	GrandTotal      float64       `json:"grandTotal" gorm:"not null"`
	CreatedAt       time.Time     `json:"createdAt" gorm:"index"`
}

type InvoiceItem struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	InvoiceID   string  `json:"-" gorm:"size:36;not null;index"`
	Position    int     `json:"-" gorm:"not null"` // order as entered on the form
	ProductName string  `json:"productName" gorm:"not null"`
	Quantity    float64 `json:"quantity" gorm:"not null;check:chk_invoice_items_quantity_pos,quantity > 0"`
	Price       float64 `json:"price" gorm:"not null;check:chk_invoice_items_price_nonneg,price >= 0"`
	Gst         float64 `json:"gst" gorm:"not null;check:chk_invoice_items_gst_range,gst >= 0 AND gst <= 100"`
	RowTotal    float64 `json:"rowTotal" gorm:"not null"`
}

func (invoice *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	return
}

func (item *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return
}
