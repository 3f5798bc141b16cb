package models

import (
	"github.com/shopspring/decimal"
)

// InvoiceItem one billed line. Amount, GST and Total are computed when the
// line is written and stored as is.
type InvoiceItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	InvoiceID   uint            `json:"invoice_id" gorm:"index;not null"`
	Description string          `json:"description" gorm:"size:2000"`
	Hours       decimal.Decimal `json:"hours" gorm:"type:decimal(18,4);not null"`
	Rate        decimal.Decimal `json:"rate" gorm:"type:decimal(18,2);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`
	GST         decimal.Decimal `json:"gst" gorm:"column:gst;type:decimal(18,2);not null"`
	Total       decimal.Decimal `json:"total" gorm:"type:decimal(18,2);not null"`
}

// TableName sets the table name
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
