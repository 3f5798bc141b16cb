package models

import (
	"time"

	"gorm.io/datatypes"
)

// Invoice invoice header; items are owned and deleted with it
type Invoice struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	ClientID      uint           `json:"client_id" gorm:"index;not null"`
	InvoiceNumber string         `json:"invoice_number" gorm:"size:255;not null;index"`
	InvoiceDate   datatypes.Date `json:"invoice_date" gorm:"index;not null"`
	PONumber      string         `json:"po_number" gorm:"column:po_number;size:255"`
	Contact       string         `json:"contact" gorm:"size:255"`
	Notes         string         `json:"notes" gorm:"type:text"`
	DateCreated   datatypes.Date `json:"date_created" gorm:"not null"`
	Version       uint           `json:"version" gorm:"not null;default:1"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Client        *Client        `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Items         []InvoiceItem  `json:"items,omitempty" gorm:"foreignKey:InvoiceID"`
}

// TableName sets the table name
func (Invoice) TableName() string {
	return "invoices"
}

// Date converts y/m/d into a date-only value in UTC
func Date(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf drops the time of day from t, keeping its calendar date
func DateOf(t time.Time) datatypes.Date {
	return Date(t.Year(), t.Month(), t.Day())
}
