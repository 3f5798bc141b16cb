package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Client customer billed by invoices
type Client struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	CardID      string          `json:"card_id" gorm:"size:50;index"` // assigned from the counter on create
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Contact     string          `json:"contact" gorm:"size:255"`
	Email       string          `json:"email" gorm:"size:255"`
	GSTCode     string          `json:"gst_code" gorm:"column:gst_code;size:50"` // S = standard rate, anything else zero rated
	Rate        decimal.Decimal `json:"rate" gorm:"type:decimal(18,2);not null"` // default hourly rate
	Street      string          `json:"street" gorm:"size:255"`
	Suburb      string          `json:"suburb" gorm:"size:255"`
	City        string          `json:"city" gorm:"size:255"`
	Postcode    string          `json:"postcode" gorm:"size:50"`
	Country     string          `json:"country" gorm:"size:255"`
	DateCreated datatypes.Date  `json:"date_created" gorm:"not null"`
	Version     uint            `json:"version" gorm:"not null;default:1"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Invoices    []Invoice       `json:"-" gorm:"foreignKey:ClientID"`
}

// TableName sets the table name
func (Client) TableName() string {
	return "clients"
}

// ExportCardID card id used by exports; clients created before card ids
// existed fall back to their record id.
func (c *Client) ExportCardID() string {
	if c.CardID != "" {
		return c.CardID
	}
	return strconv.FormatUint(uint64(c.ID), 10)
}
