package models

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	// CounterID fixed primary key of the singleton counter row
	CounterID uint = 1
	// DefaultLastInvoiceNumber last invoice number of a fresh counter
	DefaultLastInvoiceNumber = "GSL0000"
	// DefaultLastCardID last card id of a fresh counter
	DefaultLastCardID = "0"
	// FirstInvoiceNumber issued when the counter holds no invoice number
	FirstInvoiceNumber = "GSL0001"
)

// Counter singleton row holding the last issued card id and invoice number.
// It is only written by the identifier allocator, inside the transaction
// that persists the entity consuming the new identifier.
type Counter struct {
	ID                uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	LastInvoiceNumber string    `json:"last_invoice_number" gorm:"size:255;not null;default:GSL0000"`
	LastCardID        string    `json:"last_card_id" gorm:"size:50;not null;default:0"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName sets the table name
func (Counter) TableName() string {
	return "counters"
}

// NewCounter returns the counter row with its documented defaults
func NewCounter() Counter {
	return Counter{
		ID:                CounterID,
		LastInvoiceNumber: DefaultLastInvoiceNumber,
		LastCardID:        DefaultLastCardID,
	}
}

// NextCardID returns the card id following last.
// Anything that is not a non-negative integer counts as 0. The value is not
// bounded by int64, so the sequence keeps increasing past it.
func NextCardID(last string) string {
	n, ok := new(big.Int).SetString(strings.TrimSpace(last), 10)
	if !ok || n.Sign() < 0 {
		n = new(big.Int)
	}
	return n.Add(n, big.NewInt(1)).String()
}

// NextInvoiceNumber returns the invoice number following last.
//
// The number is split into a prefix and its trailing run of digits. The digits
// are incremented and zero padded back to their original width; the width is a
// minimum, so GSL9999 becomes GSL10000.
func NextInvoiceNumber(last string) string {
	value := strings.TrimSpace(last)
	if value == "" {
		return FirstInvoiceNumber
	}

	split := len(value)
	for split > 0 && isDigit(value[split-1]) {
		split--
	}

	prefix, digits := value[:split], value[split:]
	if digits == "" {
		return prefix + "0001"
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n == 1<<63-1 {
		return prefix + "0001"
	}

	return prefix + fmt.Sprintf("%0*d", len(digits), n+1)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
