package service

import (
	"context"
	"time"

	"invoicing/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Summary invoiced totals over a date range
type Summary struct {
	Invoices int             `json:"invoices"`
	Lines    int             `json:"lines"`
	Amount   decimal.Decimal `json:"amount"`
	GST      decimal.Decimal `json:"gst"`
	Total    decimal.Decimal `json:"total"`
}

// Summarize totals the lines of invoices dated from..to inclusive. A zero
// bound leaves that side open.
func (s *InvoiceService) Summarize(ctx context.Context, from, to datatypes.Date) (*Summary, error) {
	query := s.db.WithContext(ctx).Model(&models.Invoice{})
	if !time.Time(from).IsZero() {
		query = query.Where("invoice_date >= ?", from)
	}
	if !time.Time(to).IsZero() {
		query = query.Where("invoice_date <= ?", to)
	}

	var ids []uint
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	summary := &Summary{
		Invoices: len(ids),
		Amount:   decimal.Zero,
		GST:      decimal.Zero,
		Total:    decimal.Zero,
	}
	if len(ids) == 0 {
		return summary, nil
	}

	var items []models.InvoiceItem
	if err := s.db.WithContext(ctx).Select("amount", "gst", "total").Where("invoice_id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}

	// exact decimal sum; sqlite stores these columns as REAL
	for _, item := range items {
		summary.Amount = summary.Amount.Add(item.Amount)
		summary.GST = summary.GST.Add(item.GST)
		summary.Total = summary.Total.Add(item.Total)
	}
	summary.Lines = len(items)
	return summary, nil
}
