package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"invoicing/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InvoiceUpdate editable invoice header fields.
// Version 0 skips the optimistic concurrency check.
type InvoiceUpdate struct {
	ClientID      uint
	InvoiceNumber string
	InvoiceDate   datatypes.Date
	PONumber      string
	Contact       string
	Notes         string
	Version       uint
}

// InvoiceDetail invoice edit view
type InvoiceDetail struct {
	Invoice        *models.Invoice `json:"invoice"`
	GSTCode        string          `json:"gst_code"`
	GSTRatePercent decimal.Decimal `json:"gst_rate_percent"`
	NewItemRate    decimal.Decimal `json:"new_item_rate"`
}

// InvoiceService invoice queries, header edits and deletion; creation goes
// through the Allocator and lines through the line methods.
type InvoiceService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewInvoiceService creates an invoice service
func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db, log: zap.L().Named("invoices")}
}

// ResolvePeriod fills in a missing year with the current one and a month
// outside 1..12 with the current month.
func ResolvePeriod(year, month int, now time.Time) (int, time.Month) {
	if year <= 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return year, now.Month()
	}
	return year, time.Month(month)
}

// MonthRange first day of the month and first day of the next month
func MonthRange(year int, month time.Month) (datatypes.Date, datatypes.Date) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return datatypes.Date(from), datatypes.Date(from.AddDate(0, 1, 0))
}

// ListMonth returns the invoices dated in the given month ordered by date
// then id, with their client and items (ordered by id).
func (s *InvoiceService) ListMonth(ctx context.Context, year int, month time.Month) ([]models.Invoice, error) {
	from, to := MonthRange(year, month)

	var invoices []models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("invoice_date >= ? AND invoice_date < ?", from, to).
		Order("invoice_date ASC, id ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// AvailableYears years that have invoices, newest first. selected is always included.
func (s *InvoiceService) AvailableYears(ctx context.Context, selected int) ([]int, error) {
	var dates []time.Time
	if err := s.db.WithContext(ctx).Model(&models.Invoice{}).Pluck("invoice_date", &dates).Error; err != nil {
		return nil, err
	}

	seen := map[int]bool{selected: true}
	years := []int{selected}
	for _, d := range dates {
		if y := d.Year(); !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// Get returns an invoice with its client and items
func (s *InvoiceService) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	return loadInvoice(s.db.WithContext(ctx), id)
}

func loadInvoice(db *gorm.DB, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := db.Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Take(&invoice, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invoice %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &invoice, nil
}

// Detail returns the invoice edit view: the invoice, its client's GST code and
// rate, and the hourly rate suggested for a new line.
func (s *InvoiceService) Detail(ctx context.Context, id uint) (*InvoiceDetail, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &InvoiceDetail{
		Invoice:        invoice,
		GSTRatePercent: decimal.Zero,
		NewItemRate:    decimal.Zero,
	}
	if invoice.Client != nil {
		detail.GSTCode = invoice.Client.GSTCode
		detail.GSTRatePercent = GSTRatePercent(invoice.Client.GSTCode)
		detail.NewItemRate = invoice.Client.Rate
	}
	return detail, nil
}

// Update applies upd to the invoice header and bumps its version
func (s *InvoiceService) Update(ctx context.Context, id uint, upd InvoiceUpdate) (*models.Invoice, error) {
	number := strings.TrimSpace(upd.InvoiceNumber)
	if number == "" {
		return nil, invalid("invoice_number", "is required")
	}
	if len(number) > 255 {
		return nil, invalid("invoice_number", "must be at most 255 characters")
	}
	if upd.ClientID == 0 {
		return nil, invalid("client_id", "is required")
	}
	if time.Time(upd.InvoiceDate).IsZero() {
		return nil, invalid("invoice_date", "is required")
	}

	var invoice *models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Invoice
		if err := tx.Select("id", "version").Take(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("invoice %d: %w", id, ErrNotFound)
			}
			return err
		}

		var client models.Client
		if err := tx.Select("id").Take(&client, upd.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid("client_id", "client %d does not exist", upd.ClientID)
			}
			return err
		}

		version := upd.Version
		if version == 0 {
			version = current.Version
		}

		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND version = ?", id, version).
			Updates(map[string]interface{}{
				"client_id":      upd.ClientID,
				"invoice_number": number,
				"invoice_date":   upd.InvoiceDate,
				"po_number":      strings.TrimSpace(upd.PONumber),
				"contact":        strings.TrimSpace(upd.Contact),
				"notes":          upd.Notes,
				"version":        gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		var err error
		invoice, err = loadInvoice(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice updated", zap.Uint("invoice_id", id), zap.Uint("version", invoice.Version))
	return invoice, nil
}

// Delete removes an invoice and its items in one transaction
func (s *InvoiceService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.Select("id").Take(&invoice, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("invoice %d: %w", id, ErrNotFound)
			}
			return err
		}

		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Invoice{}, id).Error
	})
	if err != nil {
		return err
	}

	s.log.Info("invoice deleted", zap.Uint("invoice_id", id))
	return nil
}
