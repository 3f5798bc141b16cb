package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"invoicing/metrics"
	"invoicing/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxDescriptionLength longest accepted line description, in characters
const MaxDescriptionLength = 2000

var (
	minLineValue = decimal.RequireFromString("0.01")
	maxLineValue = decimal.NewFromInt(1000000)
)

// LineInput user supplied part of an invoice line
type LineInput struct {
	Description string
	Hours       decimal.Decimal
	Rate        decimal.Decimal
}

// Validate checks hours and rate are within 0.01..1,000,000 and the
// description fits. Hours and rate are first rounded to their stored scale so
// the computed amounts match the stored inputs.
func (in *LineInput) Validate() error {
	in.Description = strings.TrimSpace(in.Description)
	in.Hours = in.Hours.Round(4)
	in.Rate = in.Rate.Round(2)
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return invalid("description", "must be at most %d characters", MaxDescriptionLength)
	}
	if in.Hours.LessThan(minLineValue) || in.Hours.GreaterThan(maxLineValue) {
		return invalid("hours", "must be between 0.01 and 1000000")
	}
	if in.Rate.LessThan(minLineValue) || in.Rate.GreaterThan(maxLineValue) {
		return invalid("rate", "must be between 0.01 and 1000000")
	}
	return nil
}

// invoiceTaxRate tax rate of the invoice's client as of now
func invoiceTaxRate(tx *gorm.DB, invoiceID uint) (decimal.Decimal, error) {
	var invoice models.Invoice
	if err := tx.Preload("Client").Take(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
		}
		return decimal.Zero, err
	}
	if invoice.Client == nil {
		return decimal.Zero, nil
	}
	return ResolveTaxRate(invoice.Client.GSTCode), nil
}

func applyLine(item *models.InvoiceItem, in LineInput, taxRate decimal.Decimal) error {
	amounts, err := ComputeLine(in.Hours, in.Rate, taxRate)
	if err != nil {
		return err
	}
	item.Description = in.Description
	item.Hours = in.Hours
	item.Rate = in.Rate
	item.Amount = amounts.Amount
	item.GST = amounts.GST
	item.Total = amounts.Total
	return nil
}

// AddItem computes a new line for the invoice and stores it
func (s *InvoiceService) AddItem(ctx context.Context, invoiceID uint, in LineInput) (*models.InvoiceItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item := &models.InvoiceItem{InvoiceID: invoiceID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taxRate, err := invoiceTaxRate(tx, invoiceID)
		if err != nil {
			return err
		}
		if err := applyLine(item, in, taxRate); err != nil {
			return err
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.InvoiceLinesWritten.WithLabelValues("add").Inc()
	s.log.Debug("invoice line added",
		zap.Uint("invoice_id", invoiceID),
		zap.Uint("item_id", item.ID),
		zap.String("total", item.Total.StringFixed(2)),
	)
	return item, nil
}

// UpdateItem recomputes an existing line from new input
func (s *InvoiceService) UpdateItem(ctx context.Context, invoiceID, itemID uint, in LineInput) (*models.InvoiceItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var item models.InvoiceItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).Take(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("invoice item %d: %w", itemID, ErrNotFound)
			}
			return err
		}

		taxRate, err := invoiceTaxRate(tx, invoiceID)
		if err != nil {
			return err
		}
		if err := applyLine(&item, in, taxRate); err != nil {
			return err
		}
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.InvoiceLinesWritten.WithLabelValues("edit").Inc()
	s.log.Debug("invoice line updated", zap.Uint("invoice_id", invoiceID), zap.Uint("item_id", itemID))
	return &item, nil
}

// DeleteItem removes a line from the invoice
func (s *InvoiceService) DeleteItem(ctx context.Context, invoiceID, itemID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND invoice_id = ?", itemID, invoiceID).
		Delete(&models.InvoiceItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("invoice item %d: %w", itemID, ErrNotFound)
	}

	s.log.Debug("invoice line deleted", zap.Uint("invoice_id", invoiceID), zap.Uint("item_id", itemID))
	return nil
}
