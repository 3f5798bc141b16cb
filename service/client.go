package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoicing/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ClientUpdate editable client fields.
// CardID nil keeps the assigned card id. A zero DateCreated keeps the stored
// date. Version 0 skips the optimistic concurrency check.
type ClientUpdate struct {
	CardID      *string
	Name        string
	Contact     string
	Email       string
	GSTCode     string
	Rate        decimal.Decimal
	Street      string
	Suburb      string
	City        string
	Postcode    string
	Country     string
	DateCreated datatypes.Date
	Version     uint
}

// ClientService client queries and edits; creation goes through the Allocator
type ClientService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewClientService creates a client service
func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db, log: zap.L().Named("clients")}
}

// ValidateClient checks the fields shared by create and update
func ValidateClient(c *models.Client) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return invalid("name", "is required")
	}
	if len(c.Name) > 255 {
		return invalid("name", "must be at most 255 characters")
	}
	if len(c.Email) > 255 {
		return invalid("email", "must be at most 255 characters")
	}
	if len(strings.TrimSpace(c.CardID)) > 50 {
		return invalid("card_id", "must be at most 50 characters")
	}
	if c.Rate.IsNegative() {
		return invalid("rate", "must not be negative")
	}
	c.GSTCode = strings.TrimSpace(c.GSTCode)
	return nil
}

// escapeLike escapes LIKE wildcards with '!' so the pattern behaves the same
// on every supported dialect.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// List returns clients ordered by name. A non-empty search keeps clients
// whose name contains it, ignoring case.
func (s *ClientService) List(ctx context.Context, search string) ([]models.Client, error) {
	query := s.db.WithContext(ctx)
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(escapeLike(search)) + "%"
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!'", pattern)
	}

	var clients []models.Client
	if err := query.Order("name ASC, id ASC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Get returns one client
func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.WithContext(ctx).Take(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("client %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &client, nil
}

// Update applies upd to client id and bumps its version
func (s *ClientService) Update(ctx context.Context, id uint, upd ClientUpdate) (*models.Client, error) {
	candidate := models.Client{
		Name:    upd.Name,
		Email:   upd.Email,
		GSTCode: upd.GSTCode,
		Rate:    upd.Rate,
	}
	if upd.CardID != nil {
		candidate.CardID = *upd.CardID
	}
	if err := ValidateClient(&candidate); err != nil {
		return nil, err
	}

	var client models.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&client, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("client %d: %w", id, ErrNotFound)
			}
			return err
		}

		version := upd.Version
		if version == 0 {
			version = client.Version
		}

		updates := map[string]interface{}{
			"name":     candidate.Name,
			"contact":  strings.TrimSpace(upd.Contact),
			"email":    strings.TrimSpace(upd.Email),
			"gst_code": candidate.GSTCode,
			"rate":     upd.Rate.Round(2),
			"street":   upd.Street,
			"suburb":   upd.Suburb,
			"city":     upd.City,
			"postcode": upd.Postcode,
			"country":  upd.Country,
			"version":  gorm.Expr("version + 1"),
		}
		if upd.CardID != nil {
			updates["card_id"] = strings.TrimSpace(*upd.CardID)
		}
		if !time.Time(upd.DateCreated).IsZero() {
			updates["date_created"] = upd.DateCreated
		}

		res := tx.Model(&models.Client{}).Where("id = ? AND version = ?", id, version).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return tx.Take(&client, id).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("client updated", zap.Uint("client_id", id), zap.Uint("version", client.Version))
	return &client, nil
}

// Delete removes a client that has no invoices
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.Select("id").Take(&client, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("client %d: %w", id, ErrNotFound)
			}
			return err
		}

		var invoices int64
		if err := tx.Model(&models.Invoice{}).Where("client_id = ?", id).Count(&invoices).Error; err != nil {
			return err
		}
		if invoices > 0 {
			return ErrClientHasInvoices
		}

		return tx.Delete(&models.Client{}, id).Error
	})
	if err != nil {
		return err
	}

	s.log.Info("client deleted", zap.Uint("client_id", id))
	return nil
}
