package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoicing/database"
	"invoicing/metrics"
	"invoicing/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// errCounterMissing the counter row was not found inside an allocating
// transaction; it is created in its own transaction and the allocation re-run.
var errCounterMissing = errors.New("counter record missing")

// Allocator hands out client card ids and invoice numbers from the counter
// record and persists the entity that consumes them in the same serializable
// transaction.
type Allocator struct {
	db         *gorm.DB
	log        *zap.Logger
	maxRetries int
}

// NewAllocator creates an allocator; maxRetries bounds conflict retries
func NewAllocator(db *gorm.DB, maxRetries int) *Allocator {
	return &Allocator{
		db:         db,
		log:        zap.L().Named("allocator"),
		maxRetries: maxRetries,
	}
}

// AllocateNextCardID advances the counter's last card id and returns the new
// value. tx must be the serializable transaction that creates the client.
func AllocateNextCardID(tx *gorm.DB) (string, error) {
	counter, err := lockCounter(tx)
	if err != nil {
		return "", err
	}

	next := models.NextCardID(counter.LastCardID)
	if err := tx.Model(counter).Update("last_card_id", next).Error; err != nil {
		return "", fmt.Errorf("update counter card id: %w", err)
	}
	return next, nil
}

// AllocateNextInvoiceNumber advances the counter's last invoice number and
// returns the new value. tx must be the serializable transaction that creates
// the invoice.
func AllocateNextInvoiceNumber(tx *gorm.DB) (string, error) {
	counter, err := lockCounter(tx)
	if err != nil {
		return "", err
	}

	next := models.NextInvoiceNumber(counter.LastInvoiceNumber)
	if err := tx.Model(counter).Update("last_invoice_number", next).Error; err != nil {
		return "", fmt.Errorf("update counter invoice number: %w", err)
	}
	return next, nil
}

// lockCounter reads the counter row, locking it where the dialect supports row locks
func lockCounter(tx *gorm.DB) (*models.Counter, error) {
	var counter models.Counter
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", models.CounterID).
		Take(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errCounterMissing
	}
	if err != nil {
		return nil, fmt.Errorf("read counter: %w", err)
	}
	return &counter, nil
}

// run executes fn in a retried serializable transaction, bootstrapping the
// counter first when fn found it missing.
func (a *Allocator) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := database.WithSerializableTx(ctx, a.db, a.maxRetries, fn)
	if !errors.Is(err, errCounterMissing) {
		return err
	}

	a.log.Info("counter record missing, creating it with defaults")
	if err := database.EnsureCounter(ctx, a.db); err != nil {
		return err
	}
	return database.WithSerializableTx(ctx, a.db, a.maxRetries, fn)
}

// CreateClient assigns the next card id to client and inserts it
func (a *Allocator) CreateClient(ctx context.Context, client *models.Client) error {
	client.CardID = ""
	if err := ValidateClient(client); err != nil {
		return err
	}
	client.Rate = client.Rate.Round(2)
	if time.Time(client.DateCreated).IsZero() {
		client.DateCreated = models.DateOf(time.Now())
	}

	err := a.run(ctx, func(tx *gorm.DB) error {
		// a retried attempt starts from a clean record
		client.ID = 0
		client.Version = 1

		cardID, err := AllocateNextCardID(tx)
		if err != nil {
			return err
		}
		client.CardID = cardID

		return tx.Create(client).Error
	})
	if err != nil {
		return err
	}

	metrics.IdentifiersAllocated.WithLabelValues("card_id").Inc()
	a.log.Info("client created",
		zap.Uint("client_id", client.ID),
		zap.String("card_id", client.CardID),
	)
	return nil
}

// CreateInvoice assigns the next invoice number to invoice and inserts it.
// The referenced client must exist.
func (a *Allocator) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	if invoice.ClientID == 0 {
		return invalid("client_id", "is required")
	}
	today := models.DateOf(time.Now())
	if time.Time(invoice.InvoiceDate).IsZero() {
		invoice.InvoiceDate = today
	}
	if time.Time(invoice.DateCreated).IsZero() {
		invoice.DateCreated = today
	}

	err := a.run(ctx, func(tx *gorm.DB) error {
		invoice.ID = 0
		invoice.Version = 1

		var client models.Client
		if err := tx.Select("id").Take(&client, invoice.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("client %d: %w", invoice.ClientID, ErrNotFound)
			}
			return err
		}

		number, err := AllocateNextInvoiceNumber(tx)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number

		return tx.Omit(clause.Associations).Create(invoice).Error
	})
	if err != nil {
		return err
	}

	metrics.IdentifiersAllocated.WithLabelValues("invoice_number").Inc()
	a.log.Info("invoice created",
		zap.Uint("invoice_id", invoice.ID),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Uint("client_id", invoice.ClientID),
	)
	return nil
}

// Counter returns the counter record, creating it with defaults when missing
func (a *Allocator) Counter(ctx context.Context) (*models.Counter, error) {
	if err := database.EnsureCounter(ctx, a.db); err != nil {
		return nil, err
	}

	var counter models.Counter
	if err := a.db.WithContext(ctx).Take(&counter, models.CounterID).Error; err != nil {
		return nil, fmt.Errorf("read counter: %w", err)
	}
	return &counter, nil
}

// SetLastInvoiceNumber overwrites the last issued invoice number; the next
// invoice continues from it.
func (a *Allocator) SetLastInvoiceNumber(ctx context.Context, value string) (*models.Counter, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, invalid("last_invoice_number", "is required")
	}
	if len(value) > 255 {
		return nil, invalid("last_invoice_number", "must be at most 255 characters")
	}

	var counter *models.Counter
	err := a.run(ctx, func(tx *gorm.DB) error {
		c, err := lockCounter(tx)
		if err != nil {
			return err
		}
		if err := tx.Model(c).Update("last_invoice_number", value).Error; err != nil {
			return err
		}
		c.LastInvoiceNumber = value
		counter = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.log.Info("last invoice number changed", zap.String("last_invoice_number", value))
	return counter, nil
}
