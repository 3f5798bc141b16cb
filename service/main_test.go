package service

import (
	"fmt"
	"strings"
	"testing"

	"invoicing/config"
	"invoicing/database"
	"invoicing/models"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory sqlite database with all tables
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", Path: dsn}, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func mustCreateClient(t *testing.T, db *gorm.DB, name, gstCode, rate string) *models.Client {
	t.Helper()
	client := &models.Client{
		CardID:      "C-" + name,
		Name:        name,
		GSTCode:     gstCode,
		Rate:        d(rate),
		DateCreated: models.Date(2024, 1, 15),
		Version:     1,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

func mustCreateInvoice(t *testing.T, db *gorm.DB, clientID uint, number string, date datatypes.Date) *models.Invoice {
	t.Helper()
	invoice := &models.Invoice{
		ClientID:      clientID,
		InvoiceNumber: number,
		InvoiceDate:   date,
		DateCreated:   date,
		Version:       1,
	}
	require.NoError(t, db.Create(invoice).Error)
	return invoice
}

func counterOf(t *testing.T, db *gorm.DB) models.Counter {
	t.Helper()
	var counter models.Counter
	require.NoError(t, db.Take(&counter, models.CounterID).Error)
	return counter
}
