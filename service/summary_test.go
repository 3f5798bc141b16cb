package service

import (
	"context"
	"testing"

	"invoicing/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestInvoiceService_Summarize(t *testing.T) {
	db := newTestDB(t)
	client := mustCreateClient(t, db, "Acme", "S", "100")
	march := mustCreateInvoice(t, db, client.ID, "GSL0001", models.Date(2024, 3, 5))
	april := mustCreateInvoice(t, db, client.ID, "GSL0002", models.Date(2024, 4, 30))
	mustCreateInvoice(t, db, client.ID, "GSL0003", models.Date(2024, 5, 1))
	s := NewInvoiceService(db)
	ctx := context.Background()

	_, err := s.AddItem(ctx, march.ID, LineInput{Hours: d("1"), Rate: d("100")})
	require.NoError(t, err)
	_, err = s.AddItem(ctx, april.ID, LineInput{Hours: d("0.333"), Rate: d("100")})
	require.NoError(t, err)

	summary, err := s.Summarize(ctx, models.Date(2024, 3, 1), models.Date(2024, 4, 30))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Invoices)
	assert.Equal(t, 2, summary.Lines)
	assert.Equal(t, "133.30", summary.Amount.StringFixed(2))
	assert.Equal(t, "20.00", summary.GST.StringFixed(2))
	assert.Equal(t, "153.30", summary.Total.StringFixed(2))

	all, err := s.Summarize(ctx, datatypes.Date{}, datatypes.Date{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Invoices)

	none, err := s.Summarize(ctx, models.Date(2030, 1, 1), datatypes.Date{})
	require.NoError(t, err)
	assert.Equal(t, 0, none.Invoices)
	assert.True(t, none.Total.IsZero())
}
