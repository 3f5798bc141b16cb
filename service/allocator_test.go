package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"invoicing/database"
	"invoicing/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setCounter(t *testing.T, db *gorm.DB, column, value string) {
	t.Helper()
	require.NoError(t, database.EnsureCounter(context.Background(), db))
	require.NoError(t, db.Model(&models.Counter{}).Where("id = ?", models.CounterID).Update(column, value).Error)
}

func TestAllocator_CreateClient_CreatesMissingCounter(t *testing.T) {
	db := newTestDB(t)
	a := NewAllocator(db, 5)

	client := &models.Client{Name: "  Acme Ltd ", Rate: d("120"), CardID: "ignored"}
	require.NoError(t, a.CreateClient(context.Background(), client))

	assert.NotZero(t, client.ID)
	assert.Equal(t, "1", client.CardID)
	assert.Equal(t, "Acme Ltd", client.Name)
	assert.Equal(t, uint(1), client.Version)
	assert.False(t, time.Time(client.DateCreated).IsZero())

	counter := counterOf(t, db)
	assert.Equal(t, "1", counter.LastCardID)
	assert.Equal(t, models.DefaultLastInvoiceNumber, counter.LastInvoiceNumber)
}

func TestAllocator_CreateClient_ContinuesFromCounter(t *testing.T) {
	db := newTestDB(t)
	setCounter(t, db, "last_card_id", "41")
	a := NewAllocator(db, 5)

	first := &models.Client{Name: "First", Rate: d("100")}
	second := &models.Client{Name: "Second", Rate: d("100")}
	require.NoError(t, a.CreateClient(context.Background(), first))
	require.NoError(t, a.CreateClient(context.Background(), second))

	assert.Equal(t, "42", first.CardID)
	assert.Equal(t, "43", second.CardID)
	assert.Equal(t, "43", counterOf(t, db).LastCardID)
}

func TestAllocator_CreateClient_UnparseableCounter(t *testing.T) {
	db := newTestDB(t)
	setCounter(t, db, "last_card_id", "abc")
	a := NewAllocator(db, 5)

	client := &models.Client{Name: "Acme", Rate: d("100")}
	require.NoError(t, a.CreateClient(context.Background(), client))
	assert.Equal(t, "1", client.CardID)
}

func TestAllocator_CreateClient_Validation(t *testing.T) {
	db := newTestDB(t)
	a := NewAllocator(db, 5)

	err := a.CreateClient(context.Background(), &models.Client{Name: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	err = a.CreateClient(context.Background(), &models.Client{Name: "Acme", Rate: d("-1")})
	assert.True(t, IsValidation(err))

	// nothing was allocated
	var count int64
	db.Model(&models.Counter{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAllocator_ConcurrentCardIDs(t *testing.T) {
	db := newTestDB(t)
	setCounter(t, db, "last_card_id", "41")
	a := NewAllocator(db, 5)

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		ids   = make([]string, 2)
		errs  = make([]error, 2)
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			client := &models.Client{Name: fmt.Sprintf("Client %d", i), Rate: d("100")}
			errs[i] = a.CreateClient(context.Background(), client)
			ids[i] = client.CardID
		}(i)
	}
	close(start)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	sort.Strings(ids)
	assert.Equal(t, []string{"42", "43"}, ids)
	assert.Equal(t, "43", counterOf(t, db).LastCardID)
}

func TestAllocator_ConcurrentInvoiceNumbers(t *testing.T) {
	db := newTestDB(t)
	client := mustCreateClient(t, db, "Acme", "S", "100")
	a := NewAllocator(db, 5)

	const n = 8
	var wg sync.WaitGroup
	numbers := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			invoice := &models.Invoice{ClientID: client.ID}
			errs[i] = a.CreateInvoice(context.Background(), invoice)
			numbers[i] = invoice.InvoiceNumber
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	sort.Strings(numbers)
	for i, number := range numbers {
		assert.Equal(t, fmt.Sprintf("GSL%04d", i+1), number)
	}
	assert.Equal(t, "GSL0008", counterOf(t, db).LastInvoiceNumber)
}

func TestAllocator_CreateInvoice(t *testing.T) {
	db := newTestDB(t)
	client := mustCreateClient(t, db, "Acme", "S", "100")
	setCounter(t, db, "last_invoice_number", "GSL0999")
	a := NewAllocator(db, 5)

	invoice := &models.Invoice{ClientID: client.ID, PONumber: "PO-7"}
	require.NoError(t, a.CreateInvoice(context.Background(), invoice))

	assert.NotZero(t, invoice.ID)
	assert.Equal(t, "GSL1000", invoice.InvoiceNumber)
	assert.False(t, time.Time(invoice.InvoiceDate).IsZero())
	assert.Equal(t, "GSL1000", counterOf(t, db).LastInvoiceNumber)

	var stored models.Invoice
	require.NoError(t, db.Take(&stored, invoice.ID).Error)
	assert.Equal(t, "GSL1000", stored.InvoiceNumber)
	assert.Equal(t, "PO-7", stored.PONumber)
}

func TestAllocator_CreateInvoice_WidthGrows(t *testing.T) {
	db := newTestDB(t)
	client := mustCreateClient(t, db, "Acme", "", "100")
	setCounter(t, db, "last_invoice_number", "GSL9999")

	invoice := &models.Invoice{ClientID: client.ID}
	require.NoError(t, NewAllocator(db, 5).CreateInvoice(context.Background(), invoice))
	assert.Equal(t, "GSL10000", invoice.InvoiceNumber)
}

func TestAllocator_CreateInvoice_UnknownClientLeavesCounter(t *testing.T) {
	db := newTestDB(t)
	setCounter(t, db, "last_invoice_number", "GSL0005")

	err := NewAllocator(db, 5).CreateInvoice(context.Background(), &models.Invoice{ClientID: 999})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "GSL0005", counterOf(t, db).LastInvoiceNumber)

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAllocateNextCardID_RolledBackWithEntity(t *testing.T) {
	db := newTestDB(t)
	setCounter(t, db, "last_card_id", "7")
	failed := errors.New("insert failed")

	err := database.WithSerializableTx(context.Background(), db, 1, func(tx *gorm.DB) error {
		id, err := AllocateNextCardID(tx)
		require.NoError(t, err)
		assert.Equal(t, "8", id)
		return failed
	})
	assert.ErrorIs(t, err, failed)
	assert.Equal(t, "7", counterOf(t, db).LastCardID)
}

func TestAllocator_Counter(t *testing.T) {
	db := newTestDB(t)
	a := NewAllocator(db, 5)

	counter, err := a.Counter(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GSL0000", counter.LastInvoiceNumber)
	assert.Equal(t, "0", counter.LastCardID)
}

func TestAllocator_SetLastInvoiceNumber(t *testing.T) {
	db := newTestDB(t)
	client := mustCreateClient(t, db, "Acme", "S", "100")
	a := NewAllocator(db, 5)

	counter, err := a.SetLastInvoiceNumber(context.Background(), " INV0041 ")
	require.NoError(t, err)
	assert.Equal(t, "INV0041", counter.LastInvoiceNumber)

	invoice := &models.Invoice{ClientID: client.ID}
	require.NoError(t, a.CreateInvoice(context.Background(), invoice))
	assert.Equal(t, "INV0042", invoice.InvoiceNumber)

	_, err = a.SetLastInvoiceNumber(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}
