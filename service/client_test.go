package service

import (
	"context"
	"testing"
	"time"

	"invoicing/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientService_ListOrderedByName(t *testing.T) {
	db := newTestDB(t)
	mustCreateClient(t, db, "Zeta", "S", "100")
	mustCreateClient(t, db, "Alpha", "", "90")

	clients, err := NewClientService(db).List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Alpha", clients[0].Name)
	assert.Equal(t, "Zeta", clients[1].Name)
}

func TestClientService_ListSearch(t *testing.T) {
	db := newTestDB(t)
	mustCreateClient(t, db, "Acme Ltd", "S", "100")
	mustCreateClient(t, db, "100% Design", "S", "100")
	mustCreateClient(t, db, "Beta_Works", "S", "100")
	s := NewClientService(db)

	clients, err := s.List(context.Background(), "ACME")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Acme Ltd", clients[0].Name)

	// wildcards are matched literally
	clients, err = s.List(context.Background(), "%")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "100% Design", clients[0].Name)

	clients, err = s.List(context.Background(), "a_w")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Beta_Works", clients[0].Name)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "!%", escapeLike("%"))
	assert.Equal(t, "!_", escapeLike("_"))
	assert.Equal(t, "!!", escapeLike("!"))
	assert.Equal(t, "50!% off!!", escapeLike("50% off!"))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestClientService_GetNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := NewClientService(db).Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientService_Update(t *testing.T) {
	db := newTestDB(t)
	client := mustCreateClient(t, db, "Acme", "S", "100")
	s := NewClientService(db)

	cardID := " 900 "
	updated, err := s.Update(context.Background(), client.ID, ClientUpdate{
		CardID:  &cardID,
		Name:    "Acme Holdings",
		Contact: "Jo",
		GSTCode: " Z ",
		Rate:    d("135.5"),
		City:    "Wellington",
		Version: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "900", updated.CardID)
	assert.Equal(t, "Acme Holdings", updated.Name)
	assert.Equal(t, "Z", updated.GSTCode)
	assert.Equal(t, "135.50", updated.Rate.StringFixed(2))
	assert.Equal(t, uint(2), updated.Version)
	// date created is kept when not given
	assert.Equal(t, "2024-01-15", time.Time(updated.DateCreated).Format("2006-01-02"))
}

func TestClientService_UpdateKeepsCardID(t *testing.T) {
	db := newTestDB(t)
	client := mustCreateClient(t, db, "Acme", "S", "100")

	updated, err := NewClientService(db).Update(context.Background(), client.ID, ClientUpdate{
		Name: "Acme",
		Rate: d("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, "C-Acme", updated.CardID)
}

func TestClientService_UpdateVersionConflict(t *testing.T) {
	db := newTestDB(t)
	client := mustCreateClient(t, db, "Acme", "S", "100")
	s := NewClientService(db)

	_, err := s.Update(context.Background(), client.ID, ClientUpdate{Name: "First", Rate: d("1"), Version: 1})
	require.NoError(t, err)

	// a second writer still holding version 1
	_, err = s.Update(context.Background(), client.ID, ClientUpdate{Name: "Second", Rate: d("1"), Version: 1})
	assert.ErrorIs(t, err, ErrConflict)

	current, err := s.Get(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", current.Name)
}

func TestClientService_UpdateValidation(t *testing.T) {
	db := newTestDB(t)
	client := mustCreateClient(t, db, "Acme", "S", "100")

	_, err := NewClientService(db).Update(context.Background(), client.ID, ClientUpdate{Name: ""})
	assert.True(t, IsValidation(err))

	_, err = NewClientService(db).Update(context.Background(), 999, ClientUpdate{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientService_Delete(t *testing.T) {
	db := newTestDB(t)
	withInvoice := mustCreateClient(t, db, "Busy", "S", "100")
	mustCreateInvoice(t, db, withInvoice.ID, "GSL0001", models.Date(2024, 3, 1))
	idle := mustCreateClient(t, db, "Idle", "S", "100")
	s := NewClientService(db)

	assert.ErrorIs(t, s.Delete(context.Background(), withInvoice.ID), ErrClientHasInvoices)
	require.NoError(t, s.Delete(context.Background(), idle.ID))
	assert.ErrorIs(t, s.Delete(context.Background(), idle.ID), ErrNotFound)

	_, err := s.Get(context.Background(), withInvoice.ID)
	assert.NoError(t, err)
}
