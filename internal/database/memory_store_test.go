package database

import (
	"context"
	"testing"
	"time"

	"github.com/justsurfingit/applied-jobs-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedStore(now time.Time) *MemoryStore {
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	return s
}

func TestMemoryStore_InsertAndQuery(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := fixedStore(now)

	id1, err := s.Insert(ctx, Collection, models.Application{UserUID: "u1", CompanyName: "Acme"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, Collection, models.Application{UserUID: "u2", CompanyName: "Other"})
	require.NoError(t, err)
	id3, err := s.Insert(ctx, Collection, models.Application{UserUID: "u1", CompanyName: "Beta"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)

	docs, err := s.Query(ctx, Collection, OwnerFilter("u1"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, id1, docs[0].ID)
	assert.Equal(t, id3, docs[1].ID)
	assert.Equal(t, now, docs[0].DateApplied)
	assert.Equal(t, now, docs[0].CreatedAt)
}

func TestMemoryStore_RejectsUnknownCollectionAndFilter(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Query(ctx, "jobs", OwnerFilter("u1"))
	assert.ErrorIs(t, err, ErrUnknownCollection)

	_, err = s.Query(ctx, Collection, Filter{Field: "salary", Value: "1"})
	assert.ErrorIs(t, err, ErrUnsupportedFilter)

	_, err = s.Insert(ctx, "jobs", models.Application{})
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestMemoryStore_UpdateByKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id, err := s.Insert(ctx, Collection, models.Application{UserUID: "u1", CompanyName: "Acme"})
	require.NoError(t, err)

	applied := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	err = s.UpdateByKey(ctx, Collection, id, models.ApplicationFields{
		CompanyName: "Acme Corp",
		Salary:      10,
		Status:      models.StatusAccepted,
		DateApplied: applied,
	})
	require.NoError(t, err)

	docs, err := s.Query(ctx, Collection, OwnerFilter("u1"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Acme Corp", docs[0].CompanyName)
	assert.Equal(t, models.StatusAccepted, docs[0].Status)
	assert.Equal(t, applied, docs[0].DateApplied)
	assert.Equal(t, "u1", docs[0].UserUID)

	err = s.UpdateByKey(ctx, Collection, "missing", models.ApplicationFields{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteByKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id, err := s.Insert(ctx, Collection, models.Application{UserUID: "u1"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteByKey(ctx, Collection, id))
	require.NoError(t, s.DeleteByKey(ctx, Collection, id))

	docs, err := s.Query(ctx, Collection, OwnerFilter("u1"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryStore().Query(ctx, Collection, OwnerFilter("u1"))
	assert.ErrorIs(t, err, context.Canceled)
}
