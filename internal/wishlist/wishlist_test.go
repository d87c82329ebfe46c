package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront/internal/models"
	"github.com/01moynul/storefront/internal/session"
)

func newTestManager(t *testing.T) (*Manager, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	m := NewManager(store, zerolog.Nop())
	m.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return m, store
}

func entry(name string) Entry {
	return Entry{
		ProductName: name,
		Price:       decimal.RequireFromString("49.00"),
		Thumbnail:   "thumb.jpg",
		Images:      []models.WishlistImage{{Filename: "a.jpg", FilePath: "/img/a.jpg"}},
	}
}

func TestAddIsASetInsert(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	w, err := m.Add(ctx, 1, entry("Ring"))
	require.NoError(t, err)
	require.Len(t, w.Items, 1)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), w.Items[0].AddedAt)

	m.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	w, err = m.Add(ctx, 1, entry("Renamed"))
	require.NoError(t, err)
	require.Len(t, w.Items, 1)
	assert.Equal(t, "Ring", w.Items[0].ProductName)
	assert.Equal(t, 2024, w.Items[0].AddedAt.Year(), "the original entry is kept")

	w, err = m.Get(ctx)
	require.NoError(t, err)
	require.Len(t, w.Items, 1)
	require.Len(t, w.Items[0].Images, 1)
	assert.Equal(t, "/img/a.jpg", w.Items[0].Images[0].FilePath)
}

func TestContainsAndRemove(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Add(ctx, 1, entry("Ring"))
	require.NoError(t, err)
	_, err = m.Add(ctx, 2, entry("Chain"))
	require.NoError(t, err)

	ok, err := m.Contains(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	w, err := m.Remove(ctx, 2)
	require.NoError(t, err)
	require.Len(t, w.Items, 1)

	w, err = m.Remove(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, w.Items, 1)

	ok, err = m.Contains(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMalformedOrMissingIsEmpty(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	w, err := m.Get(ctx)
	require.NoError(t, err)
	assert.NotNil(t, w.Items)
	assert.Empty(t, w.Items)

	require.NoError(t, store.Set(ctx, Key, []byte("{broken"), 0))
	w, err = m.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, w.Items)

	require.NoError(t, store.Set(ctx, Key, []byte(`{}`), 0))
	w, err = m.Get(ctx)
	require.NoError(t, err)
	assert.NotNil(t, w.Items)
}

func TestClear(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	_, err := m.Add(ctx, 1, entry("Ring"))
	require.NoError(t, err)

	w, err := m.Clear(ctx)
	require.NoError(t, err)
	assert.Empty(t, w.Items)

	_, ok, _ := store.Get(ctx, Key)
	assert.False(t, ok)
}
