// Package wishlist keeps the set of products a client has saved for later.
package wishlist

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/01moynul/storefront/internal/apperr"
	"github.com/01moynul/storefront/internal/models"
	"github.com/01moynul/storefront/internal/session"
)

const (
	// Key names the wishlist document in the session store.
	Key = "neon_wishlist"
	TTL = 30 * 24 * time.Hour
)

// Entry is the product data saved with a new wishlist item.
type Entry struct {
	ProductName string
	Price       decimal.Decimal
	Thumbnail   string
	Images      []models.WishlistImage
}

type Manager struct {
	store session.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewManager(store session.Store, log zerolog.Logger) *Manager {
	return &Manager{store: store, log: log, now: time.Now}
}

func Empty() models.Wishlist {
	return models.Wishlist{Items: []models.WishlistItem{}}
}

// Get returns the saved items. A missing or malformed document reads as empty.
func (m *Manager) Get(ctx context.Context) (models.Wishlist, error) {
	const op = "wishlist.Get"

	raw, ok, err := m.store.Get(ctx, Key)
	if err != nil {
		return Empty(), apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	if !ok {
		return Empty(), nil
	}

	var w models.Wishlist
	if err := json.Unmarshal(raw, &w); err != nil {
		m.log.Warn().Err(err).Str("op", op).Msg("Discarding malformed wishlist document")
		return Empty(), nil
	}
	if w.Items == nil {
		w.Items = []models.WishlistItem{}
	}
	return w, nil
}

// Add saves productID once. Adding a product that is already saved changes
// nothing and writes nothing.
func (m *Manager) Add(ctx context.Context, productID int64, e Entry) (models.Wishlist, error) {
	const op = "wishlist.Add"

	w, err := m.Get(ctx)
	if err != nil {
		return models.Wishlist{}, err
	}
	if indexOf(w.Items, productID) >= 0 {
		return w, nil
	}

	w.Items = append(w.Items, models.WishlistItem{
		ProductID:   productID,
		ProductName: e.ProductName,
		Price:       e.Price,
		Thumbnail:   e.Thumbnail,
		AddedAt:     m.now().UTC(),
		Images:      e.Images,
	})
	return m.save(ctx, op, w)
}

// Remove drops productID if present.
func (m *Manager) Remove(ctx context.Context, productID int64) (models.Wishlist, error) {
	const op = "wishlist.Remove"

	w, err := m.Get(ctx)
	if err != nil {
		return models.Wishlist{}, err
	}
	if i := indexOf(w.Items, productID); i >= 0 {
		w.Items = append(w.Items[:i], w.Items[i+1:]...)
	}
	return m.save(ctx, op, w)
}

// Contains reports whether productID is saved.
func (m *Manager) Contains(ctx context.Context, productID int64) (bool, error) {
	w, err := m.Get(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(w.Items, productID) >= 0, nil
}

// Clear deletes the wishlist document.
func (m *Manager) Clear(ctx context.Context) (models.Wishlist, error) {
	if err := m.store.Delete(ctx, Key); err != nil {
		return models.Wishlist{}, apperr.Wrap(apperr.TransientStoreFailure, "wishlist.Clear", err)
	}
	return Empty(), nil
}

func (m *Manager) save(ctx context.Context, op string, w models.Wishlist) (models.Wishlist, error) {
	raw, err := json.Marshal(w)
	if err != nil {
		return models.Wishlist{}, apperr.Wrap(apperr.Unknown, op, err)
	}
	if err := m.store.Set(ctx, Key, raw, TTL); err != nil {
		return models.Wishlist{}, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	return w, nil
}

func indexOf(items []models.WishlistItem, productID int64) int {
	for i, it := range items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}
