// Package cart implements the session cart: a JSON document of line items
// rewritten whole on every change.
package cart

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
	// Key names the cart document in the session store (and the cookie).
	Key = "neon_cart"
	TTL = 7 * 24 * time.Hour
)

// Snapshot is the product data copied onto a new cart line.
type Snapshot struct {
	ProductName string
	Price       decimal.Decimal
	Thumbnail   string
}

// Manager reads and mutates one client's cart.
type Manager struct {
	store session.Store
	log   zerolog.Logger
}

func NewManager(store session.Store, log zerolog.Logger) *Manager {
	return &Manager{store: store, log: log}
}

// Empty returns a cart with no items and a zero total.
func Empty() models.Cart {
	return models.Cart{Items: []models.CartItem{}, Total: decimal.Zero}
}

// Get returns the current cart. A missing or unreadable document is an empty
// cart; only a failing store is an error.
func (m *Manager) Get(ctx context.Context) (models.Cart, error) {
	const op = "cart.Get"

	raw, ok, err := m.store.Get(ctx, Key)
	if err != nil {
		return Empty(), apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	if !ok {
		return Empty(), nil
	}

	var c models.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		m.log.Warn().Err(err).Str("op", op).Msg("Discarding malformed cart document")
		return Empty(), nil
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	c.Total = Total(c.Items)
	return c, nil
}

// Add puts quantity more of productID into the cart. stock is the available
// count right now; the combined quantity may not exceed it. A line that
// already exists keeps its original snapshot.
func (m *Manager) Add(ctx context.Context, productID int64, quantity int, snap Snapshot, stock int) (models.Cart, error) {
	const op = "cart.Add"

	if quantity < 1 {
		return models.Cart{}, apperr.New(apperr.ValidationFailed, op, "Quantity must be at least 1")
	}

	c, err := m.Get(ctx)
	if err != nil {
		return models.Cart{}, err
	}

	i := indexOf(c.Items, productID)
	newQuantity := quantity
	if i >= 0 {
		newQuantity += c.Items[i].Quantity
	}
	if newQuantity > stock {
		return models.Cart{}, apperr.Stock(op, productID, newQuantity, stock)
	}

	if i >= 0 {
		c.Items[i].Quantity = newQuantity
	} else {
		c.Items = append(c.Items, models.CartItem{
			ProductID:     productID,
			Quantity:      quantity,
			ProductName:   snap.ProductName,
			Price:         snap.Price,
			StockQuantity: stock,
			Thumbnail:     snap.Thumbnail,
		})
	}

	return m.save(ctx, op, c)
}

// Update sets a line's quantity. Zero or less removes the line; anything
// else is checked against the stock snapshot stored on the line.
func (m *Manager) Update(ctx context.Context, productID int64, quantity int) (models.Cart, error) {
	const op = "cart.Update"

	c, err := m.Get(ctx)
	if err != nil {
		return models.Cart{}, err
	}

	i := indexOf(c.Items, productID)
	if i < 0 {
		return models.Cart{}, apperr.New(apperr.NotFound, op, "Item not found in cart")
	}

	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return m.save(ctx, op, c)
	}

	if quantity > c.Items[i].StockQuantity {
		return models.Cart{}, apperr.Stock(op, productID, quantity, c.Items[i].StockQuantity)
	}
	c.Items[i].Quantity = quantity
	return m.save(ctx, op, c)
}

// Remove drops a line. Removing an absent product still rewrites the cart.
func (m *Manager) Remove(ctx context.Context, productID int64) (models.Cart, error) {
	const op = "cart.Remove"

	c, err := m.Get(ctx)
	if err != nil {
		return models.Cart{}, err
	}
	if i := indexOf(c.Items, productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	return m.save(ctx, op, c)
}

// Clear deletes the cart document.
func (m *Manager) Clear(ctx context.Context) (models.Cart, error) {
	if err := m.store.Delete(ctx, Key); err != nil {
		return models.Cart{}, apperr.Wrap(apperr.TransientStoreFailure, "cart.Clear", err)
	}
	return Empty(), nil
}

// Count is the number of units across all lines.
func Count(c models.Cart) int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Total is the exact sum of price*quantity over items.
func Total(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (m *Manager) save(ctx context.Context, op string, c models.Cart) (models.Cart, error) {
	c.Total = Total(c.Items)

	raw, err := json.Marshal(c)
	if err != nil {
		return models.Cart{}, apperr.Wrap(apperr.Unknown, op, err)
	}
	if err := m.store.Set(ctx, Key, raw, TTL); err != nil {
		return models.Cart{}, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	return c, nil
}

func indexOf(items []models.CartItem, productID int64) int {
	for i, it := range items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}
