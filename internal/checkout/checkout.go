// Package checkout turns the session cart into an order confirmation.
// Payment capture happens elsewhere; placing an order here only validates the
// contact and shipping details, snapshots the cart and empties it.
package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/01moynul/storefront/internal/apperr"
	"github.com/01moynul/storefront/internal/cart"
	"github.com/01moynul/storefront/internal/models"
)

// Input is the contact and shipping form.
type Input struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zip_code" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

// Confirmation is returned once the order is placed.
type Confirmation struct {
	OrderReference string            `json:"order_reference"`
	Email          string            `json:"email"`
	Items          []models.CartItem `json:"items"`
	Total          decimal.Decimal   `json:"total"`
	PlacedAt       time.Time         `json:"placed_at"`
	CustomerID     *int64            `json:"customer_id,omitempty"`
}

type Service struct {
	log zerolog.Logger
	now func() time.Time
}

func NewService(log zerolog.Logger) *Service {
	return &Service{log: log.With().Str("component", "checkout").Logger(), now: time.Now}
}

// Place confirms the current cart and clears it. customerID is set when the
// shopper is signed in.
func (s *Service) Place(ctx context.Context, carts *cart.Manager, in Input, customerID *int64) (*Confirmation, error) {
	const op = "checkout.Place"

	// 1. --- Load & check the cart ---
	c, err := carts.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, apperr.New(apperr.ValidationFailed, op, "Your cart is empty")
	}

	conf := &Confirmation{
		OrderReference: uuid.NewString(),
		Email:          in.Email,
		Items:          c.Items,
		Total:          c.Total,
		PlacedAt:       s.now().UTC(),
		CustomerID:     customerID,
	}

	// 2. --- Empty the cart ---
	if _, err := carts.Clear(ctx); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("order_reference", conf.OrderReference).
		Int("items", cart.Count(c)).
		Str("total", conf.Total.StringFixed(2)).
		Msg("Order placed")
	return conf, nil
}
