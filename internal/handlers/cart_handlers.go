package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront/internal/apperr"
	"github.com/01moynul/storefront/internal/cart"
	"github.com/01moynul/storefront/internal/catalog"
	"github.com/01moynul/storefront/internal/models"
)

//
// --- Cart Handlers (session cart, no sign-in needed) ---
//

// CartResponse is the cart plus its item count for the header badge.
type CartResponse struct {
	models.Cart
	Count int `json:"count"`
}

func cartResponse(c models.Cart) CartResponse {
	return CartResponse{Cart: c, Count: cart.Count(c)}
}

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// UpdateCartItemInput sets a line's quantity; 0 removes it.
type UpdateCartItemInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart handles GET /cart.
func (h *Handlers) GetCart(c *gin.Context) {
	current, err := h.carts(c).Get(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(current))
}

// AddToCart handles POST /cart/items. Name, price and stock come from the
// catalog, never from the client.
func (h *Handlers) AddToCart(c *gin.Context) {
	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	ctx := c.Request.Context()

	// 1. --- Look the product up ---
	snap, stock, err := h.cartSnapshot(ctx, input.ProductID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 2. --- Add (stock checked against the combined quantity) ---
	updated, err := h.carts(c).Add(ctx, input.ProductID, input.Quantity, snap, stock)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cartResponse(updated))
}

// UpdateCartItem handles PATCH /cart/items/:product_id.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	productID, ok := paramID(c, "product_id")
	if !ok {
		return
	}
	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	updated, err := h.carts(c).Update(c.Request.Context(), productID, *input.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(updated))
}

// DeleteCartItem handles DELETE /cart/items/:product_id.
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	productID, ok := paramID(c, "product_id")
	if !ok {
		return
	}
	updated, err := h.carts(c).Remove(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(updated))
}

// ClearCart handles DELETE /cart.
func (h *Handlers) ClearCart(c *gin.Context) {
	updated, err := h.carts(c).Clear(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(updated))
}

// cartSnapshot loads an active, priced product and returns what a new cart
// line records about it. A NULL stock counts as none in stock.
func (h *Handlers) cartSnapshot(ctx context.Context, productID int64) (cart.Snapshot, int, error) {
	const op = "handlers.cartSnapshot"

	product, err := h.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return cart.Snapshot{}, 0, err
	}
	if product.Status != models.ProductStatusActive {
		return cart.Snapshot{}, 0, apperr.New(apperr.NotFound, op, "Product not found or not active")
	}

	price, ok := catalog.ParsePrice(product.Price)
	if !ok || !price.IsPositive() {
		return cart.Snapshot{}, 0, apperr.New(apperr.ValidationFailed, op, "This product has no online price; please call for pricing")
	}

	stock := 0
	if product.StockQuantity != nil {
		stock = *product.StockQuantity
	}

	return cart.Snapshot{
		ProductName: product.Name,
		Price:       price,
		Thumbnail:   product.Thumbnail(),
	}, stock, nil
}
