package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront/internal/checkout"
	"github.com/01moynul/storefront/internal/middleware"
)

// PlaceOrder handles POST /checkout. Guests may check out; a signed-in
// customer's id is recorded on the confirmation.
func (h *Handlers) PlaceOrder(c *gin.Context) {
	var input checkout.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var customerID *int64
	if id, ok := middleware.CustomerID(c); ok {
		customerID = &id
	}

	confirmation, err := h.Checkout.Place(c.Request.Context(), h.carts(c), input, customerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, confirmation)
}
