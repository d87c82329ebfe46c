package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/01moynul/storefront/internal/accounts"
	"github.com/01moynul/storefront/internal/apperr"
	"github.com/01moynul/storefront/internal/auth"
	"github.com/01moynul/storefront/internal/cart"
	"github.com/01moynul/storefront/internal/catalog"
	"github.com/01moynul/storefront/internal/checkout"
	"github.com/01moynul/storefront/internal/session"
	"github.com/01moynul/storefront/internal/wishlist"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Catalog  *catalog.Repository
	Sessions session.Provider // Cart and wishlist documents
	Accounts *accounts.Service
	Checkout *checkout.Service
	Tokens   *auth.TokenMaker
	Log      zerolog.Logger

	DefaultPageSize int
	MaxPageSize     int
	Cookies         session.CookieOptions // Applied to the customer token cookie
}

// carts returns the cart manager for the client behind c.
func (h *Handlers) carts(c *gin.Context) *cart.Manager {
	return cart.NewManager(h.Sessions.Store(c), h.Log)
}

func (h *Handlers) wishlists(c *gin.Context) *wishlist.Manager {
	return wishlist.NewManager(h.Sessions.Store(c), h.Log)
}

// respondError maps an apperr kind onto a status code and a JSON error body.
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": apperr.Message(err)})
	case apperr.StockExceeded:
		body := gin.H{"error": apperr.Message(err)}
		var se *apperr.StockError
		if errors.As(err, &se) {
			body["available"] = se.Available
		}
		c.JSON(http.StatusConflict, body)
	case apperr.ValidationFailed:
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.Message(err)})
	case apperr.Unauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperr.Message(err)})
	case apperr.TransientStoreFailure:
		h.Log.Error().Err(err).Str("path", c.FullPath()).Msg("Store unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		h.Log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
	_ = c.Error(err)
}

// paramID reads a positive integer path parameter, answering 400 if it is not one.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
