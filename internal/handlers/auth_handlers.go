package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront/internal/accounts"
	"github.com/01moynul/storefront/internal/middleware"
	"github.com/01moynul/storefront/internal/models"
	"github.com/01moynul/storefront/internal/session"
)

// AuthResponse is returned by signup and signin.
type AuthResponse struct {
	Customer  *models.Customer `json:"customer"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// SignUp handles POST /auth/signup.
func (h *Handlers) SignUp(c *gin.Context) {
	var input accounts.SignUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	session, err := h.Accounts.SignUp(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.setTokenCookie(c, session.Token, session.ExpiresAt)
	c.JSON(http.StatusCreated, AuthResponse{Customer: session.Customer, Token: session.Token, ExpiresAt: session.ExpiresAt})
}

// SignIn handles POST /auth/signin.
func (h *Handlers) SignIn(c *gin.Context) {
	var input accounts.SignInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	session, err := h.Accounts.SignIn(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.setTokenCookie(c, session.Token, session.ExpiresAt)
	c.JSON(http.StatusOK, AuthResponse{Customer: session.Customer, Token: session.Token, ExpiresAt: session.ExpiresAt})
}

// Me handles GET /auth/me. RequireCustomer runs first.
func (h *Handlers) Me(c *gin.Context) {
	id, ok := middleware.CustomerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return
	}
	customer, err := h.Accounts.Me(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// SignOut handles POST /auth/signout by expiring the token cookie.
func (h *Handlers) SignOut(c *gin.Context) {
	c.SetSameSite(sameSiteOrLax(h.Cookies))
	c.SetCookie(middleware.TokenCookie, "", -1, "/", h.Cookies.Domain, h.Cookies.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func (h *Handlers) setTokenCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(sameSiteOrLax(h.Cookies))
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", h.Cookies.Domain, h.Cookies.Secure, true)
}

func sameSiteOrLax(o session.CookieOptions) http.SameSite {
	if o.SameSite == 0 {
		return http.SameSiteLaxMode
	}
	return o.SameSite
}
