package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(log zerolog.Logger, tokens *auth.TokenMaker) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(log), CORS("http://shop.test"), CustomerAuth(tokens))
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := CustomerID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
	})
	r.GET("/private", RequireCustomer(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	return r
}

func TestRequestIDAndLogging(t *testing.T) {
	var buf bytes.Buffer
	tokens, _ := auth.NewTokenMaker("secret")
	r := newRouter(zerolog.New(&buf), tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "http://shop.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, buf.String(), `"request_id":"abc-123"`)
	assert.Contains(t, buf.String(), `"status":200`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36, "a uuid is minted")
}

func TestPanicBecomes500(t *testing.T) {
	var buf bytes.Buffer
	tokens, _ := auth.NewTokenMaker("secret")
	r := newRouter(zerolog.New(&buf), tokens)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "kaboom")
}

func TestPreflight(t *testing.T) {
	tokens, _ := auth.NewTokenMaker("secret")
	r := newRouter(zerolog.Nop(), tokens)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/whoami", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCustomerAuth(t *testing.T) {
	tokens, err := auth.NewTokenMaker("secret")
	require.NoError(t, err)
	token, _, err := tokens.GenerateToken(9)
	require.NoError(t, err)
	r := newRouter(zerolog.Nop(), tokens)

	// Anonymous
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Bearer header
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Cookie
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"id":9,"ok":true}`, w.Body.String())

	// Garbage token is anonymous, not an error
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer nope")
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"id":0,"ok":false}`, w.Body.String())
}
