package routes

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/01moynul/storefront/internal/accounts"
	"github.com/01moynul/storefront/internal/auth"
	"github.com/01moynul/storefront/internal/cart"
	"github.com/01moynul/storefront/internal/catalog"
	"github.com/01moynul/storefront/internal/checkout"
	"github.com/01moynul/storefront/internal/database"
	"github.com/01moynul/storefront/internal/dbtest"
	"github.com/01moynul/storefront/internal/handlers"
	"github.com/01moynul/storefront/internal/middleware"
	"github.com/01moynul/storefront/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// client replays cookies the way a browser would.
type client struct {
	t       *testing.T
	router  http.Handler
	cookies map[string]*http.Cookie
	header  http.Header
}

func newClient(t *testing.T, router http.Handler) *client {
	return &client{t: t, router: router, cookies: map[string]*http.Cookie{}, header: http.Header{}}
}

func (cl *client) do(method, path string, body any) *httptest.ResponseRecorder {
	cl.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(cl.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range cl.header {
		req.Header[k] = v
	}
	for _, ck := range cl.cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(cl.cookies, ck.Name)
		} else {
			cl.cookies[ck.Name] = ck
		}
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func seedStore(t *testing.T, db *sql.DB) {
	dbtest.Exec(t, db,
		`INSERT INTO category (category_id, category_name, parent_category_id) VALUES
			(1, 'Jewelry', NULL), (2, 'Rings', 1), (3, 'Loop A', 4), (4, 'Loop B', 3)`,
		`INSERT INTO product (product_id, product_name, price, old_price, stock_quantity, status, created_on) VALUES
			(1, 'Golden Sunrise Ring', 19.99, 25, 5, 1, '2024-01-01 10:01:00'),
			(2, 'Call Me Pendant', NULL, NULL, 3, 1, '2024-01-01 10:02:00'),
			(3, 'Retired Bangle', 9, NULL, 9, 0, '2024-01-01 10:03:00'),
			(4, 'Silver Band', 5, NULL, NULL, 1, '2024-01-01 10:04:00')`,
		`UPDATE product SET matching_product_id1 = 4, matching_product_id2 = 2 WHERE product_id = 1`,
		`INSERT INTO product_category_map (product_id, category_id) VALUES (1, 1), (4, 2)`,
		`INSERT INTO media (media_id, filename, file_path, media_caption) VALUES (1, 'ring.jpg', '/img/ring.jpg', 'Ring')`,
		`INSERT INTO product_media_map (product_id, media_id, sort_order) VALUES (1, 1, 0)`,
		`INSERT INTO product_tag_map (product_id, tag_name) VALUES (1, 'gold'), (1, 'anniversary')`,
		`INSERT INTO master_option (option_id, option_name, display_order) VALUES (1, 'Size', 1)`,
		`INSERT INTO master_option_value (option_value_id, option_id, option_value_name, price_adjustment, display_order) VALUES (1, 1, 'Seven', 0, 1)`,
		`INSERT INTO product_option_map (product_id, option_id) VALUES (1, 1)`,
	)
}

type RouterSuite struct {
	suite.Suite
	db       *sql.DB
	sessions session.Provider
	router   *gin.Engine
}

func (s *RouterSuite) SetupTest() {
	s.db = dbtest.Open(s.T())
	seedStore(s.T(), s.db)

	log := zerolog.Nop()
	tokens, err := auth.NewTokenMaker("test-secret")
	s.Require().NoError(err)

	if s.sessions == nil {
		s.sessions = session.CookieProvider{}
	}
	h := &handlers.Handlers{
		Catalog:         catalog.NewRepository(s.db, database.SQLite, log),
		Sessions:        s.sessions,
		Accounts:        accounts.NewService(accounts.NewStore(s.db, database.SQLite), tokens, log),
		Checkout:        checkout.NewService(log),
		Tokens:          tokens,
		Log:             log,
		DefaultPageSize: 2,
		MaxPageSize:     3,
	}
	s.router = SetupRouter(h, Options{CORSAllowedOrigin: "http://shop.test", Log: log})
}

func TestCookieSessions(t *testing.T) {
	suite.Run(t, &RouterSuite{sessions: session.CookieProvider{}})
}

func TestServerSessions(t *testing.T) {
	suite.Run(t, &RouterSuite{sessions: session.ServerProvider{Backend: session.NewMemoryStore()}})
}

func (s *RouterSuite) TestPing() {
	w := newClient(s.T(), s.router).do(http.MethodGet, "/v1/ping", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("http://shop.test", w.Header().Get("Access-Control-Allow-Origin"))
	s.NotEmpty(w.Header().Get(middleware.RequestIDHeader))
}

func (s *RouterSuite) TestListProducts() {
	cl := newClient(s.T(), s.router)

	// Default page size, newest first.
	w := cl.do(http.MethodGet, "/v1/products", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	body := decode(s.T(), w)
	s.EqualValues(3, body["count"])
	s.EqualValues(2, body["total_pages"])
	s.EqualValues(1, body["page"])
	products := body["products"].([]any)
	s.Require().Len(products, 2)
	s.EqualValues(4, products[0].(map[string]any)["product_id"])

	// Limit is capped.
	w = cl.do(http.MethodGet, "/v1/products?limit=50", nil)
	body = decode(s.T(), w)
	s.EqualValues(3, body["limit"])
	s.Len(body["products"], 3)

	// Page 2.
	w = cl.do(http.MethodGet, "/v1/products?page=2&sort_by=product_name&order=asc", nil)
	body = decode(s.T(), w)
	s.Require().Len(body["products"], 1)
	s.Equal("Silver Band", body["products"].([]any)[0].(map[string]any)["product_name"])

	// Category with and without children.
	w = cl.do(http.MethodGet, "/v1/products?category_id=1", nil)
	s.EqualValues(1, decode(s.T(), w)["count"])
	w = cl.do(http.MethodGet, "/v1/products?category_id=1&include_children=true", nil)
	s.EqualValues(2, decode(s.T(), w)["count"])

	// Search with no hits is an empty page, not an error.
	w = cl.do(http.MethodGet, "/v1/products?search=unmatched-term-xyz", nil)
	s.Equal(http.StatusOK, w.Code)
	body = decode(s.T(), w)
	s.EqualValues(0, body["count"])
	s.Equal([]any{}, body["products"])

	for _, bad := range []string{"?sort_by=drop_table", "?order=sideways", "?page=0", "?limit=-1", "?category_id=abc", "?page=9223372036854775807"} {
		w = cl.do(http.MethodGet, "/v1/products"+bad, nil)
		s.Equal(http.StatusBadRequest, w.Code, bad)
	}
}

func (s *RouterSuite) TestProductDetail() {
	cl := newClient(s.T(), s.router)

	w := cl.do(http.MethodGet, "/v1/products/1", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	body := decode(s.T(), w)
	s.Equal("19.99", body["display_price"])
	s.Equal("25.00", body["display_old_price"])
	s.Len(body["images"], 1)
	s.Equal([]any{"anniversary", "gold"}, body["tags"])

	w = cl.do(http.MethodGet, "/v1/products/2", nil)
	s.Equal(catalog.CallForPricing, decode(s.T(), w)["display_price"])

	w = cl.do(http.MethodGet, "/v1/products/handle/golden-sunrise-ring", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(1, decode(s.T(), w)["product_id"])

	s.Equal(http.StatusNotFound, cl.do(http.MethodGet, "/v1/products/999", nil).Code)
	s.Equal(http.StatusNotFound, cl.do(http.MethodGet, "/v1/products/handle/no-such-thing", nil).Code)
	s.Equal(http.StatusBadRequest, cl.do(http.MethodGet, "/v1/products/abc", nil).Code)

	w = cl.do(http.MethodGet, "/v1/products/1/related", nil)
	related := decode(s.T(), w)["products"].([]any)
	s.Require().Len(related, 2)
	s.EqualValues(4, related[0].(map[string]any)["product_id"])
	s.Equal("0", related[1].(map[string]any)["price"])

	w = cl.do(http.MethodGet, "/v1/products/1/options", nil)
	s.Len(decode(s.T(), w)["options"], 1)

	w = cl.do(http.MethodGet, "/v1/products/4/tags", nil)
	s.Equal([]any{}, decode(s.T(), w)["tags"])
}

func (s *RouterSuite) TestCategories() {
	cl := newClient(s.T(), s.router)

	w := cl.do(http.MethodGet, "/v1/categories", nil)
	s.Len(decode(s.T(), w)["categories"], 4)

	w = cl.do(http.MethodGet, "/v1/categories/2/ancestors", nil)
	crumbs := decode(s.T(), w)["categories"].([]any)
	s.Require().Len(crumbs, 2)
	s.Equal("Jewelry", crumbs[0].(map[string]any)["category_name"])

	// A parent cycle still answers.
	w = cl.do(http.MethodGet, "/v1/categories/3/ancestors", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Len(decode(s.T(), w)["categories"], 2)

	w = cl.do(http.MethodGet, "/v1/categories/1/children", nil)
	s.Len(decode(s.T(), w)["categories"], 1)

	w = cl.do(http.MethodGet, "/v1/categories/tree", nil)
	s.Len(decode(s.T(), w)["categories"], 1)

	s.Equal(http.StatusNotFound, cl.do(http.MethodGet, "/v1/categories/99", nil).Code)
}

func (s *RouterSuite) TestCartFlow() {
	cl := newClient(s.T(), s.router)

	w := cl.do(http.MethodGet, "/v1/cart", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"items":[],"total":"0","count":0}`, w.Body.String())

	// 1. Add within stock.
	w = cl.do(http.MethodPost, "/v1/cart/items", gin.H{"product_id": 1, "quantity": 3})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	body := decode(s.T(), w)
	s.Equal("59.97", body["total"])
	s.EqualValues(3, body["count"])

	// 2. Past stock: 409 with the available count, cart unchanged.
	w = cl.do(http.MethodPost, "/v1/cart/items", gin.H{"product_id": 1, "quantity": 3})
	s.Require().Equal(http.StatusConflict, w.Code)
	body = decode(s.T(), w)
	s.EqualValues(5, body["available"])
	s.Equal("Only 5 items available in stock", body["error"])

	w = cl.do(http.MethodGet, "/v1/cart", nil)
	s.EqualValues(3, decode(s.T(), w)["count"])

	// 3. Unpriced, inactive, unknown and out-of-stock products.
	s.Equal(http.StatusBadRequest, cl.do(http.MethodPost, "/v1/cart/items", gin.H{"product_id": 2, "quantity": 1}).Code)
	s.Equal(http.StatusNotFound, cl.do(http.MethodPost, "/v1/cart/items", gin.H{"product_id": 3, "quantity": 1}).Code)
	s.Equal(http.StatusNotFound, cl.do(http.MethodPost, "/v1/cart/items", gin.H{"product_id": 99, "quantity": 1}).Code)
	s.Equal(http.StatusConflict, cl.do(http.MethodPost, "/v1/cart/items", gin.H{"product_id": 4, "quantity": 1}).Code)
	s.Equal(http.StatusBadRequest, cl.do(http.MethodPost, "/v1/cart/items", gin.H{"product_id": 1, "quantity": 0}).Code)

	// 4. Update and remove.
	w = cl.do(http.MethodPatch, "/v1/cart/items/1", gin.H{"quantity": 1})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("19.99", decode(s.T(), w)["total"])

	s.Equal(http.StatusConflict, cl.do(http.MethodPatch, "/v1/cart/items/1", gin.H{"quantity": 6}).Code)
	s.Equal(http.StatusNotFound, cl.do(http.MethodPatch, "/v1/cart/items/4", gin.H{"quantity": 1}).Code)

	w = cl.do(http.MethodPatch, "/v1/cart/items/1", gin.H{"quantity": 0})
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"items":[],"total":"0","count":0}`, w.Body.String())

	// 5. Remove is idempotent; clear empties.
	s.Equal(http.StatusOK, cl.do(http.MethodDelete, "/v1/cart/items/1", nil).Code)
	cl.do(http.MethodPost, "/v1/cart/items", gin.H{"product_id": 1, "quantity": 1})
	w = cl.do(http.MethodDelete, "/v1/cart", nil)
	s.Equal(http.StatusOK, w.Code)
	w = cl.do(http.MethodGet, "/v1/cart", nil)
	s.EqualValues(0, decode(s.T(), w)["count"])
}

func (s *RouterSuite) TestCartsAreScopedToTheClient() {
	alice := newClient(s.T(), s.router)
	bob := newClient(s.T(), s.router)

	alice.do(http.MethodPost, "/v1/cart/items", gin.H{"product_id": 1, "quantity": 2})
	s.EqualValues(2, decode(s.T(), alice.do(http.MethodGet, "/v1/cart", nil))["count"])
	s.EqualValues(0, decode(s.T(), bob.do(http.MethodGet, "/v1/cart", nil))["count"])
}

func (s *RouterSuite) TestWishlistFlow() {
	cl := newClient(s.T(), s.router)

	w := cl.do(http.MethodPost, "/v1/wishlist/items", gin.H{"product_id": 1})
	s.Require().Equal(http.StatusCreated, w.Code)
	w = cl.do(http.MethodPost, "/v1/wishlist/items", gin.H{"product_id": 1})
	s.EqualValues(1, decode(s.T(), w)["count"])

	// Unpriced products may be saved.
	w = cl.do(http.MethodPost, "/v1/wishlist/items", gin.H{"product_id": 2})
	body := decode(s.T(), w)
	s.Require().EqualValues(2, body["count"])
	items := body["items"].([]any)
	first := items[0].(map[string]any)
	s.Equal("ring.jpg", first["thumbnail"])
	s.Len(first["images"], 1)
	s.Equal("0", items[1].(map[string]any)["price"])

	w = cl.do(http.MethodGet, "/v1/wishlist/items/1", nil)
	s.Equal(true, decode(s.T(), w)["in_wishlist"])

	cl.do(http.MethodDelete, "/v1/wishlist/items/1", nil)
	w = cl.do(http.MethodGet, "/v1/wishlist/items/1", nil)
	s.Equal(false, decode(s.T(), w)["in_wishlist"])

	s.Equal(http.StatusNotFound, cl.do(http.MethodPost, "/v1/wishlist/items", gin.H{"product_id": 3}).Code)

	cl.do(http.MethodDelete, "/v1/wishlist", nil)
	w = cl.do(http.MethodGet, "/v1/wishlist", nil)
	s.EqualValues(0, decode(s.T(), w)["count"])
}

func (s *RouterSuite) TestCheckout() {
	cl := newClient(s.T(), s.router)
	form := gin.H{
		"email": "ana@example.com", "first_name": "Ana", "last_name": "Diaz",
		"address": "1 Main St", "city": "Springfield", "state": "IL", "zip_code": "62701", "phone": "555-0100",
	}

	w := cl.do(http.MethodPost, "/v1/checkout", form)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Your cart is empty", decode(s.T(), w)["error"])

	s.Equal(http.StatusBadRequest, cl.do(http.MethodPost, "/v1/checkout", gin.H{"email": "not-an-email"}).Code)

	cl.do(http.MethodPost, "/v1/cart/items", gin.H{"product_id": 1, "quantity": 2})
	w = cl.do(http.MethodPost, "/v1/checkout", form)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	body := decode(s.T(), w)
	s.Equal("39.98", body["total"])
	s.Len(body["order_reference"], 36)
	s.Nil(body["customer_id"])

	w = cl.do(http.MethodGet, "/v1/cart", nil)
	s.EqualValues(0, decode(s.T(), w)["count"])
}

func (s *RouterSuite) TestAuthFlow() {
	cl := newClient(s.T(), s.router)

	s.Equal(http.StatusUnauthorized, cl.do(http.MethodGet, "/v1/auth/me", nil).Code)

	signup := gin.H{"first_name": "Ana", "last_name": "Diaz", "email": "Ana@Example.com", "password": "correct horse"}
	w := cl.do(http.MethodPost, "/v1/auth/signup", signup)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Contains(cl.cookies, middleware.TokenCookie)

	w = cl.do(http.MethodGet, "/v1/auth/me", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	customer := decode(s.T(), w)["customer"].(map[string]any)
	s.Equal("ana@example.com", customer["email"])
	s.NotContains(customer, "password_hash")

	// Duplicate email.
	s.Equal(http.StatusBadRequest, cl.do(http.MethodPost, "/v1/auth/signup", signup).Code)

	// Signed-in checkout records the customer.
	cl.do(http.MethodPost, "/v1/cart/items", gin.H{"product_id": 1, "quantity": 1})
	w = cl.do(http.MethodPost, "/v1/checkout", gin.H{
		"email": "ana@example.com", "first_name": "Ana", "last_name": "Diaz",
		"address": "1 Main St", "city": "Springfield", "state": "IL", "zip_code": "62701", "phone": "555-0100",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	s.EqualValues(customer["customer_id"], decode(s.T(), w)["customer_id"])

	// Sign out, then back in.
	s.Equal(http.StatusOK, cl.do(http.MethodPost, "/v1/auth/signout", nil).Code)
	s.NotContains(cl.cookies, middleware.TokenCookie)
	s.Equal(http.StatusUnauthorized, cl.do(http.MethodGet, "/v1/auth/me", nil).Code)

	s.Equal(http.StatusUnauthorized,
		cl.do(http.MethodPost, "/v1/auth/signin", gin.H{"email": "ana@example.com", "password": "wrong password"}).Code)

	w = cl.do(http.MethodPost, "/v1/auth/signin", gin.H{"email": "ana@example.com", "password": "correct horse"})
	s.Require().Equal(http.StatusOK, w.Code)
	token := decode(s.T(), w)["token"].(string)

	// Bearer works without the cookie.
	other := newClient(s.T(), s.router)
	other.header.Set("Authorization", "Bearer "+token)
	s.Equal(http.StatusOK, other.do(http.MethodGet, "/v1/auth/me", nil).Code)
}

func TestMalformedCartCookieReadsAsEmpty(t *testing.T) {
	db := dbtest.Open(t)
	seedStore(t, db)
	log := zerolog.Nop()
	tokens, _ := auth.NewTokenMaker("test-secret")
	router := SetupRouter(&handlers.Handlers{
		Catalog:         catalog.NewRepository(db, database.SQLite, log),
		Sessions:        session.CookieProvider{},
		Tokens:          tokens,
		Log:             log,
		DefaultPageSize: 12,
		MaxPageSize:     100,
	}, Options{Log: log})

	cl := newClient(t, router)
	cl.cookies[cart.Key] = &http.Cookie{Name: cart.Key, Value: "%7Bnot-json"}

	w := cl.do(http.MethodGet, "/v1/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":"0","count":0}`, w.Body.String())

	// The next add starts over from an empty cart.
	w = cl.do(http.MethodPost, "/v1/cart/items", gin.H{"product_id": 1, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "19.99", decode(t, w)["total"])
}
