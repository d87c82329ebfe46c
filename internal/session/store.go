// Package session persists small per-client documents (cart, wishlist).
//
// A Store is scoped to one client. Providers hand out a Store for the current
// request, either backed by the request's cookies or by a server-side
// key-value backend addressed through a session id cookie. Writes are
// last-write-wins; nothing here locks.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is a key-value store scoped to a single client session.
type Store interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the value; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Provider returns the Store for the client behind a request.
type Provider interface {
	Store(c *gin.Context) Store
}

const (
	// SessionIDCookie carries the server-side session id.
	SessionIDCookie = "sid"
	// SessionIDTTL is how long an idle session id cookie lives.
	SessionIDTTL = 30 * 24 * time.Hour
	// KeyPrefix namespaces server-side session keys.
	KeyPrefix = "storefront:session:"

	ctxSessionID   = "session.id"
	ctxCookieStore = "session.cookieStore"
)

// CookieOptions are applied to every cookie the package writes.
type CookieOptions struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func (o CookieOptions) sameSite() http.SameSite {
	if o.SameSite == 0 {
		return http.SameSiteLaxMode
	}
	return o.SameSite
}

// CookieProvider stores each key directly in its own cookie.
type CookieProvider struct {
	Options CookieOptions
	Log     zerolog.Logger
}

// Store returns the request's CookieStore, creating it on first use so that
// every caller in the same request shares pending writes.
func (p CookieProvider) Store(c *gin.Context) Store {
	if v, ok := c.Get(ctxCookieStore); ok {
		if s, ok := v.(*CookieStore); ok {
			return s
		}
	}
	s := NewCookieStore(c, p.Options).WithLogger(p.Log)
	c.Set(ctxCookieStore, s)
	return s
}

// ServerProvider keeps documents in Backend under a per-client session id.
type ServerProvider struct {
	Backend Store
	Options CookieOptions
}

func (p ServerProvider) Store(c *gin.Context) Store {
	sid := SessionID(c, p.Options)
	return WithPrefix(p.Backend, KeyPrefix+sid+":")
}

// SessionID returns the client's session id, issuing a new one (and its
// cookie) when the request carries none or a malformed one.
func SessionID(c *gin.Context, opts CookieOptions) string {
	if v, ok := c.Get(ctxSessionID); ok {
		if sid, ok := v.(string); ok {
			return sid
		}
	}

	if raw, err := c.Cookie(SessionIDCookie); err == nil {
		if id, err := uuid.Parse(raw); err == nil {
			sid := id.String()
			c.Set(ctxSessionID, sid)
			return sid
		}
	}

	sid := uuid.NewString()
	c.SetSameSite(opts.sameSite())
	c.SetCookie(SessionIDCookie, sid, int(SessionIDTTL.Seconds()), "/", opts.Domain, opts.Secure, true)
	c.Set(ctxSessionID, sid)
	return sid
}

// prefixed maps keys into a namespace on a shared backend.
type prefixed struct {
	backend Store
	prefix  string
}

// WithPrefix scopes backend to keys starting with prefix.
func WithPrefix(backend Store, prefix string) Store {
	return &prefixed{backend: backend, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.backend.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return p.backend.Set(ctx, p.prefix+key, value, ttl)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.backend.Delete(ctx, p.prefix+key)
}
