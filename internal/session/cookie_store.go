package session

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MaxCookieBytes is roughly the per-cookie limit browsers enforce. Larger
// cookies are dropped by the client without any error reaching the server.
const MaxCookieBytes = 4000

// CookieStore keeps one cookie per key on the current request/response pair.
// Values are URL-escaped by gin, so raw JSON survives the cookie grammar.
//
// A write is only visible to the client on its next request; pending holds
// it so later reads in this request see it too.
type CookieStore struct {
	c       *gin.Context
	opts    CookieOptions
	log     zerolog.Logger
	pending map[string]pendingCookie
}

type pendingCookie struct {
	value   []byte
	deleted bool
}

func NewCookieStore(c *gin.Context, opts CookieOptions) *CookieStore {
	return &CookieStore{c: c, opts: opts, log: zerolog.Nop(), pending: make(map[string]pendingCookie)}
}

// WithLogger sets where oversized writes are reported.
func (s *CookieStore) WithLogger(log zerolog.Logger) *CookieStore {
	s.log = log
	return s
}

func (s *CookieStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if p, ok := s.pending[key]; ok {
		if p.deleted {
			return nil, false, nil
		}
		return p.value, true, nil
	}

	val, err := s.c.Cookie(key)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, false, nil
		}
		return nil, false, err
	}
	// gin reports an undecodable value as empty.
	if val == "" {
		return nil, false, nil
	}
	return []byte(val), true, nil
}

func (s *CookieStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	maxAge := 0
	if ttl > 0 {
		maxAge = int(ttl.Seconds())
	}
	if size := len(key) + len(url.QueryEscape(string(value))); size > MaxCookieBytes {
		s.log.Warn().
			Str("cookie", key).
			Int("bytes", size).
			Int("limit", MaxCookieBytes).
			Msg("Session cookie exceeds the browser size limit and will likely be dropped")
	}

	s.c.SetSameSite(s.opts.sameSite())
	s.c.SetCookie(key, string(value), maxAge, "/", s.opts.Domain, s.opts.Secure, true)

	s.pending[key] = pendingCookie{value: append([]byte(nil), value...)}
	return nil
}

func (s *CookieStore) Delete(_ context.Context, key string) error {
	s.c.SetSameSite(s.opts.sameSite())
	s.c.SetCookie(key, "", -1, "/", s.opts.Domain, s.opts.Secure, true)

	s.pending[key] = pendingCookie{deleted: true}
	return nil
}
