package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long a customer session token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken covers every way a presented token can fail: bad signature,
// expired, malformed, or the wrong subject shape.
var ErrInvalidToken = errors.New("invalid token")

// TokenMaker signs and verifies customer session tokens (HS256).
type TokenMaker struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenMaker(secret string) (*TokenMaker, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &TokenMaker{secret: []byte(secret), ttl: TokenTTL, now: time.Now}, nil
}

// GenerateToken creates a token whose subject is the customer id.
func (m *TokenMaker) GenerateToken(customerID int64) (string, time.Time, error) {
	// 1. Claims: "sub" is the customer, "exp" one week out.
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(customerID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	// 2. Sign with HS256.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ValidateToken parses a token and returns the customer id (subject).
func (m *TokenMaker) ValidateToken(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Only accept HMAC; anything else was not issued by us.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	customerID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || customerID <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	return customerID, nil
}
