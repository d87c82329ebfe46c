package accounts

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/01moynul/storefront/internal/apperr"
	"github.com/01moynul/storefront/internal/auth"
	"github.com/01moynul/storefront/internal/models"
)

// SignUpInput is what a new customer submits.
type SignUpInput struct {
	FirstName string  `json:"first_name" binding:"required,max=100"`
	LastName  string  `json:"last_name" binding:"required,max=100"`
	Email     string  `json:"email" binding:"required,email,max=320"`
	Password  string  `json:"password" binding:"required,min=8,max=72"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
}

// SignInInput is an email/password pair.
type SignInInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Session is an issued customer token.
type Session struct {
	Customer  *models.Customer
	Token     string
	ExpiresAt time.Time
}

// Service implements the customer auth flows on top of Store.
type Service struct {
	store  *Store
	tokens *auth.TokenMaker
	log    zerolog.Logger
}

func NewService(store *Store, tokens *auth.TokenMaker, log zerolog.Logger) *Service {
	return &Service{store: store, tokens: tokens, log: log.With().Str("component", "accounts").Logger()}
}

// NormalizeEmail lowercases and trims an email so lookups are exact.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a customer and signs them in.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	const op = "accounts.SignUp"

	// 1. --- Reject duplicate email ---
	email := NormalizeEmail(in.Email)
	if _, err := s.store.ByEmail(ctx, email); err == nil {
		return nil, apperr.New(apperr.ValidationFailed, op, "An account with this email already exists")
	} else if apperr.KindOf(err) != apperr.NotFound {
		return nil, err
	}

	// 2. --- Hash the Password ---
	var password models.Password
	if err := password.Set(in.Password); err != nil {
		return nil, apperr.Wrap(apperr.Unknown, op, err)
	}

	// 3. --- Save ---
	c := &models.Customer{
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		Email:            email,
		PasswordHash:     password.Hash,
		Phone:            in.Phone,
		Active:           true,
		RegistrationDate: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info().Int64("customer_id", c.ID).Msg("Customer signed up")

	return s.issue(op, c)
}

// SignIn checks credentials. Unknown email, wrong password and inactive
// accounts all fail the same way.
func (s *Service) SignIn(ctx context.Context, in SignInInput) (*Session, error) {
	const op = "accounts.SignIn"
	invalid := apperr.New(apperr.Unauthorized, op, "Invalid email or password")

	c, err := s.store.ByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			return nil, invalid
		}
		return nil, err
	}
	if !c.Active {
		return nil, invalid
	}

	password := models.Password{Hash: c.PasswordHash}
	ok, err := password.Matches(in.Password)
	if err != nil {
		s.log.Warn().Err(err).Int64("customer_id", c.ID).Msg("Stored password hash is unusable")
		return nil, invalid
	}
	if !ok {
		return nil, invalid
	}

	return s.issue(op, c)
}

// Me returns the active customer behind a validated token subject.
func (s *Service) Me(ctx context.Context, customerID int64) (*models.Customer, error) {
	c, err := s.store.ByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, apperr.New(apperr.Unauthorized, "accounts.Me", "Account is inactive")
	}
	return c, nil
}

func (s *Service) issue(op string, c *models.Customer) (*Session, error) {
	token, expiresAt, err := s.tokens.GenerateToken(c.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unknown, op, err)
	}
	return &Session{Customer: c, Token: token, ExpiresAt: expiresAt}, nil
}
