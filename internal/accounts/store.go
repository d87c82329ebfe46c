// Package accounts handles storefront customer sign-up, sign-in and lookup.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/storefront/internal/apperr"
	"github.com/01moynul/storefront/internal/database"
	"github.com/01moynul/storefront/internal/models"
)

// Store reads and writes the 'customer' table.
type Store struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewStore(db *sql.DB, d database.Dialect) *Store {
	return &Store{db: db, dialect: d}
}

const customerColumns = `customer_id, first_name, last_name, email, password_hash,
	phone, cellphone, legal_name, active, registration_date`

// Create inserts c and sets its id.
func (s *Store) Create(ctx context.Context, c *models.Customer) error {
	const op = "accounts.Create"

	d := s.dialect
	query := fmt.Sprintf(`INSERT INTO customer (first_name, last_name, email, password_hash, phone, active)
		VALUES (%s, %s, %s, %s, %s, %s)`,
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3), d.Placeholder(4), d.Placeholder(5), d.Placeholder(6))
	args := []any{c.FirstName, c.LastName, c.Email, c.PasswordHash, c.Phone, boolToInt(c.Active)}

	// Postgres has no LastInsertId; ask for the id back instead.
	if d == database.Postgres {
		if err := s.db.QueryRowContext(ctx, query+" RETURNING customer_id", args...).Scan(&c.ID); err != nil {
			return apperr.Wrap(apperr.TransientStoreFailure, op, err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	c.ID = id
	return nil
}

// ByEmail looks a customer up by (already normalized) email.
func (s *Store) ByEmail(ctx context.Context, email string) (*models.Customer, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customer WHERE email = "+s.dialect.Placeholder(1), email)
	return scanCustomer("accounts.ByEmail", row)
}

// ByID looks a customer up by id.
func (s *Store) ByID(ctx context.Context, id int64) (*models.Customer, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customer WHERE customer_id = "+s.dialect.Placeholder(1), id)
	return scanCustomer("accounts.ByID", row)
}

func scanCustomer(op string, row *sql.Row) (*models.Customer, error) {
	var (
		c                      models.Customer
		phone, cell, legalName sql.NullString
		active                 int
		registered             database.Timestamp
	)
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PasswordHash,
		&phone, &cell, &legalName, &active, &registered)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, op, "Customer not found")
		}
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}

	if phone.Valid {
		c.Phone = &phone.String
	}
	if cell.Valid {
		c.Cellphone = &cell.String
	}
	if legalName.Valid {
		c.LegalName = &legalName.String
	}
	c.Active = active == 1
	c.RegistrationDate = registered.Time
	return &c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
