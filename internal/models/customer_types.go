package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Customer is a storefront shopper ('customer' table).
type Customer struct {
	ID               int64     `json:"customer_id" db:"customer_id"`
	FirstName        string    `json:"first_name" db:"first_name"`
	LastName         string    `json:"last_name" db:"last_name"`
	Email            string    `json:"email" db:"email"`
	PasswordHash     string    `json:"-" db:"password_hash"`
	Phone            *string   `json:"phone,omitempty" db:"phone"`
	Cellphone        *string   `json:"cellphone,omitempty" db:"cellphone"`
	LegalName        *string   `json:"legal_name,omitempty" db:"legal_name"`
	Active           bool      `json:"active" db:"active"`
	RegistrationDate time.Time `json:"registration_date" db:"registration_date"`
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
