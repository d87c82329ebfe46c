// Package apperr defines the small closed set of error kinds the storefront
// surfaces to callers. Everything that crosses a package boundary is either
// one of these or wraps one.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to branch on it.
type Kind int

const (
	// Unknown is the zero value; KindOf returns it for foreign errors.
	Unknown Kind = iota
	NotFound
	StockExceeded
	TransientStoreFailure
	ValidationFailed
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case StockExceeded:
		return "stock_exceeded"
	case TransientStoreFailure:
		return "transient_store_failure"
	case ValidationFailed:
		return "validation_failed"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error carries the failing operation, its kind and an optional cause.
type Error struct {
	Op      string // e.g. "catalog.GetProduct"
	Kind    Kind
	Message string // user-facing text
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Message != "":
		return e.Message
	case e.Err != nil && e.Op != "":
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on kind alone: errors.Is(err, &Error{Kind: NotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// New builds an Error with a user-facing message.
func New(kind Kind, op, message string) *Error {
	return &Error{Op: op, Kind: kind, Message: message}
}

// Wrap attaches a kind and operation to an underlying error.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf reports the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Message returns the user-facing text for err, falling back to err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	var se *StockError
	if errors.As(err, &se) {
		return se.Error()
	}
	return err.Error()
}

// StockError is the cause attached to StockExceeded errors so callers can
// show how many units are actually available.
type StockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Only %d items available in stock", e.Available)
}

// Stock returns a StockExceeded error wrapping a StockError.
func Stock(op string, productID int64, requested, available int) *Error {
	return Wrap(StockExceeded, op, &StockError{
		ProductID: productID,
		Requested: requested,
		Available: available,
	})
}
