package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates the platform rejected the bearer credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrOutOfStock indicates the platform rejected a mutation for inventory
	// reasons.
	ErrOutOfStock = errors.New("out of stock")
	// ErrInvalidQuantity indicates a caller-supplied quantity below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInvalidOption indicates a malformed option entry (value without a name).
	ErrInvalidOption = errors.New("option name required")
	// ErrEmptyCart indicates checkout was attempted on a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNoRedirectTarget indicates the platform returned neither a checkout
	// URL nor a checkout id.
	ErrNoRedirectTarget = errors.New("checkout session has no redirect target")
)

// AuthError reports a rejected credential exchange. Callers must not retry
// the same refresh token; a brand-new anonymous session is required.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// PlatformError carries a non-2xx platform response that is not one of the
// recognized sentinel cases. Retrying is left to the caller.
type PlatformError struct {
	Op     string
	Status int
	Code   string
	Body   string
}

func (e *PlatformError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("platform: %s: status %d (%s)", e.Op, e.Status, e.Code)
	}
	return fmt.Sprintf("platform: %s: status %d", e.Op, e.Status)
}
