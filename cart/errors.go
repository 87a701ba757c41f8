package cart

import "errors"

// Business rule violations are returned before any mutation is applied.
// ErrNotPersisted is different in kind: it means the mutation was valid
// but the updated collection could not be written back to the store.
var (
	ErrInvalidQuantity    = errors.New("cart: quantity must be greater than zero")
	ErrInvalidPrice       = errors.New("cart: unit price must not be negative")
	ErrRowNotFound        = errors.New("cart: row not found")
	ErrInvalidAssociation = errors.New("cart: unknown associated model")
	ErrNotPersisted       = errors.New("cart: failed to persist collection")
)
