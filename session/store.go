package session

import "github.com/junaidrashid-git/cartledger-api/models"

// Store persists cart collections between operations. A missing or
// wrong-typed value reads back as a nil collection, never as an error.
type Store interface {
	Get(key string) (models.Collection, error)
	Put(key string, col models.Collection) error
	Delete(key string) error
}

// Key derives the store key for a cart name.
func Key(cartName string) string {
	return "cart." + cartName
}
