package repositories

import "errors"

// Persisted record keys, one per logical collection.
const (
	KeyKnownUsers    = "known_users"
	KeySession       = "auth_user"
	KeyCart          = "cart"
	KeyLocalStores   = "local_stores"
	KeyLocalProducts = "local_products"
	KeyOrders        = "orders"
)

var (
	// ErrNotFound is returned when a record with the requested id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when a record with the same id already exists.
	ErrDuplicateID = errors.New("record id already exists")
)
