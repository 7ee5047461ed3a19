package models

import "github.com/shopspring/decimal"

// Store represents a shop listed in the catalog.
type Store struct {
	ID          uint64 `json:"id,string"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Category    string `json:"category" validate:"required,max=60"`
	ImageURL    string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// Product represents an item sold by a store. Price is in the smallest currency unit.
type Product struct {
	ID          uint64          `json:"id,string"`
	StoreID     uint64          `json:"storeId,string" validate:"required"`
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=1000"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl,omitempty" validate:"omitempty,url"`
	OutOfStock  bool            `json:"outOfStock"`
}

// Review is a customer review served by the remote catalog.
type Review struct {
	ProductID uint64 `json:"productId,string"`
	Comment   string `json:"comment"`
	Rating    int    `json:"rating"`
	Reviewer  string `json:"reviewer"`
}

// Origin tells which side of the ID partition owns an entity.
type Origin int

const (
	OriginRemote Origin = iota
	OriginLocal
)

// CatalogID is an internal tagged identifier. Externally IDs stay plain integers.
type CatalogID struct {
	Origin Origin
	Value  uint64
}

// IsLocal reports whether the entity lives in the local overlay.
func (id CatalogID) IsLocal() bool { return id.Origin == OriginLocal }

// IDSpace partitions an integer ID space at Floor: everything below is remote,
// everything at or above is owned by the local overlay.
type IDSpace struct {
	Floor uint64
}

// Classify tags a raw ID with its origin.
func (s IDSpace) Classify(id uint64) CatalogID {
	if id >= s.Floor {
		return CatalogID{Origin: OriginLocal, Value: id}
	}
	return CatalogID{Origin: OriginRemote, Value: id}
}

// Next returns max(existing)+1, or Floor when nothing local exists yet.
// IDs below the floor are ignored.
func (s IDSpace) Next(existing []uint64) uint64 {
	next := s.Floor
	for _, id := range existing {
		if id >= next {
			next = id + 1
		}
	}
	return next
}
