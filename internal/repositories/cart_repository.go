package repositories

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/storage"
)

// CartRepository defines the interface for the persisted cart lines.
type CartRepository interface {
	Load(ctx context.Context) []models.CartLine
	Save(ctx context.Context, lines []models.CartLine) error
}

// KVCartRepository is a KV implementation of CartRepository.
type KVCartRepository struct {
	kv storage.KV
}

// NewKVCartRepository creates a new instance of KVCartRepository.
func NewKVCartRepository(kv storage.KV) *KVCartRepository {
	return &KVCartRepository{kv: kv}
}

// Load returns the persisted lines. Lines violating quantity >= 1 are dropped.
func (r *KVCartRepository) Load(ctx context.Context) []models.CartLine {
	lines := storage.Load(ctx, r.kv, KeyCart, []models.CartLine{})
	out := lines[:0]
	for _, l := range lines {
		if l.Quantity >= 1 {
			out = append(out, l)
		}
	}
	return out
}

// Save replaces the persisted lines.
func (r *KVCartRepository) Save(ctx context.Context, lines []models.CartLine) error {
	if lines == nil {
		lines = []models.CartLine{}
	}
	return storage.Save(ctx, r.kv, KeyCart, lines)
}
