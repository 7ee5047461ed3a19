package repositories

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/models"
	"storefront/internal/storage"
)

// StoreRepository defines the interface for locally created stores.
type StoreRepository interface {
	GetAll(ctx context.Context) []models.Store
	GetByID(ctx context.Context, id uint64) (*models.Store, error)
	Create(ctx context.Context, store *models.Store) error
	Update(ctx context.Context, store models.Store) error
	Delete(ctx context.Context, id uint64) error
}

// KVStoreRepository is a KV implementation of StoreRepository. New stores
// get IDs from the overlay side of ids.
type KVStoreRepository struct {
	kv  storage.KV
	ids models.IDSpace
	mu  sync.Mutex
}

// NewKVStoreRepository creates a new instance of KVStoreRepository.
func NewKVStoreRepository(kv storage.KV, ids models.IDSpace) *KVStoreRepository {
	return &KVStoreRepository{kv: kv, ids: ids}
}

func (r *KVStoreRepository) load(ctx context.Context) []models.Store {
	return storage.Load(ctx, r.kv, KeyLocalStores, []models.Store{})
}

// GetAll returns all overlay stores in creation order.
func (r *KVStoreRepository) GetAll(ctx context.Context) []models.Store {
	return r.load(ctx)
}

// GetByID returns an overlay store by its ID.
func (r *KVStoreRepository) GetByID(ctx context.Context, id uint64) (*models.Store, error) {
	for _, s := range r.load(ctx) {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("store with ID %d: %w", id, ErrNotFound)
}

// Create assigns the next overlay ID to store and appends it.
func (r *KVStoreRepository) Create(ctx context.Context, store *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stores := r.load(ctx)
	ids := make([]uint64, 0, len(stores))
	for _, s := range stores {
		ids = append(ids, s.ID)
	}
	store.ID = r.ids.Next(ids)
	return storage.Save(ctx, r.kv, KeyLocalStores, append(stores, *store))
}

// Update replaces every field of the store with the same ID.
func (r *KVStoreRepository) Update(ctx context.Context, store models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stores := r.load(ctx)
	for i := range stores {
		if stores[i].ID == store.ID {
			stores[i] = store
			return storage.Save(ctx, r.kv, KeyLocalStores, stores)
		}
	}
	return fmt.Errorf("store with ID %d not found for update: %w", store.ID, ErrNotFound)
}

// Delete removes a store by its ID. Its products are left untouched.
func (r *KVStoreRepository) Delete(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stores := r.load(ctx)
	kept := make([]models.Store, 0, len(stores))
	for _, s := range stores {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(stores) {
		return fmt.Errorf("store with ID %d not found for deletion: %w", id, ErrNotFound)
	}
	return storage.Save(ctx, r.kv, KeyLocalStores, kept)
}
