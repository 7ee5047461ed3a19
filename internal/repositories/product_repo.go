package repositories

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/models"
	"storefront/internal/storage"
)

// ProductRepository defines the interface for locally created products.
type ProductRepository interface {
	GetAll(ctx context.Context) []models.Product
	GetByID(ctx context.Context, id uint64) (*models.Product, error)
	GetByStore(ctx context.Context, storeID uint64) []models.Product
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product models.Product) error
	Delete(ctx context.Context, id uint64) error
	ToggleOutOfStock(ctx context.Context, id uint64) (bool, error)
}

// KVProductRepository is a KV implementation of ProductRepository.
type KVProductRepository struct {
	kv  storage.KV
	ids models.IDSpace
	mu  sync.Mutex
}

// NewKVProductRepository creates a new instance of KVProductRepository.
func NewKVProductRepository(kv storage.KV, ids models.IDSpace) *KVProductRepository {
	return &KVProductRepository{kv: kv, ids: ids}
}

func (r *KVProductRepository) load(ctx context.Context) []models.Product {
	return storage.Load(ctx, r.kv, KeyLocalProducts, []models.Product{})
}

// GetAll returns all overlay products.
func (r *KVProductRepository) GetAll(ctx context.Context) []models.Product {
	return r.load(ctx)
}

// GetByID returns an overlay product by its ID.
func (r *KVProductRepository) GetByID(ctx context.Context, id uint64) (*models.Product, error) {
	for _, p := range r.load(ctx) {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
}

// GetByStore returns the overlay products whose StoreID equals storeID.
func (r *KVProductRepository) GetByStore(ctx context.Context, storeID uint64) []models.Product {
	out := []models.Product{}
	for _, p := range r.load(ctx) {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out
}

// Create assigns the next overlay ID to product and appends it.
func (r *KVProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.load(ctx)
	ids := make([]uint64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	product.ID = r.ids.Next(ids)
	return storage.Save(ctx, r.kv, KeyLocalProducts, append(products, *product))
}

// Update replaces every field of the product with the same ID.
func (r *KVProductRepository) Update(ctx context.Context, product models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.load(ctx)
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			return storage.Save(ctx, r.kv, KeyLocalProducts, products)
		}
	}
	return fmt.Errorf("product with ID %d not found for update: %w", product.ID, ErrNotFound)
}

// Delete removes a product by its ID.
func (r *KVProductRepository) Delete(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.load(ctx)
	kept := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return fmt.Errorf("product with ID %d not found for deletion: %w", id, ErrNotFound)
	}
	return storage.Save(ctx, r.kv, KeyLocalProducts, kept)
}

// ToggleOutOfStock flips the stock flag and returns the new value.
func (r *KVProductRepository) ToggleOutOfStock(ctx context.Context, id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.load(ctx)
	for i := range products {
		if products[i].ID == id {
			products[i].OutOfStock = !products[i].OutOfStock
			return products[i].OutOfStock, storage.Save(ctx, r.kv, KeyLocalProducts, products)
		}
	}
	return false, fmt.Errorf("product with ID %d not found for stock toggle: %w", id, ErrNotFound)
}
