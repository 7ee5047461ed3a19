package repositories

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/models"
	"storefront/internal/storage"
)

// OrderRepository defines the interface for the local order ledger.
type OrderRepository interface {
	GetAll(ctx context.Context) []models.Order
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order models.Order) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	// Orders are never deleted.
}

// KVOrderRepository is a KV implementation of OrderRepository.
type KVOrderRepository struct {
	kv storage.KV
	mu sync.Mutex
}

// NewKVOrderRepository creates a new instance of KVOrderRepository.
func NewKVOrderRepository(kv storage.KV) *KVOrderRepository {
	return &KVOrderRepository{kv: kv}
}

func (r *KVOrderRepository) load(ctx context.Context) []models.Order {
	return storage.Load(ctx, r.kv, KeyOrders, []models.Order{})
}

// GetAll returns all orders in insertion order.
func (r *KVOrderRepository) GetAll(ctx context.Context) []models.Order {
	return r.load(ctx)
}

// GetByID returns an order by its ID.
func (r *KVOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	for _, o := range r.load(ctx) {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
}

// Create appends an order. An existing order is never overwritten: a
// clashing ID fails with ErrDuplicateID.
func (r *KVOrderRepository) Create(ctx context.Context, order models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := r.load(ctx)
	for _, o := range orders {
		if o.ID == order.ID {
			return fmt.Errorf("order with ID %s: %w", order.ID, ErrDuplicateID)
		}
	}
	return storage.Save(ctx, r.kv, KeyOrders, append(orders, order))
}

// UpdateStatus overwrites the status of an existing order and nothing else.
func (r *KVOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := r.load(ctx)
	for i := range orders {
		if orders[i].ID == id {
			orders[i].Status = status
			return storage.Save(ctx, r.kv, KeyOrders, orders)
		}
	}
	return fmt.Errorf("order with ID %s not found for status update: %w", id, ErrNotFound)
}
