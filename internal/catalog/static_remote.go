package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StaticRemote is an in-process Remote serving a fixed catalog. Orders placed
// against it are kept in memory. SetFailure makes every call fail, which is
// how an unreachable remote is simulated.
type StaticRemote struct {
	stores   []models.Store
	products []models.Product
	reviews  []models.Review

	mu      sync.RWMutex
	orders  []models.Order
	failure error
}

// NewStaticRemote creates a StaticRemote over the given data.
func NewStaticRemote(stores []models.Store, products []models.Product, reviews []models.Review) *StaticRemote {
	return &StaticRemote{stores: stores, products: products, reviews: reviews}
}

// NewSeededRemote creates a StaticRemote with the built-in sample catalog.
func NewSeededRemote() *StaticRemote {
	return NewStaticRemote(SeedStores(), SeedProducts(), SeedReviews())
}

// SetFailure makes every subsequent call return err. A nil err restores service.
func (s *StaticRemote) SetFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = err
}

func (s *StaticRemote) fail() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failure != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, s.failure)
	}
	return nil
}

func (s *StaticRemote) ListStores(_ context.Context) ([]models.Store, error) {
	if err := s.fail(); err != nil {
		return nil, err
	}
	out := make([]models.Store, len(s.stores))
	copy(out, s.stores)
	return out, nil
}

func (s *StaticRemote) ListProductsByStore(_ context.Context, storeID uint64) ([]models.Product, error) {
	if err := s.fail(); err != nil {
		return nil, err
	}
	out := []models.Product{}
	for _, p := range s.products {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *StaticRemote) GetProduct(_ context.Context, id uint64) (*models.Product, error) {
	if err := s.fail(); err != nil {
		return nil, err
	}
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (s *StaticRemote) ListReviews(_ context.Context, productID uint64) ([]models.Review, error) {
	if err := s.fail(); err != nil {
		return nil, err
	}
	out := []models.Review{}
	for _, r := range s.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

// PlaceOrder records the order and returns a remote-format id such as
// "R-3F9A12C0". Ids are random so a restarted remote never reissues one.
func (s *StaticRemote) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (string, error) {
	if err := s.fail(); err != nil {
		return "", err
	}
	if len(req.ProductIDs) == 0 || len(req.ProductIDs) != len(req.Quantities) {
		return "", fmt.Errorf("PlaceOrder: %w: product ids and quantities mismatch", ErrRejected)
	}

	order := models.Order{
		Status:          models.OrderStatusPending,
		TotalAmount:     decimal.Zero,
		UserIdentifier:  req.UserIdentifier,
		DeliveryAddress: req.Address,
		CreatedAt:       time.Now().UTC(),
	}
	for i, id := range req.ProductIDs {
		p, _ := s.GetProduct(ctx, id)
		item := models.OrderItem{ProductID: id, Quantity: req.Quantities[i], UnitPrice: decimal.Zero}
		if p != nil {
			item.ProductName = p.Name
			item.UnitPrice = p.Price
		}
		order.Items = append(order.Items, item)
		order.TotalAmount = order.TotalAmount.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = "R-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	s.orders = append(s.orders, order)
	return order.ID, nil
}

func (s *StaticRemote) ListOrdersByUser(_ context.Context, identifier string) ([]models.Order, error) {
	if err := s.fail(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Order{}
	for _, o := range s.orders {
		if strings.EqualFold(o.UserIdentifier, identifier) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *StaticRemote) ListAllOrders(_ context.Context) ([]models.Order, error) {
	if err := s.fail(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out, nil
}
