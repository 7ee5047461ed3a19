package services

import (
	"context"
	"math"
	"strings"
	"sync"

	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/storage"

	"github.com/shopspring/decimal"
)

// AddItemInput describes a product being put into the cart.
type AddItemInput struct {
	ProductID   uint64
	ProductName string
	UnitPrice   decimal.Decimal
	StoreID     uint64
	Quantity    int
}

// CartService is the cart store. Every mutation is written through to the
// repository before it returns.
type CartService struct {
	repo repositories.CartRepository

	mu     sync.Mutex
	lines  []models.CartLine
	loaded bool
}

// NewCartService creates a new CartService.
func NewCartService(repo repositories.CartRepository) *CartService {
	return &CartService{repo: repo}
}

func (s *CartService) ensureLoaded(ctx context.Context) {
	if !s.loaded {
		s.lines = s.repo.Load(ctx)
		s.loaded = true
	}
}

func (s *CartService) indexOf(productID uint64) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *CartService) persist(ctx context.Context, op string) models.Cart {
	metrics.CartMutationsTotal.WithLabelValues(op).Inc()
	storage.Swallow("cart.save", s.repo.Save(ctx, s.lines))
	return models.NewCart(s.snapshot())
}

func (s *CartService) snapshot() []models.CartLine {
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Cart returns the current lines with freshly computed totals.
func (s *CartService) Cart(ctx context.Context) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return models.NewCart(s.snapshot())
}

// AddItem merges in.Quantity into the line for in.ProductID, creating it if needed.
func (s *CartService) AddItem(ctx context.Context, in AddItemInput) (models.Cart, error) {
	if in.ProductID == 0 {
		return models.Cart{}, invalid("productId", "Product is required.")
	}
	if in.Quantity < 1 {
		return models.Cart{}, invalid("quantity", "Quantity must be at least 1.")
	}
	if in.UnitPrice.IsNegative() || !in.UnitPrice.IsInteger() {
		return models.Cart{}, invalid("price", "Price must be a non-negative whole amount.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	if i := s.indexOf(in.ProductID); i >= 0 {
		if s.lines[i].Quantity > math.MaxInt-in.Quantity {
			return models.Cart{}, invalid("quantity", "Quantity is too large.")
		}
		s.lines[i].Quantity += in.Quantity
	} else {
		s.lines = append(s.lines, models.CartLine{
			ProductID:   in.ProductID,
			ProductName: strings.TrimSpace(in.ProductName),
			UnitPrice:   in.UnitPrice,
			StoreID:     in.StoreID,
			Quantity:    in.Quantity,
		})
	}
	return s.persist(ctx, "add"), nil
}

// RemoveItem deletes the line for productID. Missing lines are ignored.
func (s *CartService) RemoveItem(ctx context.Context, productID uint64) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	if i := s.indexOf(productID); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
	return s.persist(ctx, "remove")
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, productID uint64, quantity int) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	if i := s.indexOf(productID); i >= 0 {
		if quantity <= 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		} else {
			s.lines[i].Quantity = quantity
		}
	}
	return s.persist(ctx, "update")
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.lines = nil
	s.persist(ctx, "clear")
}
