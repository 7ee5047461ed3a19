package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/storage"
	"storefront/internal/telemetry"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PlaceOrderInput is what checkout hands to the ledger.
type PlaceOrderInput struct {
	UserIdentifier string
	Items          []models.OrderItem
	Address        string
}

// Summary aggregates the ledger for the admin dashboard.
type Summary struct {
	OrderCount      int             `json:"orderCount"`
	Revenue         decimal.Decimal `json:"revenue"`
	UniqueCustomers int             `json:"uniqueCustomers"`
}

// Customer is a known user together with their order history.
type Customer struct {
	Identifier  string         `json:"username"`
	DisplayName string         `json:"displayName"`
	Phone       string         `json:"phone,omitempty"`
	OrderCount  int            `json:"orderCount"`
	LastAddress string         `json:"lastAddress,omitempty"`
	Orders      []models.Order `json:"orders"`
}

// OrderService is the order ledger. The local sink is authoritative; the
// mirror sink, when set, is tried first and its failure is only logged.
type OrderService struct {
	orders    repositories.OrderRepository
	local     OrderSink
	mirror    OrderSink
	policy    StatusPolicy
	publisher EventPublisher
}

// NewOrderService creates a new OrderService. mirror and publisher may be nil.
func NewOrderService(orders repositories.OrderRepository, local, mirror OrderSink, policy StatusPolicy, publisher EventPublisher) *OrderService {
	if policy == nil {
		policy = PermissiveTransitions()
	}
	return &OrderService{
		orders:    orders,
		local:     local,
		mirror:    mirror,
		policy:    policy,
		publisher: publisher,
	}
}

func validateOrder(in PlaceOrderInput) error {
	if strings.TrimSpace(in.UserIdentifier) == "" {
		return invalid("username", "A signed-in user is required to place an order.")
	}
	if len(in.Items) == 0 {
		return invalid("items", "An order needs at least one item.")
	}
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return invalid("quantity", fmt.Sprintf("Quantity of product %d must be at least 1.", item.ProductID))
		}
		if item.UnitPrice.IsNegative() || !item.UnitPrice.IsInteger() {
			return invalid("price", fmt.Sprintf("Price of product %d must be a non-negative whole amount.", item.ProductID))
		}
	}
	if strings.TrimSpace(in.Address) == "" {
		return invalid("address", "Delivery address is required.")
	}
	return nil
}

// PlaceOrder records exactly one Pending order. The mirror is tried first so a
// remote-issued id can be kept; when it fails a local id is generated instead
// and the order is still recorded.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if err := validateOrder(in); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	order := &models.Order{
		Status:          models.OrderStatusPending,
		TotalAmount:     decimal.Zero,
		UserIdentifier:  strings.TrimSpace(in.UserIdentifier),
		DeliveryAddress: strings.TrimSpace(in.Address),
		CreatedAt:       time.Now().UTC(),
		Items:           make([]models.OrderItem, len(in.Items)),
	}
	copy(order.Items, in.Items)
	for _, item := range order.Items {
		order.TotalAmount = order.TotalAmount.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if s.mirror != nil {
		if err := s.mirror.Record(ctx, order); err != nil {
			order.ID = ""
			metrics.RemoteMirrorFailuresTotal.Inc()
			logger.Get().Warn("remote order mirror failed, recording locally",
				zap.String("user", order.UserIdentifier), zap.Error(err))
		}
	}
	storage.Swallow("orders.create", s.local.Record(ctx, order))

	span.SetAttributes(attribute.String("order.id", order.ID), attribute.String("order.total", order.TotalAmount.String()))
	metrics.OrdersPlacedTotal.Inc()
	logger.Get().Info("order placed",
		zap.String("order", order.ID),
		zap.String("user", order.UserIdentifier),
		zap.String("total", order.TotalAmount.String()))

	publishEvent(ctx, s.publisher, EventOrderCreated, *order)
	return order, nil
}

// OrdersForUser returns the orders of identifier, compared without case, in ledger order.
func (s *OrderService) OrdersForUser(ctx context.Context, identifier string) []models.Order {
	out := []models.Order{}
	for _, o := range s.orders.GetAll(ctx) {
		if strings.EqualFold(o.UserIdentifier, identifier) {
			out = append(out, o)
		}
	}
	return out
}

// AllOrders returns every recorded order. No access control is applied here.
func (s *OrderService) AllOrders(ctx context.Context) []models.Order {
	return s.orders.GetAll(ctx)
}

// SetStatus overwrites the status of an order. Unknown ids are a no-op.
func (s *OrderService) SetStatus(ctx context.Context, id, status string) error {
	next, err := models.ParseOrderStatus(status)
	if err != nil {
		return invalid("status", fmt.Sprintf("Unknown order status %q.", status))
	}

	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !s.policy.Allowed(order.Status, next) {
		return fmt.Errorf("%w: %s to %s", ErrTransitionNotAllowed, order.Status, next)
	}

	err = s.orders.UpdateStatus(ctx, id, next)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	storage.Swallow("orders.update_status", err)

	order.Status = next
	metrics.OrderStatusUpdatesTotal.WithLabelValues(string(next)).Inc()
	publishEvent(ctx, s.publisher, EventOrderStatusUpdated, *order)
	return nil
}

// Summary totals every recorded order.
func (s *OrderService) Summary(ctx context.Context) Summary {
	sum := Summary{Revenue: decimal.Zero}
	customers := map[string]struct{}{}
	for _, o := range s.orders.GetAll(ctx) {
		sum.OrderCount++
		sum.Revenue = sum.Revenue.Add(o.TotalAmount)
		customers[strings.ToLower(o.UserIdentifier)] = struct{}{}
	}
	sum.UniqueCustomers = len(customers)
	return sum
}

// Customers joins users with their orders. Customers with the most recent
// order come first; those who never ordered come last.
func (s *OrderService) Customers(ctx context.Context, users []models.User) []Customer {
	out := make([]Customer, 0, len(users))
	for _, u := range users {
		orders := SortNewestFirst(s.OrdersForUser(ctx, u.Identifier))
		c := Customer{
			Identifier:  u.Identifier,
			DisplayName: u.DisplayName,
			Phone:       u.Phone,
			OrderCount:  len(orders),
			Orders:      orders,
		}
		if len(orders) > 0 {
			c.LastAddress = orders[0].DeliveryAddress
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if len(out[j].Orders) == 0 {
			return len(out[i].Orders) > 0
		}
		if len(out[i].Orders) == 0 {
			return false
		}
		return out[i].Orders[0].CreatedAt.After(out[j].Orders[0].CreatedAt)
	})
	return out
}

// SortNewestFirst orders by CreatedAt descending, in place, and returns orders.
func SortNewestFirst(orders []models.Order) []models.Order {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}
