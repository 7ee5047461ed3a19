package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderSink records a placed order somewhere.
type OrderSink interface {
	Record(ctx context.Context, order *models.Order) error
}

// RemoteOrderSink mirrors orders to the remote catalog. On success the order
// takes the id the remote issued. It may fail for any reason.
type RemoteOrderSink struct {
	remote catalog.Remote
}

// NewRemoteOrderSink creates a new RemoteOrderSink.
func NewRemoteOrderSink(remote catalog.Remote) *RemoteOrderSink {
	return &RemoteOrderSink{remote: remote}
}

func (s *RemoteOrderSink) Record(ctx context.Context, order *models.Order) error {
	req := catalog.PlaceOrderRequest{
		UserIdentifier: order.UserIdentifier,
		Address:        order.DeliveryAddress,
	}
	for _, item := range order.Items {
		req.ProductIDs = append(req.ProductIDs, item.ProductID)
		req.Quantities = append(req.Quantities, item.Quantity)
	}

	id, err := s.remote.PlaceOrder(ctx, req)
	if err != nil {
		return fmt.Errorf("remote order placement: %w", err)
	}
	order.ID = id
	return nil
}

// LocalOrderSink writes orders to the local ledger. Orders without an id, or
// whose id is already taken in the ledger, get a locally generated one.
type LocalOrderSink struct {
	repo repositories.OrderRepository
	now  func() time.Time
}

// NewLocalOrderSink creates a new LocalOrderSink.
func NewLocalOrderSink(repo repositories.OrderRepository) *LocalOrderSink {
	return &LocalOrderSink{repo: repo, now: time.Now}
}

func (s *LocalOrderSink) Record(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = LocalOrderID(s.now())
	}
	err := s.repo.Create(ctx, *order)
	for attempt := 0; errors.Is(err, repositories.ErrDuplicateID) && attempt < maxLocalIDAttempts; attempt++ {
		logger.Get().Warn("order id already in the ledger, assigning a local id", zap.String("order", order.ID))
		order.ID = LocalOrderID(s.now())
		err = s.repo.Create(ctx, *order)
	}
	return err
}

const maxLocalIDAttempts = 3

// LocalOrderID builds an id of the form ORD-<unix millis>-<6 random chars>.
// Only the format tells it apart from an id issued by the remote catalog.
func LocalOrderID(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%d-%s", at.UnixMilli(), suffix)
}
