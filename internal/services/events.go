package services

import (
	"context"
	"encoding/json"
	"time"

	"storefront/internal/logger"
	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Routing keys of the order events.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
)

// EventPublisher delivers order events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// OrderEvent is the payload published for every ledger change.
type OrderEvent struct {
	EventID    string             `json:"eventId"`
	Type       string             `json:"type"`
	OrderID    string             `json:"orderId"`
	User       string             `json:"username"`
	Status     models.OrderStatus `json:"status"`
	Total      decimal.Decimal    `json:"total"`
	OccurredAt time.Time          `json:"occurredAt"`
}

// publishEvent sends an event if a publisher is configured. Failures are
// logged and dropped.
func publishEvent(ctx context.Context, publisher EventPublisher, eventType string, order models.Order) {
	if publisher == nil {
		return
	}
	body, err := json.Marshal(OrderEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OrderID:    order.ID,
		User:       order.UserIdentifier,
		Status:     order.Status,
		Total:      order.TotalAmount,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		logger.Get().Warn("failed to marshal order event", zap.String("order", order.ID), zap.Error(err))
		return
	}
	if err := publisher.Publish(ctx, eventType, body); err != nil {
		logger.Get().Warn("failed to publish order event",
			zap.String("type", eventType), zap.String("order", order.ID), zap.Error(err))
	}
}
