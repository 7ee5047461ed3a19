package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is one of a fixed set of order states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
)

// OrderStatuses lists every valid status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// ParseOrderStatus accepts a status name in any letter case.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid order status: %s", s)
}

// OrderItem represents a single line within an order.
type OrderItem struct {
	ProductID   uint64          `json:"productId,string"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity,string"`
	UnitPrice   decimal.Decimal `json:"price"` // Price at the time of order
}

// Order represents a placed customer order.
type Order struct {
	ID              string          `json:"id"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"total"`
	UserIdentifier  string          `json:"username"`
	DeliveryAddress string          `json:"address"`
	CreatedAt       time.Time       `json:"timestamp"`
	Items           []OrderItem     `json:"items"`
}
