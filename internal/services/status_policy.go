package services

import (
	"fmt"

	"storefront/internal/models"
)

// StatusPolicy decides which order status changes an administrator may make.
type StatusPolicy interface {
	Allowed(from, to models.OrderStatus) bool
}

// TransitionTable lists, per status, the statuses it may move to. Setting a
// status to its current value is always allowed.
type TransitionTable map[models.OrderStatus][]models.OrderStatus

func (t TransitionTable) Allowed(from, to models.OrderStatus) bool {
	if from == to {
		return true
	}
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PermissiveTransitions lets any status be set to any other, Delivered included.
func PermissiveTransitions() TransitionTable {
	table := TransitionTable{}
	for _, from := range models.OrderStatuses {
		for _, to := range models.OrderStatuses {
			if from != to {
				table[from] = append(table[from], to)
			}
		}
	}
	return table
}

// ForwardTransitions only moves orders along Pending, Processing, Shipped,
// Delivered. Steps may be skipped but never undone.
func ForwardTransitions() TransitionTable {
	table := TransitionTable{}
	for i, from := range models.OrderStatuses {
		table[from] = append([]models.OrderStatus(nil), models.OrderStatuses[i+1:]...)
	}
	return table
}

// NewStatusPolicy returns the policy registered under name ("permissive" or "forward").
func NewStatusPolicy(name string) (StatusPolicy, error) {
	switch name {
	case "", "permissive":
		return PermissiveTransitions(), nil
	case "forward":
		return ForwardTransitions(), nil
	}
	return nil, fmt.Errorf("unknown order status policy %q", name)
}
