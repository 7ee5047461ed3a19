// Package catalog holds the remote catalog collaborator: the read-only store,
// product and review data plus the optional remote order endpoints.
package catalog

import (
	"context"
	"errors"

	"storefront/internal/models"
)

var (
	// ErrUnavailable means the remote catalog could not be reached or failed.
	ErrUnavailable = errors.New("remote catalog unavailable")

	// ErrRejected means the remote catalog answered but refused the request.
	ErrRejected = errors.New("remote catalog rejected request")
)

// Remote is the external catalog/order collaborator.
type Remote interface {
	ListStores(ctx context.Context) ([]models.Store, error)
	ListProductsByStore(ctx context.Context, storeID uint64) ([]models.Product, error)
	// GetProduct returns nil without error when the product does not exist.
	GetProduct(ctx context.Context, id uint64) (*models.Product, error)
	ListReviews(ctx context.Context, productID uint64) ([]models.Review, error)
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (string, error)
	ListOrdersByUser(ctx context.Context, identifier string) ([]models.Order, error)
	ListAllOrders(ctx context.Context) ([]models.Order, error)
}

// PlaceOrderRequest is the remote order-placement payload. ProductIDs and
// Quantities are parallel slices.
type PlaceOrderRequest struct {
	UserIdentifier string   `json:"username"`
	ProductIDs     []uint64 `json:"productIds"`
	Quantities     []int    `json:"quantities"`
	Address        string   `json:"address"`
}

type placeOrderResponse struct {
	ID string `json:"id"`
}
