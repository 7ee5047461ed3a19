package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"storefront/internal/models"
	"storefront/internal/telemetry"

	"github.com/gofiber/fiber/v2"
)

// HTTPRemote talks to a remote catalog over HTTP/JSON.
type HTTPRemote struct {
	baseURL string
	timeout time.Duration
}

// NewHTTPRemote creates a client for the catalog served at baseURL.
func NewHTTPRemote(baseURL string, timeout time.Duration) *HTTPRemote {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPRemote{baseURL: baseURL, timeout: timeout}
}

// do sends the request built by agent and decodes a 2xx JSON body into out.
// It returns the HTTP status code alongside any error.
func (r *HTTPRemote) do(ctx context.Context, op string, agent *fiber.Agent, out interface{}) (int, error) {
	_, span := telemetry.StartSpan(ctx, "HTTPRemote."+op)
	defer span.End()

	agent.Timeout(r.timeout)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return 0, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return code, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, errs[0])
	}
	switch {
	case code >= 500:
		return code, fmt.Errorf("%s: %w: status %d", op, ErrUnavailable, code)
	case code == fiber.StatusNotFound:
		return code, nil
	case code < 200 || code >= 300:
		return code, fmt.Errorf("%s: %w: status %d", op, ErrRejected, code)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return code, fmt.Errorf("%s: %w: malformed response: %v", op, ErrUnavailable, err)
		}
	}
	return code, nil
}

func (r *HTTPRemote) get(ctx context.Context, op, path string, out interface{}) (int, error) {
	return r.do(ctx, op, fiber.Get(r.baseURL+path), out)
}

// ListStores returns every remote store.
func (r *HTTPRemote) ListStores(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if _, err := r.get(ctx, "ListStores", "/stores", &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// ListProductsByStore returns the remote products of one store.
func (r *HTTPRemote) ListProductsByStore(ctx context.Context, storeID uint64) ([]models.Product, error) {
	var products []models.Product
	path := "/stores/" + strconv.FormatUint(storeID, 10) + "/products"
	code, err := r.get(ctx, "ListProductsByStore", path, &products)
	if err != nil {
		return nil, err
	}
	if code == fiber.StatusNotFound {
		return []models.Product{}, nil
	}
	return products, nil
}

// GetProduct returns a remote product, or nil when the remote has no such product.
func (r *HTTPRemote) GetProduct(ctx context.Context, id uint64) (*models.Product, error) {
	var p models.Product
	code, err := r.get(ctx, "GetProduct", "/products/"+strconv.FormatUint(id, 10), &p)
	if err != nil {
		return nil, err
	}
	if code == fiber.StatusNotFound {
		return nil, nil
	}
	return &p, nil
}

// ListReviews returns the reviews of a remote product.
func (r *HTTPRemote) ListReviews(ctx context.Context, productID uint64) ([]models.Review, error) {
	var reviews []models.Review
	path := "/products/" + strconv.FormatUint(productID, 10) + "/reviews"
	code, err := r.get(ctx, "ListReviews", path, &reviews)
	if err != nil {
		return nil, err
	}
	if code == fiber.StatusNotFound {
		return []models.Review{}, nil
	}
	return reviews, nil
}

// PlaceOrder mirrors an order to the remote catalog and returns the remote order id.
func (r *HTTPRemote) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (string, error) {
	agent := fiber.Post(r.baseURL + "/orders")
	agent.JSON(req)

	var resp placeOrderResponse
	code, err := r.do(ctx, "PlaceOrder", agent, &resp)
	if err != nil {
		return "", err
	}
	if code == fiber.StatusNotFound || resp.ID == "" {
		return "", fmt.Errorf("PlaceOrder: %w: no order id returned", ErrRejected)
	}
	return resp.ID, nil
}

// ListOrdersByUser returns the remote order history of one user.
func (r *HTTPRemote) ListOrdersByUser(ctx context.Context, identifier string) ([]models.Order, error) {
	var orders []models.Order
	if _, err := r.get(ctx, "ListOrdersByUser", "/orders?username="+url.QueryEscape(identifier), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAllOrders returns every remote order.
func (r *HTTPRemote) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if _, err := r.get(ctx, "ListAllOrders", "/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
