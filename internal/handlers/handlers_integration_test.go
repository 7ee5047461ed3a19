package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_jwt_secret"

// setupApp wires a Fiber app over an in-memory store and the given remote catalog.
func setupApp(t *testing.T, remote *catalog.StaticRemote) *fiber.App {
	t.Helper()
	kv := storage.Prefixed(storage.NewMemoryKV(), "webfoo")
	storeIDs := models.IDSpace{Floor: 100}
	productIDs := models.IDSpace{Floor: 10000}

	orderRepo := repositories.NewKVOrderRepository(kv)
	authService := services.NewAuthService(
		repositories.NewKVUserRepository(kv),
		repositories.NewKVSessionRepository(kv),
		services.UsernamePolicy{},
		services.DemoHasher{},
		services.AuthSettings{AutoProvision: false, JWTSecret: testJWTSecret, TokenTTL: time.Hour},
	)
	authService.Init(context.Background())
	cartService := services.NewCartService(repositories.NewKVCartRepository(kv))
	catalogService := services.NewCatalogService(remote,
		repositories.NewKVStoreRepository(kv, storeIDs),
		repositories.NewKVProductRepository(kv, productIDs),
		storeIDs, productIDs)
	orderService := services.NewOrderService(orderRepo,
		services.NewLocalOrderSink(orderRepo), services.NewRemoteOrderSink(remote), nil, nil)
	checkoutService := services.NewCheckoutService(authService, cartService, orderService, 499)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewCatalogHandler(catalogService).RegisterRoutes(apiV1)
	handlers.NewAdminHandler(catalogService, orderService, authService).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.SessionRequired(authService))
	handlers.NewCartHandler(cartService, catalogService, checkoutService).RegisterRoutes(protected)
	handlers.NewOrderHandler(orderService, checkoutService).RegisterRoutes(protected)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode(t *testing.T, raw []byte, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, out), string(raw))
}

type authResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Token   string          `json:"token"`
	Session *models.Session `json:"session"`
}

func register(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	status, raw := call(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username": username, "displayName": "Test User", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var resp authResponse
	decode(t, raw, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app := setupApp(t, catalog.NewSeededRemote())

	token := register(t, app, "testuser")
	assert.NotEmpty(t, token)

	status, raw := call(t, app, http.MethodGet, "/api/v1/auth/session", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"state":"active"`)

	t.Run("duplicate differing by case", func(t *testing.T) {
		status, raw := call(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
			"username": "TestUser", "displayName": "Other", "password": "x",
		})
		assert.Equal(t, http.StatusConflict, status)
		var resp authResponse
		decode(t, raw, &resp)
		assert.False(t, resp.Success)
		assert.Equal(t, "Username already taken. Please choose another.", resp.Error)
	})

	t.Run("missing display name", func(t *testing.T) {
		status, raw := call(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
			"username": "someone", "password": "x",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		var resp authResponse
		decode(t, raw, &resp)
		assert.Equal(t, "Display name is required.", resp.Error)
	})

	t.Run("wrong password", func(t *testing.T) {
		status, raw := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
			"username": "testuser", "password": "wrongpassword",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
		var resp authResponse
		decode(t, raw, &resp)
		assert.Equal(t, "Incorrect password.", resp.Error)
	})

	t.Run("unknown user with strict login", func(t *testing.T) {
		status, _ := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
			"username": "nobody", "password": "x",
		})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("blank credentials", func(t *testing.T) {
		status, raw := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"username": ""})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, string(raw), "Username and password are required.")
	})

	t.Run("login", func(t *testing.T) {
		status, raw := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
			"username": "TESTUSER", "password": "password123",
		})
		require.Equal(t, http.StatusOK, status)
		var resp authResponse
		decode(t, raw, &resp)
		assert.True(t, resp.Success)
		assert.Equal(t, "testuser", resp.Session.Identifier)
	})
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app := setupApp(t, catalog.NewSeededRemote())

	status, _ := call(t, app, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodGet, "/api/v1/cart", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := register(t, app, "alice")
	status, _ = call(t, app, http.MethodGet, "/api/v1/cart", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, http.MethodGet, "/api/v1/cart", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

type cartResponse struct {
	Cart models.Cart `json:"cart"`
}

func TestCartAndCheckoutFlow(t *testing.T) {
	app := setupApp(t, catalog.NewSeededRemote())
	token := register(t, app, "alice")

	status, raw := call(t, app, http.MethodPost, "/api/v1/cart/items", token, fiber.Map{"productId": "101", "quantity": 2})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var cart cartResponse
	decode(t, raw, &cart)
	require.Len(t, cart.Cart.Lines, 1)
	assert.Equal(t, "Organic Bananas", cart.Cart.Lines[0].ProductName)
	assert.Equal(t, "398", cart.Cart.Subtotal.String())

	status, raw = call(t, app, http.MethodPost, "/api/v1/cart/items", token, fiber.Map{"productId": "201"})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = call(t, app, http.MethodPut, "/api/v1/cart/items/201", token, fiber.Map{"quantity": 0})
	require.Equal(t, http.StatusOK, status)
	decode(t, raw, &cart)
	assert.Len(t, cart.Cart.Lines, 1)

	status, _ = call(t, app, http.MethodPost, "/api/v1/cart/items", token, fiber.Map{"productId": "9999"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, app, http.MethodPost, "/api/v1/checkout", token, fiber.Map{"fullName": "Alice"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, raw = call(t, app, http.MethodPost, "/api/v1/checkout", token, fiber.Map{
		"fullName": "Alice Smith", "street": "1 Main St", "city": "Springfield", "zip": "12345",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var checkout struct {
		Success bool `json:"success"`
		Receipt struct {
			Order    models.Order `json:"order"`
			Subtotal string       `json:"subtotal"`
			Shipping string       `json:"shipping"`
			Total    string       `json:"total"`
		} `json:"receipt"`
	}
	decode(t, raw, &checkout)
	assert.True(t, checkout.Success)
	assert.Equal(t, "398", checkout.Receipt.Subtotal)
	assert.Equal(t, "499", checkout.Receipt.Shipping)
	assert.Equal(t, "897", checkout.Receipt.Total)
	assert.Equal(t, models.OrderStatusPending, checkout.Receipt.Order.Status)
	assert.Equal(t, "Alice Smith, 1 Main St, Springfield 12345", checkout.Receipt.Order.DeliveryAddress)

	status, raw = call(t, app, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, raw, &cart)
	assert.Empty(t, cart.Cart.Lines)

	status, raw = call(t, app, http.MethodGet, "/api/v1/orders/mine", token, nil)
	require.Equal(t, http.StatusOK, status)
	var mine []models.Order
	decode(t, raw, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, checkout.Receipt.Order.ID, mine[0].ID)
}

func TestCheckoutSurvivesRemoteOutage(t *testing.T) {
	remote := catalog.NewSeededRemote()
	app := setupApp(t, remote)
	token := register(t, app, "alice")

	status, _ := call(t, app, http.MethodPost, "/api/v1/cart/items", token, fiber.Map{"productId": "101"})
	require.Equal(t, http.StatusCreated, status)

	remote.SetFailure(errors.New("connection refused"))
	status, raw := call(t, app, http.MethodPost, "/api/v1/checkout", token, fiber.Map{
		"fullName": "Alice Smith", "street": "1 Main St", "city": "Springfield", "zip": "12345",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	assert.Contains(t, string(raw), `"id":"ORD-`)

	status, raw = call(t, app, http.MethodGet, "/api/v1/admin/orders", "", nil)
	require.Equal(t, http.StatusOK, status)
	var orders []models.Order
	decode(t, raw, &orders)
	assert.Len(t, orders, 1)
}

func TestAdminCatalogOverlay(t *testing.T) {
	remote := catalog.NewSeededRemote()
	app := setupApp(t, remote)

	status, raw := call(t, app, http.MethodPost, "/api/v1/admin/stores", "", fiber.Map{
		"name": "Corner Deli", "description": "Sandwiches", "category": "Deli",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var store models.Store
	decode(t, raw, &store)
	assert.Equal(t, uint64(100), store.ID)
	assert.Contains(t, string(raw), `"id":"100"`)

	status, _ = call(t, app, http.MethodPost, "/api/v1/admin/stores", "", fiber.Map{"name": "No category"})
	assert.Equal(t, http.StatusBadRequest, status)

	ids := []uint64{}
	for i := 0; i < 2; i++ {
		status, raw = call(t, app, http.MethodPost, "/api/v1/admin/products", "", fiber.Map{
			"storeId": "100", "name": "X", "price": 299,
		})
		require.Equal(t, http.StatusCreated, status, string(raw))
		var p models.Product
		decode(t, raw, &p)
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []uint64{10000, 10001}, ids)

	status, raw = call(t, app, http.MethodPost, "/api/v1/admin/products/10000/toggle-stock", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"outOfStock":true}`, string(raw))

	status, raw = call(t, app, http.MethodPost, "/api/v1/admin/products/10500/toggle-stock", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"outOfStock":false}`, string(raw))

	status, raw = call(t, app, http.MethodPut, "/api/v1/admin/stores/555", "", fiber.Map{"name": "Ghost", "category": "None"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"updated":false`)

	status, raw = call(t, app, http.MethodGet, "/api/v1/stores", "", nil)
	require.Equal(t, http.StatusOK, status)
	var stores []models.Store
	decode(t, raw, &stores)
	assert.Len(t, stores, 13)

	status, raw = call(t, app, http.MethodGet, "/api/v1/stores/100/products", "", nil)
	require.Equal(t, http.StatusOK, status)
	var products []models.Product
	decode(t, raw, &products)
	assert.Len(t, products, 2)

	remote.SetFailure(errors.New("timeout"))

	status, raw = call(t, app, http.MethodGet, "/api/v1/stores", "", nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, raw, &stores)
	assert.Len(t, stores, 1)

	status, _ = call(t, app, http.MethodGet, "/api/v1/products/701", "", nil)
	assert.Equal(t, http.StatusBadGateway, status)
	status, _ = call(t, app, http.MethodGet, "/api/v1/products/701/reviews", "", nil)
	assert.Equal(t, http.StatusBadGateway, status)

	status, _ = call(t, app, http.MethodGet, "/api/v1/products/10001", "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, http.MethodGet, "/api/v1/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdminOrderStatus(t *testing.T) {
	app := setupApp(t, catalog.NewSeededRemote())

	status, _ := call(t, app, http.MethodPatch, "/api/v1/admin/orders/ORDER-1/status", "", fiber.Map{"status": "Shipped"})
	assert.Equal(t, http.StatusOK, status)

	status, raw := call(t, app, http.MethodGet, "/api/v1/admin/orders", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))

	status, _ = call(t, app, http.MethodPatch, "/api/v1/admin/orders/ORDER-1/status", "", fiber.Map{"status": "Lost"})
	assert.Equal(t, http.StatusBadRequest, status)

	token := register(t, app, "alice")
	status, _ = call(t, app, http.MethodPost, "/api/v1/cart/items", token, fiber.Map{"productId": "701", "quantity": 1})
	require.Equal(t, http.StatusCreated, status)
	status, raw = call(t, app, http.MethodPost, "/api/v1/checkout", token, fiber.Map{
		"fullName": "Alice Smith", "street": "1 Main St", "city": "Springfield", "zip": "12345",
	})
	require.Equal(t, http.StatusCreated, status)
	var checkout struct {
		Receipt struct {
			Order models.Order `json:"order"`
		} `json:"receipt"`
	}
	decode(t, raw, &checkout)
	orderID := checkout.Receipt.Order.ID

	status, _ = call(t, app, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status", "", fiber.Map{"status": "delivered"})
	require.Equal(t, http.StatusOK, status)

	status, raw = call(t, app, http.MethodGet, "/api/v1/admin/orders", "", nil)
	require.Equal(t, http.StatusOK, status)
	var orders []models.Order
	decode(t, raw, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusDelivered, orders[0].Status)

	status, raw = call(t, app, http.MethodGet, "/api/v1/admin/summary", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"orderCount":1,"revenue":"4999","uniqueCustomers":1}`, string(raw))

	status, raw = call(t, app, http.MethodGet, "/api/v1/admin/customers", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(raw), "passwordHash")
	assert.Contains(t, string(raw), `"lastAddress":"Alice Smith, 1 Main St, Springfield 12345"`)
}
