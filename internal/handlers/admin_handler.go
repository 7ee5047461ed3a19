package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// AdminHandler handles the catalog overlay and order ledger administration.
type AdminHandler struct {
	catalog *services.CatalogService
	orders  *services.OrderService
	auth    *services.AuthService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(catalog *services.CatalogService, orders *services.OrderService, auth *services.AuthService) *AdminHandler {
	return &AdminHandler{catalog: catalog, orders: orders, auth: auth}
}

// RegisterRoutes registers the admin routes.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	admin := router.Group("/admin")

	admin.Post("/stores", h.HandleCreateStore)
	admin.Put("/stores/:id", h.HandleUpdateStore)
	admin.Delete("/stores/:id", h.HandleDeleteStore)

	admin.Post("/products", h.HandleCreateProduct)
	admin.Put("/products/:id", h.HandleUpdateProduct)
	admin.Delete("/products/:id", h.HandleDeleteProduct)
	admin.Post("/products/:id/toggle-stock", h.HandleToggleStock)

	admin.Get("/orders", h.HandleListOrders)
	admin.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)
	admin.Get("/summary", h.HandleSummary)
	admin.Get("/customers", h.HandleCustomers)
}

// StoreRequest represents the request body for creating or updating a store.
type StoreRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Category    string `json:"category" validate:"required,max=60"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
}

func (r StoreRequest) input() services.StoreInput {
	return services.StoreInput{Name: r.Name, Description: r.Description, Category: r.Category, ImageURL: r.ImageURL}
}

// ProductRequest represents the request body for creating or updating a product.
type ProductRequest struct {
	StoreID     uint64          `json:"storeId,string" validate:"required"`
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=1000"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl" validate:"omitempty,url"`
	OutOfStock  *bool           `json:"outOfStock"`
}

func (r ProductRequest) input() services.ProductInput {
	return services.ProductInput{
		StoreID:     r.StoreID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		OutOfStock:  r.OutOfStock,
	}
}

// StatusRequest represents the request body for an order status change.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *AdminHandler) HandleCreateStore(c *fiber.Ctx) error {
	var req StoreRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	store, err := h.catalog.CreateStore(c.UserContext(), req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(store)
}

// HandleUpdateStore replaces an overlay store. Unknown ids are reported, not failed.
func (h *AdminHandler) HandleUpdateStore(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "store id")
	}
	var req StoreRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	updated, err := h.catalog.UpdateStore(c.UserContext(), id, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "updated": updated})
}

func (h *AdminHandler) HandleDeleteStore(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "store id")
	}
	return c.JSON(fiber.Map{"success": true, "deleted": h.catalog.DeleteStore(c.UserContext(), id)})
}

func (h *AdminHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	product, err := h.catalog.CreateProduct(c.UserContext(), req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *AdminHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "product id")
	}
	var req ProductRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	updated, err := h.catalog.UpdateProduct(c.UserContext(), id, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "updated": updated})
}

func (h *AdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "product id")
	}
	return c.JSON(fiber.Map{"success": true, "deleted": h.catalog.DeleteProduct(c.UserContext(), id)})
}

func (h *AdminHandler) HandleToggleStock(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "product id")
	}
	return c.JSON(fiber.Map{"outOfStock": h.catalog.ToggleOutOfStock(c.UserContext(), id)})
}

// HandleListOrders returns every order, newest first.
func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	return c.JSON(services.SortNewestFirst(h.orders.AllOrders(c.UserContext())))
}

// HandleUpdateOrderStatus sets an order's status. Unknown order ids are a no-op.
func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	if err := h.orders.SetStatus(c.UserContext(), c.Params("id"), req.Status); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) HandleSummary(c *fiber.Ctx) error {
	return c.JSON(h.orders.Summary(c.UserContext()))
}

// HandleCustomers lists known users with their orders. Password digests are never included.
func (h *AdminHandler) HandleCustomers(c *fiber.Ctx) error {
	ctx := c.UserContext()
	return c.JSON(h.orders.Customers(ctx, h.auth.KnownUsers(ctx)))
}
