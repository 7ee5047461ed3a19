package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the cart.
type CartHandler struct {
	cart     *services.CartService
	catalog  *services.CatalogService
	checkout *services.CheckoutService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart *services.CartService, catalog *services.CatalogService, checkout *services.CheckoutService) *CartHandler {
	return &CartHandler{cart: cart, catalog: catalog, checkout: checkout}
}

// RegisterRoutes registers the cart routes. router must already require a session.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:productId", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClear)
}

// AddItemRequest represents the request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID uint64 `json:"productId,string" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

// UpdateQuantityRequest represents the request body for changing a line's quantity.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// HandleGetCart returns the cart with its totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart := h.cart.Cart(c.UserContext())
	return c.JSON(fiber.Map{
		"cart":  cart,
		"quote": h.checkout.QuoteCart(cart),
	})
}

// HandleAddItem looks the product up in the catalog and adds it to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.GetProduct(c.UserContext(), req.ProductID)
	if err != nil {
		return fail(c, err)
	}

	cart, err := h.cart.AddItem(c.UserContext(), services.AddItemInput{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		StoreID:     product.StoreID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"cart": cart})
}

// HandleUpdateQuantity sets a line's quantity. Zero or less removes the line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	productID, ok := paramID(c, "productId")
	if !ok {
		return badID(c, "product id")
	}
	var req UpdateQuantityRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	return c.JSON(fiber.Map{"cart": h.cart.UpdateQuantity(c.UserContext(), productID, *req.Quantity)})
}

// HandleRemoveItem deletes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	productID, ok := paramID(c, "productId")
	if !ok {
		return badID(c, "product id")
	}
	return c.JSON(fiber.Map{"cart": h.cart.RemoveItem(c.UserContext(), productID)})
}

// HandleClear empties the cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	h.cart.Clear(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}
