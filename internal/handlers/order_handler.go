package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles checkout and the signed-in user's order history.
type OrderHandler struct {
	orders   *services.OrderService
	checkout *services.CheckoutService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *services.OrderService, checkout *services.CheckoutService) *OrderHandler {
	return &OrderHandler{orders: orders, checkout: checkout}
}

// RegisterRoutes registers the order routes. router must already require a session.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)
	router.Get("/orders/mine", h.HandleMyOrders)
}

// CheckoutRequest represents the delivery form submitted at checkout.
type CheckoutRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Street   string `json:"street" validate:"required"`
	City     string `json:"city" validate:"required"`
	Zip      string `json:"zip" validate:"required"`
}

// HandleCheckout places an order for the cart and empties it.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	receipt, err := h.checkout.Checkout(c.UserContext(), services.Address{
		FullName: req.FullName,
		Street:   req.Street,
		City:     req.City,
		Zip:      req.Zip,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"receipt": receipt,
	})
}

// HandleMyOrders returns the signed-in user's orders, newest first.
func (h *OrderHandler) HandleMyOrders(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if session == nil {
		return fail(c, services.ErrNoSession)
	}
	return c.JSON(services.SortNewestFirst(h.orders.OrdersForUser(c.UserContext(), session.Identifier)))
}
