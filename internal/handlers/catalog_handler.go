package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the merged remote and overlay catalog.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers the public catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/stores", h.HandleListStores)
	router.Get("/stores/:id/products", h.HandleListProducts)
	router.Get("/products/:id", h.HandleGetProduct)
	router.Get("/products/:id/reviews", h.HandleListReviews)
}

// HandleListStores returns remote and overlay stores. It never fails on a remote outage.
func (h *CatalogHandler) HandleListStores(c *fiber.Ctx) error {
	return c.JSON(h.service.ListStores(c.UserContext()))
}

func (h *CatalogHandler) HandleListProducts(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "store id")
	}
	return c.JSON(h.service.ListProductsByStore(c.UserContext(), id))
}

func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "product id")
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

func (h *CatalogHandler) HandleListReviews(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "product id")
	}
	reviews, err := h.service.ListReviews(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reviews)
}
