package handlers

import (
	"github.com/gofiber/fiber/v2"

	"smartcart/cart"
	"smartcart/utils"
)

// HandleListProducts lists the catalog, filtered by ?q= on name or brand.
// Passing ?page= or ?pageSize= returns one page plus pagination details.
// GET /api/v1/products
func (h *Handler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.Catalog.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return h.respondError(c, err)
	}

	if c.Query("page") == "" && c.Query("pageSize") == "" {
		return success(c, products)
	}

	page, pagination := utils.Paginate(products, c.QueryInt("page", 1), c.QueryInt("pageSize", 10))
	return c.JSON(fiber.Map{
		"status":     "success",
		"data":       page,
		"pagination": pagination,
	})
}

// HandleGetProduct returns one product.
// GET /api/v1/products/:id
func (h *Handler) HandleGetProduct(c *fiber.Ctx) error {
	p, err := h.Catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return success(c, p)
}

// HandleCheaperAlternatives suggests same-category products with a lower price.
// GET /api/v1/products/:id/alternatives
func (h *Handler) HandleCheaperAlternatives(c *fiber.Ctx) error {
	ctx := c.UserContext()

	p, err := h.Catalog.Get(ctx, c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	catalog, err := h.Catalog.List(ctx)
	if err != nil {
		return h.respondError(c, err)
	}

	return success(c, fiber.Map{
		"product":      p,
		"alternatives": cart.FindCheaper(p, catalog),
	})
}
