package routes

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"smartcart/handlers"
	"smartcart/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler) {
	app.Get("/version", handleVersion)

	api := app.Group("/api/v1")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// --- Catalog ---
	products := api.Group("/products")
	products.Get("/", h.HandleListProducts)
	products.Get("/:id", h.HandleGetProduct)
	products.Get("/:id/alternatives", h.HandleCheaperAlternatives)

	// --- Coupons ---
	coupons := api.Group("/coupons")
	coupons.Get("/", h.HandleListCoupons)
	coupons.Post("/apply", h.HandleQuoteCoupon)

	// --- Budget history ---
	budget := api.Group("/budget")
	budget.Get("/:userId", h.HandleGetBudgetHistory)
	budget.Put("/:userId", h.HandleUpdateBudgetHistory)

	// --- Voice ---
	api.Post("/voice/parse", h.HandleParseVoice)

	// --- Sessions & cart ---
	api.Post("/sessions", h.HandleOpenSession)

	requireSession := middleware.SessionRequired(h.Tokens)
	api.Delete("/session", requireSession, h.HandleCloseSession)

	cart := api.Group("/cart", requireSession)
	cart.Get("/", h.HandleGetCart)
	cart.Post("/items", h.HandleAddCartItem)
	cart.Delete("/items/:id", h.HandleRemoveCartItem)
	cart.Put("/budget", h.HandleSetBudget)
	cart.Post("/coupon", h.HandleApplyCoupon)
	cart.Delete("/coupon", h.HandleClearCoupon)
	cart.Post("/voice", h.HandleVoiceToCart)
}

func handleVersion(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("no build information available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.SendString("<pre>\n" + info.String() + "</pre>\n")
}
