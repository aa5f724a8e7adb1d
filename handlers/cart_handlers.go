package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"smartcart/apperror"
	"smartcart/cart"
	"smartcart/middleware"
	"smartcart/models"
	"smartcart/voice"
)

// withCart runs fn on the caller's cart and replies with the cart summary.
func (h *Handler) withCart(c *fiber.Ctx, status int, fn func(sc *cart.Cart) error) error {
	var summary cart.Summary
	err := h.Sessions.With(middleware.SessionID(c), func(sc *cart.Cart) error {
		if err := fn(sc); err != nil {
			return err
		}
		summary = sc.Summary()
		return nil
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(status).JSON(fiber.Map{"status": "success", "data": summary})
}

// HandleGetCart returns items, totals, coupon and budget status.
// GET /api/v1/cart
func (h *Handler) HandleGetCart(c *fiber.Ctx) error {
	return h.withCart(c, fiber.StatusOK, func(*cart.Cart) error { return nil })
}

// HandleAddCartItem adds a catalog product by ID, or a voice placeholder
// product passed in full. Adding a product already in the cart is a no-op.
// POST /api/v1/cart/items
func (h *Handler) HandleAddCartItem(c *fiber.Ctx) error {
	var req models.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	var product models.Product
	switch {
	case req.ProductID != "":
		p, err := h.Catalog.Get(c.UserContext(), req.ProductID)
		if err != nil {
			return h.respondError(c, err)
		}
		product = p
	case req.Product != nil:
		p := *req.Product
		if !voice.IsPlaceholderID(p.ID) || p.Name == "" || p.Price < 0 {
			return badRequest(c, "Only voice placeholder products can be added without a productId")
		}
		product = p
	default:
		return badRequest(c, "productId is required")
	}

	return h.withCart(c, fiber.StatusOK, func(sc *cart.Cart) error {
		sc.AddItem(product)
		return nil
	})
}

// HandleRemoveCartItem removes a product from the cart if present.
// DELETE /api/v1/cart/items/:id
func (h *Handler) HandleRemoveCartItem(c *fiber.Ctx) error {
	id := c.Params("id")
	return h.withCart(c, fiber.StatusOK, func(sc *cart.Cart) error {
		sc.RemoveItem(id)
		return nil
	})
}

// HandleSetBudget replaces the cart budget. Zero clears it.
// PUT /api/v1/cart/budget
func (h *Handler) HandleSetBudget(c *fiber.Ctx) error {
	var req models.SetBudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Amount < 0 {
		return badRequest(c, "Budget cannot be negative")
	}
	return h.withCart(c, fiber.StatusOK, func(sc *cart.Cart) error {
		sc.SetBudget(req.Amount)
		return nil
	})
}

// HandleApplyCoupon looks up a coupon by code and applies it to the cart.
// A rejected coupon leaves the cart as it was.
// POST /api/v1/cart/coupon
func (h *Handler) HandleApplyCoupon(c *fiber.Ctx) error {
	var req models.ApplyCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Code == "" {
		return badRequest(c, "Coupon code is required")
	}

	coupon, err := h.Coupons.FindByCode(c.UserContext(), req.Code)
	if err != nil {
		return h.respondError(c, err)
	}

	return h.withCart(c, fiber.StatusOK, func(sc *cart.Cart) error {
		eval, err := sc.ApplyCoupon(coupon)
		if err != nil {
			return err
		}
		h.warnFallback(coupon, eval)
		h.Logger.Info("coupon applied", zap.String("code", coupon.Code), zap.Float64("discount", sc.Discount()))
		return nil
	})
}

// HandleClearCoupon removes the applied coupon.
// DELETE /api/v1/cart/coupon
func (h *Handler) HandleClearCoupon(c *fiber.Ctx) error {
	return h.withCart(c, fiber.StatusOK, func(sc *cart.Cart) error {
		sc.ClearCoupon()
		return nil
	})
}

// HandleVoiceToCart resolves a transcript and adds every resolved item to
// the cart, setting the budget when one was spoken. The session is checked
// before the language model is called; the cart is only touched after it
// has answered.
// POST /api/v1/cart/voice
func (h *Handler) HandleVoiceToCart(c *fiber.Ctx) error {
	var req models.TranscriptRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sessionID := middleware.SessionID(c)
	if !h.Sessions.Exists(sessionID) {
		return h.respondError(c, apperror.NotFound("Session not found"))
	}

	res, err := h.Voice.ResolveTranscript(c.UserContext(), req.Transcript)
	if err != nil {
		return h.respondError(c, err)
	}

	var summary cart.Summary
	err = h.Sessions.With(sessionID, func(sc *cart.Cart) error {
		for _, item := range res.Items {
			sc.AddItem(item)
		}
		if res.Budget > 0 {
			sc.SetBudget(res.Budget)
		}
		summary = sc.Summary()
		return nil
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return success(c, fiber.Map{
		"resolution": res,
		"cart":       summary,
	})
}
