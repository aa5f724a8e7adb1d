package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"smartcart/cart"
	"smartcart/models"
)

// HandleListCoupons lists every coupon, expired ones included.
// GET /api/v1/coupons
func (h *Handler) HandleListCoupons(c *fiber.Ctx) error {
	coupons, err := h.Coupons.ListCoupons(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return success(c, coupons)
}

// HandleQuoteCoupon evaluates a coupon against a caller-supplied total
// without touching any cart.
// POST /api/v1/coupons/apply
func (h *Handler) HandleQuoteCoupon(c *fiber.Ctx) error {
	var req models.CouponQuoteRequest
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

	eval, err := cart.Evaluate(coupon, req.CartTotal, h.now())
	if err != nil {
		return h.respondError(c, err)
	}
	h.warnFallback(coupon, eval)

	newTotal := req.CartTotal - eval.Discount
	if newTotal < 0 {
		newTotal = 0
	}
	return success(c, fiber.Map{
		"code":     coupon.Code,
		"discount": eval.Discount,
		"newTotal": newTotal,
	})
}

func (h *Handler) warnFallback(coupon models.Coupon, eval cart.Evaluation) {
	if eval.Fallback {
		h.Logger.Warn("unknown discount type treated as flat discount",
			zap.String("code", coupon.Code),
			zap.String("discount_type", string(coupon.DiscountType)),
		)
	}
}
