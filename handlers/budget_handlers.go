package handlers

import "github.com/gofiber/fiber/v2"

// HandleGetBudgetHistory returns a user's monthly budget history.
// GET /api/v1/budget/:userId
func (h *Handler) HandleGetBudgetHistory(c *fiber.Ctx) error {
	u, err := h.Users.BudgetHistory(c.UserContext(), c.Params("userId"))
	if err != nil {
		return h.respondError(c, err)
	}
	return success(c, u.BudgetHistory)
}

// HandleUpdateBudgetHistory acknowledges the update. Budget history is
// read-only, so nothing is stored.
// PUT /api/v1/budget/:userId
func (h *Handler) HandleUpdateBudgetHistory(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "success", "message": "Budget update acknowledged; history is read-only"})
}
