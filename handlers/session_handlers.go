package handlers

import (
	"github.com/gofiber/fiber/v2"

	"smartcart/middleware"
)

// HandleOpenSession starts a shopper session with an empty cart.
// POST /api/v1/sessions
func (h *Handler) HandleOpenSession(c *fiber.Ctx) error {
	id := h.Sessions.Open()
	token, err := h.Tokens.Issue(id)
	if err != nil {
		h.Sessions.Close(id)
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"sessionId": id, "token": token},
	})
}

// HandleCloseSession discards the session and its cart.
// DELETE /api/v1/session
func (h *Handler) HandleCloseSession(c *fiber.Ctx) error {
	if !h.Sessions.Close(middleware.SessionID(c)) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Session not found"})
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Session closed"})
}
