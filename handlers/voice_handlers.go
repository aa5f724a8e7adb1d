package handlers

import (
	"github.com/gofiber/fiber/v2"

	"smartcart/models"
)

// HandleParseVoice resolves a transcript to products and a budget. No cart
// is changed; the client decides what to add.
// POST /api/v1/voice/parse
func (h *Handler) HandleParseVoice(c *fiber.Ctx) error {
	var req models.TranscriptRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	res, err := h.Voice.ResolveTranscript(c.UserContext(), req.Transcript)
	if err != nil {
		return h.respondError(c, err)
	}
	return success(c, res)
}
