package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"smartcart/apperror"
	"smartcart/cart"
	"smartcart/session"
	"smartcart/store"
	"smartcart/voice"
)

// Handler carries the dependencies shared by the HTTP handlers.
type Handler struct {
	Catalog  store.Catalog
	Coupons  store.Coupons
	Users    store.Users
	Sessions *session.Registry
	Tokens   *session.Tokens
	Voice    *voice.Resolver
	Logger   *zap.Logger
	Now      func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"status": "success", "data": data})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": message})
}

// respondError maps err to a status code by its kind. Coupon rejections
// carry their reason so clients can show a specific message.
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	var rejection *cart.Rejection
	if errors.As(err, &rejection) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"status":  "error",
			"message": rejection.Message,
			"reason":  rejection.Reason,
		})
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		h.Logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Internal server error"})
	}

	status := fiber.StatusInternalServerError
	switch appErr.Kind {
	case apperror.KindNotFound:
		status = fiber.StatusNotFound
	case apperror.KindValidationFailure:
		status = fiber.StatusBadRequest
	case apperror.KindUpstreamFailure:
		status = fiber.StatusBadGateway
	}

	body := fiber.Map{"status": "error", "message": appErr.Message}
	if appErr.Kind == apperror.KindUpstreamFailure && appErr.Err != nil {
		body["details"] = appErr.Err.Error()
	}
	if status >= fiber.StatusInternalServerError {
		h.Logger.Error(appErr.Message, zap.String("path", c.Path()), zap.Stringer("kind", appErr.Kind), zap.Error(appErr.Err))
	}
	return c.Status(status).JSON(body)
}
