package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pdf-rag-be/internal/pkg/apperrors"
	"pdf-rag-be/internal/pkg/logger"
)

// NewErrorHandler maps service errors to HTTP statuses. Untyped errors are
// treated as persistence failures and never leak their details to clients.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			status := fiber.StatusInternalServerError
			switch appErr.Kind {
			case apperrors.KindValidation:
				status = fiber.StatusBadRequest
			case apperrors.KindNotFound:
				status = fiber.StatusNotFound
			case apperrors.KindUpstream:
				status = fiber.StatusBadGateway
			}
			if status >= 500 {
				log.Error("http", "request failed", map[string]interface{}{
					"path":  ctx.Path(),
					"error": err.Error(),
				})
			}
			return ctx.Status(status).JSON(ErrorResponse(appErr.Message))
		}

		log.Error("http", "unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
