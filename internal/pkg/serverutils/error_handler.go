package serverutils

import (
	"errors"

	"ai-chat-be/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

func statusForCode(code apperrors.Code) int {
	switch code {
	case apperrors.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case apperrors.CodeInvalidArgument:
		return fiber.StatusBadRequest
	case apperrors.CodeNotFound:
		return fiber.StatusNotFound
	case apperrors.CodeForbidden:
		return fiber.StatusForbidden
	case apperrors.CodeUpstreamFailure:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware converts errors returned by handlers into the
// standard response envelope. Domain errors keep their mapped status, any
// other error becomes a 500 without leaking internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			status := statusForCode(appErr.Code)
			return ctx.Status(status).JSON(ErrorResponse(status, appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, "Internal server error"))
	}
}
