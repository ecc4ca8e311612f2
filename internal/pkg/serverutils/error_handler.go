package serverutils

import (
	"errors"

	"taskchat-be/internal/service"
	"taskchat-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps errors bubbling out of controllers to the
// uniform response envelope. Service sentinels get their HTTP codes here so
// controllers stay thin.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := err.Error()

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, service.ErrTaskNotFound),
			errors.Is(err, service.ErrConversationNotFound):
			code = fiber.StatusNotFound
		case errors.Is(err, llm.ErrNoCredential):
			message = "AI provider is not configured"
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
