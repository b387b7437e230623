package middleware

import (
	"errors"
	"net/http"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// genericGenerationFailure is the single client-facing message for every
// failure along the generation pipeline. Extraction, model and parsing
// failures are operationally distinct but deliberately indistinguishable to
// clients; the real cause is logged.
const genericGenerationFailure = "Failed to generate quiz. Please try again."

// ErrorHandler is the centralized Fiber error handler. Every handler returns
// its error and the mapping to status code and body happens here.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		l := logger.Get()

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode, message := mapDomainError(domainErr)

			l.Error("Request failed with domain error",
				zap.String("path", c.Path()),
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
				zap.Error(domainErr.Err),
			)

			return c.Status(statusCode).JSON(dto.ErrorResponse{Error: message})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			l.Warn("Fiber error occurred",
				zap.String("path", c.Path()),
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{Error: fiberErr.Message})
		}

		l.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Internal server error",
		})
	}
}

// mapDomainError maps a domain error to the HTTP status and the client-facing
// message. Generation pipeline failures collapse to one generic message;
// everything else surfaces its own message.
func mapDomainError(err *domain.DomainError) (int, string) {
	switch err.Code {
	case domain.ErrNotFound, domain.ErrQuizNotFound:
		return http.StatusNotFound, err.Message
	case domain.ErrInvalidInput:
		return http.StatusBadRequest, err.Message
	case domain.ErrExtractionFailed, domain.ErrLLMServiceError, domain.ErrLLMTimeout, domain.ErrNoQuestions:
		return http.StatusInternalServerError, genericGenerationFailure
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
