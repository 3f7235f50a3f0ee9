package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tutorialapi/internal/apperr"
	"tutorialapi/internal/http/middleware"
	"tutorialapi/internal/schema"
	"tutorialapi/internal/shape"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details []schema.Issue `json:"details,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

func writeIssues(c *fiber.Ctx, iss schema.Issues) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Details: iss,
		},
	})
}

// ErrorHandler returns the global error handler. Request validation issues
// become 422 responses listing every issue; errors known to reg, or carrying
// their own response as *apperr.HTTPError, are written as requested; anything
// else is an internal error.
func ErrorHandler(reg *apperr.Registry) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := zerolog.Ctx(c.UserContext())

		var respErr *shape.ResponseError
		if errors.As(err, &respErr) {
			log.Error().Err(err).Str("model", respErr.Model).Msg("response validation failed")
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		if iss, ok := schema.AsIssues(err); ok {
			return writeIssues(c, iss)
		}

		if status, body, ok := reg.Lookup(err); ok {
			return c.Status(status).JSON(body)
		}

		var httpErr *apperr.HTTPError
		if errors.As(err, &httpErr) {
			for k, v := range httpErr.Headers {
				c.Set(k, v)
			}
			if httpErr.Body != nil {
				return c.Status(httpErr.Status).JSON(httpErr.Body)
			}
			return writeError(c, httpErr.Status, httpErr.Code, httpErr.Error())
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusBadRequest:
				return writeError(c, fe.Code, "BAD_REQUEST", "bad request")
			case fiber.StatusNotFound:
				return writeError(c, fe.Code, "NOT_FOUND", "resource not found")
			case fiber.StatusMethodNotAllowed:
				return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
			case fiber.StatusRequestEntityTooLarge:
				return writeError(c, fe.Code, "PAYLOAD_TOO_LARGE", "request body too large")
			}
			if fe.Code < fiber.StatusInternalServerError {
				e := apperr.New(fe.Code, fe.Message)
				return writeError(c, e.Status, e.Code, e.Message)
			}
		}

		log.Error().Err(err).Msg("unhandled error")
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
