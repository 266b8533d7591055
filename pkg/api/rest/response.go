package rest

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/pkg/core/model"
)

// Error codes returned in the error envelope
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL_ERROR"
)

var errUnauthorized = errors.New("unauthorized")

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(envelope{Success: true, Data: data})
}

// classifyError maps an error to its HTTP status and envelope code
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return fiber.StatusBadRequest, CodeValidation
	case errors.Is(err, model.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, model.ErrForbidden):
		return fiber.StatusForbidden, CodeForbidden
	case errors.Is(err, model.ErrConflict):
		return fiber.StatusConflict, CodeConflict
	case errors.Is(err, errUnauthorized):
		return fiber.StatusUnauthorized, CodeUnauthorized
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			return fe.Code, CodeNotFound
		case fiber.StatusUnauthorized:
			return fe.Code, CodeUnauthorized
		case fiber.StatusForbidden:
			return fe.Code, CodeForbidden
		}
		if fe.Code < fiber.StatusInternalServerError {
			return fe.Code, CodeValidation
		}
	}

	return fiber.StatusInternalServerError, CodeInternal
}

// handleError renders every error returned by a handler as an error envelope.
// Internal errors are logged and their message is not exposed.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status, code := classifyError(err)

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			zap.Error(err))
		message = "internal server error"
	}

	return c.Status(status).JSON(envelope{
		Success: false,
		Error:   &errorBody{Code: code, Message: message},
	})
}

// queryInt parses an optional integer query parameter. Missing means 0.
func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.Validationf("%s must be an integer", key)
	}
	return n, nil
}

// parseBody decodes a JSON request body
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return model.Validationf("invalid request body: %v", err)
	}
	return nil
}
