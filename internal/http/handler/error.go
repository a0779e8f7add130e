package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"nicecatcher/internal/http/middleware"
	"nicecatcher/internal/service"
	"nicecatcher/internal/transcriber"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates service sentinels into wire responses.
// Anything unrecognized becomes an opaque 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrMemoNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "memo not found")
	case errors.Is(err, service.ErrProjectNotOwned):
		return writeError(c, fiber.StatusForbidden, "PROJECT_NOT_OWNED", "Project not found or not owned")
	case errors.Is(err, service.ErrAttachmentsJSON):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ATTACHMENTS", "attachments must be valid JSON")
	case errors.Is(err, service.ErrAttachmentsArray):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ATTACHMENTS", "attachments must be a JSON array")
	case errors.Is(err, service.ErrTooManyFiles):
		return writeError(c, fiber.StatusBadRequest, "TOO_MANY_FILES", "too many files (max 5)")
	case errors.Is(err, service.ErrUnsupportedMedia):
		return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_MEDIA_TYPE", err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		return writeError(c, fiber.StatusBadRequest, "FILE_TOO_LARGE", "file exceeds 50 MiB limit")
	case errors.Is(err, transcriber.ErrUnavailable):
		return writeError(c, fiber.StatusBadGateway, "TRANSCRIPTION_FAILED", "transcription provider unavailable")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// The 401 branch keeps the message carried by the error so the auth
// middleware can distinguish its rejection cases on the wire.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := ""
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
			message = e.Message
		}

		switch status {
		case fiber.StatusUnauthorized:
			if message == "" {
				message = "unauthorized"
			}
			return writeError(c, status, "UNAUTHORIZED", message)
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "REQUEST_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
