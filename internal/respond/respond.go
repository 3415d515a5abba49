// Package respond renders the JSON response envelope used by every endpoint:
// {success, message, data?, error?, statusCode}, with an optional pagination
// block on list responses.
package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/notehive/notehive/internal/apperr"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       any         `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	StatusCode int         `json:"statusCode"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the window of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Success writes a 200 envelope with the given payload.
func Success(c *fiber.Ctx, data any, message string) error {
	return write(c, http.StatusOK, data, message, nil)
}

// Created writes a 201 envelope with the given payload.
func Created(c *fiber.Ctx, data any, message string) error {
	return write(c, http.StatusCreated, data, message, nil)
}

// Paginated writes a 200 envelope carrying a pagination block.
func Paginated(c *fiber.Ctx, data any, p Pagination, message string) error {
	return write(c, http.StatusOK, data, message, &p)
}

func write(c *fiber.Ctx, status int, data any, message string, p *Pagination) error {
	return c.Status(status).JSON(Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		StatusCode: status,
		Pagination: p,
	})
}

// ErrorHandler builds the Fiber error handler that maps domain and framework
// errors onto the envelope. Internal failures are logged with detail but
// reported to the caller as a generic message.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := http.StatusInternalServerError
		message := "Internal server error"

		var appErr *apperr.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			status = apperr.HTTPStatus(appErr)
			message = appErr.Message
			if appErr.Code == apperr.CodeInternal {
				message = "Internal server error"
			}
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		}

		if status >= http.StatusInternalServerError && logger != nil {
			logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}

		return c.Status(status).JSON(Envelope{
			Success:    false,
			Message:    message,
			Error:      http.StatusText(status),
			StatusCode: status,
		})
	}
}
