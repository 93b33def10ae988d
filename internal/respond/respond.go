package respond

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes a success response using the common envelope.
func JSON(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 response using the common envelope.
func Created(c echo.Context, message string, data any) error {
	return JSON(c, http.StatusCreated, message, data)
}
