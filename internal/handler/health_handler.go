package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"finhealth/internal/respond"
)

// HealthHandler reports service and database status.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health godoc
// @Summary Service health check
// @Tags health
// @Produce json
// @Success 200 {object} respond.Envelope
// @Router /healthz [get]
func (h *HealthHandler) Health(c echo.Context) error {
	database := "connected"
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
		database = "disconnected"
	}
	return respond.JSON(c, http.StatusOK, "ok", echo.Map{
		"service":  "finhealth",
		"database": database,
	})
}
