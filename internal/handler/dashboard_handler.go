package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"finhealth/internal/auth"
	apperrors "finhealth/internal/errors"
	"finhealth/internal/respond"
	"finhealth/internal/service"
)

// DashboardHandler serves the aggregated summary endpoint.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary godoc
// @Summary Aggregated financial summary for the caller
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} respond.Envelope
// @Failure 401 {object} respond.Envelope
// @Failure 503 {object} respond.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.ErrUnauthorized
	}

	summary, err := h.dashboardService.Summary(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, "ok", summary)
}
