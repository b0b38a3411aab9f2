package analytics

import (
	"net/http"

	"CampusManager/pkg/response"

	"github.com/labstack/echo/v4"
)

// AnalyticsHandler exposes the admin reports over HTTP.
type AnalyticsHandler struct {
	service *AnalyticsService
}

func NewAnalyticsHandler(service *AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Dashboard serves the headline counts.
func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	report, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Dashboard data retrieved successfully", report)
}

// AttendanceReport serves the breakdown over ?startDate=&endDate= with an
// optional ?department= scope.
func (h *AnalyticsHandler) AttendanceReport(c echo.Context) error {
	report, err := h.service.AttendanceReport(
		c.Request().Context(),
		c.QueryParam("startDate"),
		c.QueryParam("endDate"),
		c.QueryParam("department"),
	)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Attendance analytics retrieved successfully", report)
}
