package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/service"
	"github.com/adifathi/planner/planner-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard and export HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	exportService    *service.ExportService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService, exportService *service.ExportService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		exportService:    exportService,
	}
}

// dashboardQuery holds the parsed dashboard selection
type dashboardQuery struct {
	year   int
	month  int
	filter domain.DetailFilter
}

// parseDashboardQuery reads :year plus the optional month, status and priority query params.
// month accepts 1-12, an Indonesian month name, or "all"/empty for the whole year.
func parseDashboardQuery(c echo.Context) (*dashboardQuery, []ValidationError) {
	var errs []ValidationError
	q := &dashboardQuery{}

	year, ok := parseYear(c)
	if !ok {
		errs = append(errs, ValidationError{Field: "year", Message: "Year must be between 2000 and 2100"})
	}
	q.year = year

	if m := strings.TrimSpace(c.QueryParam("month")); m != "" && !strings.EqualFold(m, "all") && m != "0" {
		month, ok := util.ParseMonth(m)
		if !ok {
			errs = append(errs, ValidationError{Field: "month", Message: "Month must be between 1 and 12"})
		}
		q.month = int(month)
	}

	if s := c.QueryParam("status"); s != "" && s != domain.FilterAll {
		status := domain.Status(s)
		if !status.IsValid() {
			errs = append(errs, ValidationError{Field: "status", Message: "Status must be All or one of: " + joinValues(domain.Statuses)})
		}
		q.filter.Status = status
	}

	if p := c.QueryParam("priority"); p != "" && p != domain.FilterAll {
		priority := domain.Priority(p)
		if !priority.IsValid() {
			errs = append(errs, ValidationError{Field: "priority", Message: "Priority must be All or one of: " + joinValues(domain.Priorities)})
		}
		q.filter.Priority = priority
	}

	return q, errs
}

// GetDashboard handles GET /api/v1/dashboard/:year
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	q, errs := parseDashboardQuery(c)
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid dashboard query", errs)
	}

	view := h.dashboardService.GetDashboard(c.Request().Context(), q.year, q.month, q.filter)
	return c.JSON(http.StatusOK, view)
}

// Export handles GET /api/v1/dashboard/:year/export?view=report|chart&format=xlsx|pdf
func (h *DashboardHandler) Export(c echo.Context) error {
	q, errs := parseDashboardQuery(c)

	view := service.ExportView(strings.ToLower(c.QueryParam("view")))
	if view == "" {
		view = service.ExportReport
	}
	if view != service.ExportReport && view != service.ExportChart {
		errs = append(errs, ValidationError{Field: "view", Message: "View must be one of: report, chart"})
	}

	format := service.ExportFormat(strings.ToLower(c.QueryParam("format")))
	if format == "" {
		format = service.FormatXLSX
	}
	if format != service.FormatXLSX && format != service.FormatPDF {
		errs = append(errs, ValidationError{Field: "format", Message: "Format must be one of: xlsx, pdf"})
	}

	if len(errs) > 0 {
		return NewValidationError(c, "Invalid export query", errs)
	}

	start := time.Now()
	file, err := h.exportService.Export(c.Request().Context(), service.ExportRequest{
		Year:   q.year,
		Month:  q.month,
		Filter: q.filter,
		View:   view,
		Format: format,
	})
	if err != nil {
		return respondError(c, err, "export dashboard")
	}

	log.Info().
		Str("file", file.FileName).
		Int("bytes", len(file.Data)).
		Dur("elapsed", time.Since(start)).
		Msg("Dashboard exported")

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+file.FileName+`"`)
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(file.Data)))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}
