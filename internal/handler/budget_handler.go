package handler

import (
	"net/http"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget plan HTTP requests
type BudgetHandler struct {
	budgetService     *service.BudgetService
	attachmentService *service.AttachmentService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService, attachmentService *service.AttachmentService) *BudgetHandler {
	return &BudgetHandler{
		budgetService:     budgetService,
		attachmentService: attachmentService,
	}
}

// BudgetAmountsRequest represents the update budget amounts request body.
// Amounts accept JSON numbers or decimal strings.
type BudgetAmountsRequest struct {
	ActivityBudget  decimal.Decimal `json:"anggaranKegiatan"`
	TransportBudget decimal.Decimal `json:"anggaranTransport"`
	CommitteeBudget decimal.Decimal `json:"anggaranPanitia"`
}

// GetPlan handles GET /api/v1/budgets/:year/:month
func (h *BudgetHandler) GetPlan(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	plan, err := h.budgetService.GetPlan(c.Request().Context(), year, month)
	if err != nil {
		return respondError(c, err, "load budget plan")
	}
	return c.JSON(http.StatusOK, plan)
}

// UpdateAmounts handles PUT /api/v1/budgets/:year/:month/:id
func (h *BudgetHandler) UpdateAmounts(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	var req BudgetAmountsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", []ValidationError{
			{Field: "amount", Message: "Amounts must be numbers"},
		})
	}

	item, err := h.budgetService.UpdateAmounts(c.Request().Context(), year, month, c.Param("id"), domain.CategoryAmounts{
		Activity:  req.ActivityBudget,
		Transport: req.TransportBudget,
		Committee: req.CommitteeBudget,
	})
	if err != nil {
		return respondError(c, err, "save budget")
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /api/v1/budgets/:year/:month/:id
func (h *BudgetHandler) DeleteItem(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	if err := h.budgetService.Delete(c.Request().Context(), year, month, c.Param("id")); err != nil {
		return respondError(c, err, "delete budget item")
	}
	return c.NoContent(http.StatusNoContent)
}

// AttachFile handles POST /api/v1/budgets/:year/:month/:id/attachment
func (h *BudgetHandler) AttachFile(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	filename, data, ok, err := readUpload(c)
	if !ok {
		return err
	}

	item, err := h.attachmentService.AttachBudgetFile(c.Request().Context(), year, month, c.Param("id"), filename, data)
	if err != nil {
		return respondError(c, err, "save budget attachment")
	}

	log.Info().Int("year", year).Int("month", int(month)).Str("task_id", item.ID).Str("file", item.FileRAB).Msg("RAB file attached")
	return c.JSON(http.StatusOK, item)
}

// RemoveFile handles DELETE /api/v1/budgets/:year/:month/:id/attachment
func (h *BudgetHandler) RemoveFile(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	item, err := h.attachmentService.RemoveBudgetFile(c.Request().Context(), year, month, c.Param("id"))
	if err != nil {
		return respondError(c, err, "remove budget attachment")
	}
	return c.JSON(http.StatusOK, item)
}

// FileURL handles GET /api/v1/budgets/:year/:month/:id/attachment
func (h *BudgetHandler) FileURL(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	url, err := h.attachmentService.BudgetFileURL(c.Request().Context(), year, month, c.Param("id"))
	if err != nil {
		return respondError(c, err, "sign attachment url")
	}
	return c.JSON(http.StatusOK, AttachmentURLResponse{URL: url, ExpiresIn: int(service.PresignExpiry.Seconds())})
}
