package handler

import (
	"net/http"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense report HTTP requests
type ExpenseHandler struct {
	expenseService    *service.ExpenseService
	attachmentService *service.AttachmentService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService, attachmentService *service.AttachmentService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService:    expenseService,
		attachmentService: attachmentService,
	}
}

// ExpenseAmountsRequest represents the update expense amounts request body
type ExpenseAmountsRequest struct {
	ActivityExpense  decimal.Decimal `json:"biayaKegiatan"`
	TransportExpense decimal.Decimal `json:"biayaTransport"`
	CommitteeExpense decimal.Decimal `json:"biayaPanitia"`
}

// GetReport handles GET /api/v1/expenses/:year/:month
func (h *ExpenseHandler) GetReport(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	report, err := h.expenseService.GetReport(c.Request().Context(), year, month)
	if err != nil {
		return respondError(c, err, "load expense report")
	}
	return c.JSON(http.StatusOK, report)
}

// UpdateAmounts handles PUT /api/v1/expenses/:year/:month/:id
func (h *ExpenseHandler) UpdateAmounts(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	var req ExpenseAmountsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", []ValidationError{
			{Field: "amount", Message: "Amounts must be numbers"},
		})
	}

	item, err := h.expenseService.UpdateAmounts(c.Request().Context(), year, month, c.Param("id"), domain.CategoryAmounts{
		Activity:  req.ActivityExpense,
		Transport: req.TransportExpense,
		Committee: req.CommitteeExpense,
	})
	if err != nil {
		return respondError(c, err, "save expenses")
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /api/v1/expenses/:year/:month/:id
func (h *ExpenseHandler) DeleteItem(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	if err := h.expenseService.Delete(c.Request().Context(), year, month, c.Param("id")); err != nil {
		return respondError(c, err, "delete expense item")
	}
	return c.NoContent(http.StatusNoContent)
}

// AttachFile handles POST /api/v1/expenses/:year/:month/:id/attachment
func (h *ExpenseHandler) AttachFile(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	filename, data, ok, err := readUpload(c)
	if !ok {
		return err
	}

	item, err := h.attachmentService.AttachExpenseFile(c.Request().Context(), year, month, c.Param("id"), filename, data)
	if err != nil {
		return respondError(c, err, "save expense attachment")
	}

	log.Info().Int("year", year).Int("month", int(month)).Str("task_id", item.ID).Str("file", item.FileBukti).Msg("Evidence file attached")
	return c.JSON(http.StatusOK, item)
}

// RemoveFile handles DELETE /api/v1/expenses/:year/:month/:id/attachment
func (h *ExpenseHandler) RemoveFile(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	item, err := h.attachmentService.RemoveExpenseFile(c.Request().Context(), year, month, c.Param("id"))
	if err != nil {
		return respondError(c, err, "remove expense attachment")
	}
	return c.JSON(http.StatusOK, item)
}

// FileURL handles GET /api/v1/expenses/:year/:month/:id/attachment
func (h *ExpenseHandler) FileURL(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	url, err := h.attachmentService.ExpenseFileURL(c.Request().Context(), year, month, c.Param("id"))
	if err != nil {
		return respondError(c, err, "sign attachment url")
	}
	return c.JSON(http.StatusOK, AttachmentURLResponse{URL: url, ExpiresIn: int(service.PresignExpiry.Seconds())})
}
