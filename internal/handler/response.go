package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation         = "https://planner.app/errors/validation"
	ErrorTypeNotFound           = "https://planner.app/errors/not-found"
	ErrorTypeServiceUnavailable = "https://planner.app/errors/service-unavailable"
	ErrorTypeInternal           = "https://planner.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeServiceUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// fieldErrors maps input validation failures to the offending field
var fieldErrors = []struct {
	err     error
	field   string
	message string
}{
	{domain.ErrNameRequired, "name", "Name is required"},
	{domain.ErrNameTooLong, "name", "Name must be 255 characters or less"},
	{domain.ErrInvalidStatus, "status", "Status must be one of: " + joinValues(domain.Statuses)},
	{domain.ErrInvalidPriority, "priority", "Priority must be one of: " + joinValues(domain.Priorities)},
	{domain.ErrInvalidDate, "date", "Dates must use the YYYY-MM-DD format"},
	{domain.ErrInvalidAmount, "amount", "Amounts must be non-negative whole numbers"},
	{domain.ErrInvalidPeriod, "period", "Year must be between 2000 and 2100 and month between 1 and 12"},
	{service.ErrAttachmentEmpty, "file", "File is empty"},
	{service.ErrAttachmentTooLarge, "file", "File too large. Maximum size is 10MB"},
	{service.ErrUnsupportedAttachment, "file", "Supported: PDF, JPEG, PNG, DOC, DOCX, XLS, XLSX"},
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// respondError writes the problem response for a service error. action names the
// attempted operation, e.g. "save task", and ends up in the 5xx detail.
func respondError(c echo.Context, err error, action string) error {
	for _, fe := range fieldErrors {
		if errors.Is(err, fe.err) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: fe.field, Message: fe.message},
			})
		}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, err.Error(), nil)
	case errors.Is(err, domain.ErrTaskNotFound):
		return NewNotFoundError(c, "Task not found")
	case errors.Is(err, domain.ErrBudgetItemNotFound):
		return NewNotFoundError(c, "Budget item not found")
	case errors.Is(err, domain.ErrExpenseItemNotFound):
		return NewNotFoundError(c, "Expense item not found")
	case errors.Is(err, service.ErrNoAttachment):
		return NewNotFoundError(c, "No file attached")
	case errors.Is(err, service.ErrAttachmentStorageDisabled):
		return NewServiceUnavailableError(c, "File downloads are disabled (storage not configured)")
	case errors.Is(err, domain.ErrStorageWrite):
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Storage write failed")
		return NewServiceUnavailableError(c, "Failed to "+action)
	case errors.Is(err, domain.ErrStorageRead):
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Storage read failed")
		return NewServiceUnavailableError(c, "Failed to "+action)
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msgf("Failed to %s", action)
	return NewInternalError(c, "Failed to "+action)
}
