package handler

import (
	"strconv"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/labstack/echo/v4"
)

func parseYear(c echo.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < domain.MinYear || year > domain.MaxYear {
		return 0, false
	}
	return year, true
}

// parsePeriod reads the :year and :month path params. ok is false once the
// validation response has been written.
func parsePeriod(c echo.Context) (year int, month time.Month, ok bool, err error) {
	year, valid := parseYear(c)
	if !valid {
		return 0, 0, false, NewValidationError(c, "Invalid year", []ValidationError{
			{Field: "year", Message: "Year must be between 2000 and 2100"},
		})
	}

	monthNum, convErr := strconv.Atoi(c.Param("month"))
	if convErr != nil || monthNum < 1 || monthNum > 12 {
		return 0, 0, false, NewValidationError(c, "Invalid month", []ValidationError{
			{Field: "month", Message: "Month must be between 1 and 12"},
		})
	}
	return year, time.Month(monthNum), true, nil
}
