package util

import (
	"strconv"
	"strings"
	"time"
)

var monthNames = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthName returns the Indonesian name of a month, or "" when out of range
func MonthName(month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	return monthNames[month-1]
}

// ParseMonth accepts a month number (1-12) or an Indonesian month name, case-insensitive
func ParseMonth(s string) (time.Month, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, false
		}
		return time.Month(n), true
	}
	for i, name := range monthNames {
		if strings.EqualFold(name, s) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// FormatPrintDate formats a date the way the printed reports sign off, e.g. "15 Oktober 2026"
func FormatPrintDate(t time.Time) string {
	return strconv.Itoa(t.Day()) + " " + MonthName(t.Month()) + " " + strconv.Itoa(t.Year())
}
