package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CollectionKind names one of the three per-month collections
type CollectionKind string

const (
	KindTasks    CollectionKind = "tasks"
	KindBudget   CollectionKind = "budget"
	KindExpenses CollectionKind = "expenses"
)

// CollectionKey returns the store key of a month collection, e.g. tasks_2025_8 for September 2025.
// The month segment is zero-based to stay compatible with data exported from the browser planner.
func CollectionKey(kind CollectionKind, year int, month time.Month) string {
	return fmt.Sprintf("%s_%d_%d", kind, year, int(month)-1)
}

// ParseCollectionKey is the inverse of CollectionKey
func ParseCollectionKey(key string) (CollectionKind, int, time.Month, error) {
	parts := strings.Split(key, "_")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("%w: malformed collection key %q", ErrInvalidInput, key)
	}
	kind := CollectionKind(parts[0])
	switch kind {
	case KindTasks, KindBudget, KindExpenses:
	default:
		return "", 0, 0, fmt.Errorf("%w: unknown collection kind %q", ErrInvalidInput, parts[0])
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: malformed year in %q", ErrInvalidInput, key)
	}
	monthIndex, err := strconv.Atoi(parts[2])
	if err != nil || monthIndex < 0 || monthIndex > 11 {
		return "", 0, 0, fmt.Errorf("%w: malformed month in %q", ErrInvalidInput, key)
	}
	return kind, year, time.Month(monthIndex + 1), nil
}

// KeyValueStore is the persistent string store the month collections live in.
// GetItem reports found=false for absent keys.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// RecordStore loads and saves the typed month collections
type RecordStore interface {
	TaskRepository
	BudgetRepository
	ExpenseRepository
}

// ValidatePeriod checks a year/month pair addressed by a caller
func ValidatePeriod(year int, month time.Month) error {
	if year < MinYear || year > MaxYear || month < time.January || month > time.December {
		return ErrInvalidPeriod
	}
	return nil
}

// Period addresses one month collection
type Period struct {
	Year  int
	Month time.Month
}

// PeriodLister enumerates the months a collection kind has data for
type PeriodLister interface {
	Periods(ctx context.Context, kind CollectionKind) ([]Period, error)
}
