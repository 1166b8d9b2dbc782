package domain

import "errors"

// Domain errors
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrTaskNotFound        = errors.New("task not found")
	ErrBudgetItemNotFound  = errors.New("budget item not found")
	ErrExpenseItemNotFound = errors.New("expense item not found")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrInvalidAmount       = errors.New("amount must be a non-negative whole number")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidPeriod       = errors.New("invalid year or month")

	// ErrStorageWrite wraps failures of the underlying key-value store on save.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrStorageRead is returned by the Read* methods when a collection cannot be read
	// or decoded. The Load* methods never return it; they degrade to empty collections.
	ErrStorageRead = errors.New("storage read failed")
)

// Validation constants
const (
	MaxTaskNameLength = 255
	MinYear           = 2000
	MaxYear           = 2100
)
