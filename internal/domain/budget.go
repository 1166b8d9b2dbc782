package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetItem is the planned allocation (Rencana Anggaran) of one task.
// ID is the id of the linked task.
type BudgetItem struct {
	ID              string          `json:"id"`
	TaskName        string          `json:"taskName"`
	ActivityBudget  decimal.Decimal `json:"anggaranKegiatan"`
	TransportBudget decimal.Decimal `json:"anggaranTransport"`
	CommitteeBudget decimal.Decimal `json:"anggaranPanitia"`
	FileRAB         string          `json:"fileRAB,omitempty"`
}

// Total returns the sum of the three budget categories
func (b *BudgetItem) Total() decimal.Decimal {
	return b.ActivityBudget.Add(b.TransportBudget).Add(b.CommitteeBudget)
}

// IsBudgeted reports whether any category has a non-zero allocation
func (b *BudgetItem) IsBudgeted() bool {
	return b.ActivityBudget.IsPositive() || b.TransportBudget.IsPositive() || b.CommitteeBudget.IsPositive()
}

// NewBudgetItem returns a zeroed budget item for a task
func NewBudgetItem(task *Task) *BudgetItem {
	return &BudgetItem{
		ID:              task.ID,
		TaskName:        task.Name,
		ActivityBudget:  decimal.Zero,
		TransportBudget: decimal.Zero,
		CommitteeBudget: decimal.Zero,
	}
}

// CategoryAmounts carries the three category amounts of a budget or expense update
type CategoryAmounts struct {
	Activity  decimal.Decimal
	Transport decimal.Decimal
	Committee decimal.Decimal
}

// Validate checks every amount is a non-negative whole number
func (a CategoryAmounts) Validate() error {
	for _, amount := range []decimal.Decimal{a.Activity, a.Transport, a.Committee} {
		if err := ValidateAmount(amount); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAmount checks amount is a non-negative whole number of the smallest currency unit
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() || !amount.Equal(amount.Truncate(0)) {
		return ErrInvalidAmount
	}
	return nil
}

// BudgetRepository persists the budget collection of one month
type BudgetRepository interface {
	LoadBudget(ctx context.Context, year int, month time.Month) []*BudgetItem
	ReadBudget(ctx context.Context, year int, month time.Month) ([]*BudgetItem, error)
	SaveBudget(ctx context.Context, year int, month time.Month, items []*BudgetItem) error
}
