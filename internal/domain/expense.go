package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseItem is the reported spend (Laporan Biaya) of one task.
// ID is the id of the linked task; categories mirror BudgetItem.
type ExpenseItem struct {
	ID               string          `json:"id"`
	TaskName         string          `json:"taskName"`
	ActivityExpense  decimal.Decimal `json:"biayaKegiatan"`
	TransportExpense decimal.Decimal `json:"biayaTransport"`
	CommitteeExpense decimal.Decimal `json:"biayaPanitia"`
	FileBukti        string          `json:"fileBukti,omitempty"`
}

// Total returns the sum of the three expense categories
func (e *ExpenseItem) Total() decimal.Decimal {
	return e.ActivityExpense.Add(e.TransportExpense).Add(e.CommitteeExpense)
}

// IsReported reports whether any category has a non-zero expense
func (e *ExpenseItem) IsReported() bool {
	return e.ActivityExpense.IsPositive() || e.TransportExpense.IsPositive() || e.CommitteeExpense.IsPositive()
}

// NewExpenseItem returns a zeroed expense item for a task
func NewExpenseItem(task *Task) *ExpenseItem {
	return &ExpenseItem{
		ID:               task.ID,
		TaskName:         task.Name,
		ActivityExpense:  decimal.Zero,
		TransportExpense: decimal.Zero,
		CommitteeExpense: decimal.Zero,
	}
}

// ExpenseRepository persists the expense collection of one month
type ExpenseRepository interface {
	LoadExpenses(ctx context.Context, year int, month time.Month) []*ExpenseItem
	ReadExpenses(ctx context.Context, year int, month time.Month) ([]*ExpenseItem, error)
	SaveExpenses(ctx context.Context, year int, month time.Month, items []*ExpenseItem) error
}
