package service

import (
	"context"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpenseReport is the expense view of one month: one item per task
type ExpenseReport struct {
	Items    []*domain.ExpenseItem `json:"items"`
	Total    decimal.Decimal       `json:"total"`
	Progress int                   `json:"progress"`
}

// ExpenseService handles expense reporting (Laporan Biaya)
type ExpenseService struct {
	store domain.RecordStore
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(store domain.RecordStore) *ExpenseService {
	return &ExpenseService{store: store}
}

// GetReport lists one expense item per task of the month, zeroed where nothing is reported.
// Progress is the share of tasks with any reported spend.
func (s *ExpenseService) GetReport(ctx context.Context, year int, month time.Month) (*ExpenseReport, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	tasks := s.store.LoadTasks(ctx, year, month)
	items := syncExpenseItems(tasks, s.store.LoadExpenses(ctx, year, month))

	report := &ExpenseReport{Items: items, Total: decimal.Zero}
	reported := 0
	for _, item := range items {
		report.Total = report.Total.Add(item.Total())
		if item.IsReported() {
			reported++
		}
	}
	report.Progress = percentage(reported, len(tasks))
	return report, nil
}

// UpdateAmounts sets the three category amounts of a task's expense item,
// creating the item if the task has none yet.
func (s *ExpenseService) UpdateAmounts(ctx context.Context, year int, month time.Month, id string, amounts domain.CategoryAmounts) (*domain.ExpenseItem, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	if err := amounts.Validate(); err != nil {
		return nil, err
	}

	tasks, err := s.store.ReadTasks(ctx, year, month)
	if err != nil {
		return nil, err
	}
	task := findTask(tasks, id)
	if task == nil {
		return nil, domain.ErrExpenseItemNotFound
	}

	items, err := s.store.ReadExpenses(ctx, year, month)
	if err != nil {
		return nil, err
	}
	item := findExpenseItem(items, id)
	if item == nil {
		item = domain.NewExpenseItem(task)
		items = append(items, item)
	}
	item.TaskName = task.Name
	item.ActivityExpense = amounts.Activity
	item.TransportExpense = amounts.Transport
	item.CommitteeExpense = amounts.Committee

	if err := s.store.SaveExpenses(ctx, year, month, items); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the stored expense item of a task
func (s *ExpenseService) Delete(ctx context.Context, year int, month time.Month, id string) error {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return err
	}

	items, err := s.store.ReadExpenses(ctx, year, month)
	if err != nil {
		return err
	}
	kept := withoutExpenseItem(items, id)
	if len(kept) == len(items) {
		return domain.ErrExpenseItemNotFound
	}
	return s.store.SaveExpenses(ctx, year, month, kept)
}

func syncExpenseItems(tasks []*domain.Task, stored []*domain.ExpenseItem) []*domain.ExpenseItem {
	byID := make(map[string]*domain.ExpenseItem, len(stored))
	for _, item := range stored {
		if _, seen := byID[item.ID]; !seen {
			byID[item.ID] = item
		}
	}

	items := make([]*domain.ExpenseItem, 0, len(tasks))
	for _, task := range tasks {
		item, ok := byID[task.ID]
		if !ok {
			item = domain.NewExpenseItem(task)
		}
		item.TaskName = task.Name
		items = append(items, item)
	}
	return items
}

func findExpenseItem(items []*domain.ExpenseItem, id string) *domain.ExpenseItem {
	for _, item := range items {
		if item.ID == id {
			return item
		}
	}
	return nil
}
