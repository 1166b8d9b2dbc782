package service

import (
	"context"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// BudgetPlan is the budget view of one month: one item per task
type BudgetPlan struct {
	Items    []*domain.BudgetItem `json:"items"`
	Total    decimal.Decimal      `json:"total"`
	Progress int                  `json:"progress"`
}

// BudgetService handles budget planning (Rencana Anggaran)
type BudgetService struct {
	store domain.RecordStore
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(store domain.RecordStore) *BudgetService {
	return &BudgetService{store: store}
}

// GetPlan lists one budget item per task of the month in task order. Tasks without a
// stored item get a zeroed one; items of deleted tasks are left out.
// Progress is the share of tasks with any non-zero category.
func (s *BudgetService) GetPlan(ctx context.Context, year int, month time.Month) (*BudgetPlan, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	tasks := s.store.LoadTasks(ctx, year, month)
	items := syncBudgetItems(tasks, s.store.LoadBudget(ctx, year, month))

	plan := &BudgetPlan{Items: items, Total: decimal.Zero}
	budgeted := 0
	for _, item := range items {
		plan.Total = plan.Total.Add(item.Total())
		if item.IsBudgeted() {
			budgeted++
		}
	}
	plan.Progress = percentage(budgeted, len(tasks))
	return plan, nil
}

// UpdateAmounts sets the three category amounts of a task's budget item,
// creating the item if the task has none yet.
func (s *BudgetService) UpdateAmounts(ctx context.Context, year int, month time.Month, id string, amounts domain.CategoryAmounts) (*domain.BudgetItem, error) {
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
		return nil, domain.ErrBudgetItemNotFound
	}

	items, err := s.store.ReadBudget(ctx, year, month)
	if err != nil {
		return nil, err
	}
	item := findBudgetItem(items, id)
	if item == nil {
		item = domain.NewBudgetItem(task)
		items = append(items, item)
	}
	item.TaskName = task.Name
	item.ActivityBudget = amounts.Activity
	item.TransportBudget = amounts.Transport
	item.CommitteeBudget = amounts.Committee

	if err := s.store.SaveBudget(ctx, year, month, items); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the stored budget item of a task
func (s *BudgetService) Delete(ctx context.Context, year int, month time.Month, id string) error {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return err
	}

	items, err := s.store.ReadBudget(ctx, year, month)
	if err != nil {
		return err
	}
	kept := withoutBudgetItem(items, id)
	if len(kept) == len(items) {
		return domain.ErrBudgetItemNotFound
	}
	return s.store.SaveBudget(ctx, year, month, kept)
}

func syncBudgetItems(tasks []*domain.Task, stored []*domain.BudgetItem) []*domain.BudgetItem {
	byID := make(map[string]*domain.BudgetItem, len(stored))
	for _, item := range stored {
		if _, seen := byID[item.ID]; !seen {
			byID[item.ID] = item
		}
	}

	items := make([]*domain.BudgetItem, 0, len(tasks))
	for _, task := range tasks {
		item, ok := byID[task.ID]
		if !ok {
			item = domain.NewBudgetItem(task)
		}
		item.TaskName = task.Name
		items = append(items, item)
	}
	return items
}

func findBudgetItem(items []*domain.BudgetItem, id string) *domain.BudgetItem {
	for _, item := range items {
		if item.ID == id {
			return item
		}
	}
	return nil
}
