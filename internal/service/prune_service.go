package service

import (
	"context"
	"fmt"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
)

// PrunableStore is a record store that can enumerate the months it holds
type PrunableStore interface {
	domain.RecordStore
	domain.PeriodLister
}

// PruneResult summarizes one pruning pass
type PruneResult struct {
	PeriodsScanned  int
	BudgetRemoved   int
	ExpensesRemoved int
	Errors          []error
}

// PruneService removes budget and expense items whose task no longer exists
type PruneService struct {
	store PrunableStore
}

// NewPruneService creates a new PruneService
func NewPruneService(store PrunableStore) *PruneService {
	return &PruneService{store: store}
}

// Prune scans every month holding budget or expense data. A month whose collections
// cannot be read is skipped, and it and any failed save are recorded in the result
// while the pass continues with the next month.
func (s *PruneService) Prune(ctx context.Context) (*PruneResult, error) {
	result := &PruneResult{}

	budgetPeriods, err := s.store.Periods(ctx, domain.KindBudget)
	if err != nil {
		return nil, fmt.Errorf("list budget periods: %w", err)
	}
	expensePeriods, err := s.store.Periods(ctx, domain.KindExpenses)
	if err != nil {
		return nil, fmt.Errorf("list expense periods: %w", err)
	}

	for _, p := range budgetPeriods {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.PeriodsScanned++
		removed, err := s.pruneBudget(ctx, p.Year, p.Month)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.BudgetRemoved += removed
	}

	for _, p := range expensePeriods {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.PeriodsScanned++
		removed, err := s.pruneExpenses(ctx, p.Year, p.Month)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.ExpensesRemoved += removed
	}

	return result, nil
}

func (s *PruneService) taskIDs(ctx context.Context, year int, month time.Month) (map[string]struct{}, error) {
	tasks, err := s.store.ReadTasks(ctx, year, month)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		ids[t.ID] = struct{}{}
	}
	return ids, nil
}

func (s *PruneService) pruneBudget(ctx context.Context, year int, month time.Month) (int, error) {
	ids, err := s.taskIDs(ctx, year, month)
	if err != nil {
		return 0, fmt.Errorf("prune budget %d-%02d: %w", year, int(month), err)
	}
	items, err := s.store.ReadBudget(ctx, year, month)
	if err != nil {
		return 0, fmt.Errorf("prune budget %d-%02d: %w", year, int(month), err)
	}

	kept := make([]*domain.BudgetItem, 0, len(items))
	for _, item := range items {
		if _, ok := ids[item.ID]; ok {
			kept = append(kept, item)
		}
	}
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.store.SaveBudget(ctx, year, month, kept); err != nil {
		return 0, fmt.Errorf("prune budget %d-%02d: %w", year, int(month), err)
	}
	return removed, nil
}

func (s *PruneService) pruneExpenses(ctx context.Context, year int, month time.Month) (int, error) {
	ids, err := s.taskIDs(ctx, year, month)
	if err != nil {
		return 0, fmt.Errorf("prune expenses %d-%02d: %w", year, int(month), err)
	}
	items, err := s.store.ReadExpenses(ctx, year, month)
	if err != nil {
		return 0, fmt.Errorf("prune expenses %d-%02d: %w", year, int(month), err)
	}

	kept := make([]*domain.ExpenseItem, 0, len(items))
	for _, item := range items {
		if _, ok := ids[item.ID]; ok {
			kept = append(kept, item)
		}
	}
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.store.SaveExpenses(ctx, year, month, kept); err != nil {
		return 0, fmt.Errorf("prune expenses %d-%02d: %w", year, int(month), err)
	}
	return removed, nil
}
