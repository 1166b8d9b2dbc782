package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/repository/records"
	"github.com/adifathi/planner/planner-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func pelatihanTask() *domain.Task {
	return &domain.Task{
		ID:          "T1",
		Name:        "Pelatihan",
		Status:      domain.StatusInProgress,
		Priority:    domain.PriorityHigh,
		Kepanitiaan: &domain.Kepanitiaan{},
	}
}

func pelatihanBudget() *domain.BudgetItem {
	return &domain.BudgetItem{
		ID:              "T1",
		TaskName:        "Pelatihan",
		ActivityBudget:  dec(1000000),
		TransportBudget: dec(200000),
		CommitteeBudget: dec(0),
	}
}

func expenseItem(id string, activity, transport, committee int64) *domain.ExpenseItem {
	return &domain.ExpenseItem{
		ID:               id,
		ActivityExpense:  dec(activity),
		TransportExpense: dec(transport),
		CommitteeExpense: dec(committee),
	}
}

func budgetItem(id string, activity, transport, committee int64) *domain.BudgetItem {
	return &domain.BudgetItem{
		ID:              id,
		ActivityBudget:  dec(activity),
		TransportBudget: dec(transport),
		CommitteeBudget: dec(committee),
	}
}

var errConnectionReset = errors.New("connection reset")

// seededKVStore returns a record store over a mock key-value store holding two tasks in
// September 2025, each with a budget item, and one expense item for T1
func seededKVStore(t *testing.T) (*testutil.MockKeyValueStore, *records.Store) {
	t.Helper()
	kv := testutil.NewMockKeyValueStore()
	store := records.NewStore(kv)
	ctx := context.Background()

	tasks := []*domain.Task{pelatihanTask(), {ID: "T2", Name: "Rapat", Kepanitiaan: &domain.Kepanitiaan{}}}
	require.NoError(t, store.SaveTasks(ctx, 2025, time.September, tasks))
	require.NoError(t, store.SaveBudget(ctx, 2025, time.September, []*domain.BudgetItem{pelatihanBudget(), budgetItem("T2", 300000, 0, 0)}))
	require.NoError(t, store.SaveExpenses(ctx, 2025, time.September, []*domain.ExpenseItem{expenseItem("T1", 900000, 0, 0)}))
	return kv, store
}
