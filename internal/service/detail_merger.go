package service

import "github.com/adifathi/planner/planner-backend/internal/domain"

// MergeDetails left-joins the month's tasks against its budget and expense items by id.
// The result has one entry per task in task order; a task without a budget or expense
// item gets zero amounts for it. Items whose id matches no task are ignored.
func MergeDetails(tasks []*domain.Task, budget []*domain.BudgetItem, expenses []*domain.ExpenseItem) []domain.DetailItem {
	budgetByID := make(map[string]*domain.BudgetItem, len(budget))
	for _, item := range budget {
		if _, seen := budgetByID[item.ID]; !seen {
			budgetByID[item.ID] = item
		}
	}
	expenseByID := make(map[string]*domain.ExpenseItem, len(expenses))
	for _, item := range expenses {
		if _, seen := expenseByID[item.ID]; !seen {
			expenseByID[item.ID] = item
		}
	}

	details := make([]domain.DetailItem, 0, len(tasks))
	for _, task := range tasks {
		detail := domain.DetailItem{
			ID:       task.ID,
			TaskName: task.Name,
			Status:   task.Status,
			Priority: task.Priority,
		}
		if b, ok := budgetByID[task.ID]; ok {
			detail.ActivityBudget = b.ActivityBudget
			detail.TransportBudget = b.TransportBudget
			detail.CommitteeBudget = b.CommitteeBudget
		}
		if e, ok := expenseByID[task.ID]; ok {
			detail.ActivityExpense = e.ActivityExpense
			detail.TransportExpense = e.TransportExpense
			detail.CommitteeExpense = e.CommitteeExpense
		}
		details = append(details, detail)
	}
	return details
}
