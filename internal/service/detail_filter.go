package service

import (
	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// FilterDetails returns the details matching filter, preserving order.
// The input slice is never modified.
func FilterDetails(details []domain.DetailItem, filter domain.DetailFilter) []domain.DetailItem {
	filtered := make([]domain.DetailItem, 0, len(details))
	for _, d := range details {
		if filter.Matches(d) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// ApplyFilter builds the chart view of rows: each row keeps only matching details and its
// totals, variance and label are recomputed from them. Task count is left as stored.
func ApplyFilter(rows []domain.SummaryRow, filter domain.DetailFilter) []domain.SummaryRow {
	out := make([]domain.SummaryRow, 0, len(rows))
	for _, row := range rows {
		details := FilterDetails(row.Details, filter)
		totalBudget := decimal.Zero
		totalExpense := decimal.Zero
		for _, d := range details {
			totalBudget = totalBudget.Add(d.TotalBudget())
			totalExpense = totalExpense.Add(d.TotalExpense())
		}
		variance := totalBudget.Sub(totalExpense)

		row.TotalBudget = totalBudget
		row.TotalExpense = totalExpense
		row.Variance = variance
		row.Label = domain.LabelFor(variance)
		row.Details = details
		out = append(out, row)
	}
	return out
}

// SelectMonth keeps only the row of the given month; month 0 keeps all rows
func SelectMonth(rows []domain.SummaryRow, month int) []domain.SummaryRow {
	if month == 0 {
		return rows
	}
	for _, row := range rows {
		if row.MonthNumber == month {
			return []domain.SummaryRow{row}
		}
	}
	return []domain.SummaryRow{}
}

// SumTotals returns the grand totals of rows
func SumTotals(rows []domain.SummaryRow) domain.SummaryTotals {
	totals := domain.SummaryTotals{
		TotalBudget:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Variance:     decimal.Zero,
	}
	for _, row := range rows {
		totals.TaskCount += row.TaskCount
		totals.TotalBudget = totals.TotalBudget.Add(row.TotalBudget)
		totals.TotalExpense = totals.TotalExpense.Add(row.TotalExpense)
		totals.Variance = totals.Variance.Add(row.Variance)
	}
	return totals
}
