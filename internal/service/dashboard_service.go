package service

import (
	"context"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/util"
	"github.com/shopspring/decimal"
)

// DashboardService reconciles planned budget against reported expense per month
type DashboardService struct {
	store domain.RecordStore
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(store domain.RecordStore) *DashboardService {
	return &DashboardService{store: store}
}

// GetYearSummary returns exactly twelve rows, January through December, for year.
// Months without data produce zero-filled rows. Everything is recomputed from the store
// on every call.
func (s *DashboardService) GetYearSummary(ctx context.Context, year int) []domain.SummaryRow {
	rows := make([]domain.SummaryRow, 0, 12)
	for month := time.January; month <= time.December; month++ {
		rows = append(rows, s.summarizeMonth(ctx, year, month))
	}
	return rows
}

func (s *DashboardService) summarizeMonth(ctx context.Context, year int, month time.Month) domain.SummaryRow {
	tasks := s.store.LoadTasks(ctx, year, month)
	budget := s.store.LoadBudget(ctx, year, month)
	expenses := s.store.LoadExpenses(ctx, year, month)

	totalBudget := decimal.Zero
	for _, item := range budget {
		totalBudget = totalBudget.Add(item.Total())
	}
	totalExpense := decimal.Zero
	for _, item := range expenses {
		totalExpense = totalExpense.Add(item.Total())
	}
	variance := totalBudget.Sub(totalExpense)

	return domain.SummaryRow{
		Month:        util.MonthName(month),
		MonthNumber:  int(month),
		TaskCount:    len(tasks),
		TotalBudget:  totalBudget,
		TotalExpense: totalExpense,
		Variance:     variance,
		Label:        domain.LabelFor(variance),
		Details:      MergeDetails(tasks, budget, expenses),
	}
}

// DashboardView is the dashboard for one year: the report table, limited to the selected
// month, and the chart view with status/priority filters applied plus its narrative.
type DashboardView struct {
	Year      int                  `json:"year"`
	Month     int                  `json:"month,omitempty"`
	Filter    domain.DetailFilter  `json:"filter"`
	Report    []domain.SummaryRow  `json:"report"`
	Totals    domain.SummaryTotals `json:"totals"`
	Chart     []domain.SummaryRow  `json:"chart"`
	Narrative string               `json:"narrative"`
}

// GetDashboard builds the dashboard view. month is 1-12, or 0 for the whole year.
func (s *DashboardService) GetDashboard(ctx context.Context, year, month int, filter domain.DetailFilter) *DashboardView {
	rows := s.GetYearSummary(ctx, year)
	report := SelectMonth(rows, month)
	chart := ApplyFilter(SelectMonth(rows, month), filter)

	view := &DashboardView{
		Year:   year,
		Month:  month,
		Filter: filter,
		Report: report,
		Totals: SumTotals(report),
		Chart:  chart,
	}
	if month == 0 {
		view.Narrative = AnnualNarrative(year, chart)
	} else {
		var details []domain.DetailItem
		if len(chart) > 0 {
			details = chart[0].Details
		}
		view.Narrative = MonthlyNarrative(util.MonthName(time.Month(month)), details)
	}
	return view
}
