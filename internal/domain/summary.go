package domain

import "github.com/shopspring/decimal"

// VarianceLabel classifies planned minus spent
type VarianceLabel string

const (
	LabelSurplus  VarianceLabel = "surplus"
	LabelDeficit  VarianceLabel = "deficit"
	LabelOnBudget VarianceLabel = "on-budget"
)

// LabelFor returns the label for a variance
func LabelFor(variance decimal.Decimal) VarianceLabel {
	switch {
	case variance.IsPositive():
		return LabelSurplus
	case variance.IsNegative():
		return LabelDeficit
	default:
		return LabelOnBudget
	}
}

// Text returns the report wording of the label
func (l VarianceLabel) Text() string {
	switch l {
	case LabelSurplus:
		return "Sisa Anggaran"
	case LabelDeficit:
		return "Defisit Anggaran"
	default:
		return "Anggaran Sesuai"
	}
}

// DetailItem is one task merged with its budget and expense records
type DetailItem struct {
	ID               string          `json:"id"`
	TaskName         string          `json:"taskName"`
	Status           Status          `json:"status"`
	Priority         Priority        `json:"priority"`
	ActivityBudget   decimal.Decimal `json:"anggaranKegiatan"`
	TransportBudget  decimal.Decimal `json:"anggaranTransport"`
	CommitteeBudget  decimal.Decimal `json:"anggaranPanitia"`
	ActivityExpense  decimal.Decimal `json:"biayaKegiatan"`
	TransportExpense decimal.Decimal `json:"biayaTransport"`
	CommitteeExpense decimal.Decimal `json:"biayaPanitia"`
}

// TotalBudget returns the planned total of the task
func (d DetailItem) TotalBudget() decimal.Decimal {
	return d.ActivityBudget.Add(d.TransportBudget).Add(d.CommitteeBudget)
}

// TotalExpense returns the spent total of the task
func (d DetailItem) TotalExpense() decimal.Decimal {
	return d.ActivityExpense.Add(d.TransportExpense).Add(d.CommitteeExpense)
}

// Variance returns planned minus spent
func (d DetailItem) Variance() decimal.Decimal {
	return d.TotalBudget().Sub(d.TotalExpense())
}

// CategoryVariance is planned minus spent for a single category
type CategoryVariance struct {
	Category string
	Variance decimal.Decimal
}

// CategoryVariances returns the per-category variances in report order
func (d DetailItem) CategoryVariances() []CategoryVariance {
	return []CategoryVariance{
		{Category: "Kegiatan", Variance: d.ActivityBudget.Sub(d.ActivityExpense)},
		{Category: "Transport", Variance: d.TransportBudget.Sub(d.TransportExpense)},
		{Category: "Pelaksana", Variance: d.CommitteeBudget.Sub(d.CommitteeExpense)},
	}
}

// SummaryRow is the reconciliation of one month
type SummaryRow struct {
	Month        string          `json:"month"`
	MonthNumber  int             `json:"monthNumber"`
	TaskCount    int             `json:"taskCount"`
	TotalBudget  decimal.Decimal `json:"totalAnggaran"`
	TotalExpense decimal.Decimal `json:"totalBiaya"`
	Variance     decimal.Decimal `json:"selisih"`
	Label        VarianceLabel   `json:"keterangan"`
	Details      []DetailItem    `json:"details"`
}

// SummaryTotals are the grand totals over a set of summary rows
type SummaryTotals struct {
	TaskCount    int             `json:"taskCount"`
	TotalBudget  decimal.Decimal `json:"totalAnggaran"`
	TotalExpense decimal.Decimal `json:"totalBiaya"`
	Variance     decimal.Decimal `json:"selisih"`
}

// FilterAll matches every status or priority
const FilterAll = "All"

// DetailFilter selects detail items by status and priority.
// An empty value or FilterAll matches everything.
type DetailFilter struct {
	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`
}

// Matches reports whether a detail item passes both predicates
func (f DetailFilter) Matches(d DetailItem) bool {
	statusMatch := f.Status == "" || f.Status == FilterAll || d.Status == f.Status
	priorityMatch := f.Priority == "" || f.Priority == FilterAll || d.Priority == f.Priority
	return statusMatch && priorityMatch
}
