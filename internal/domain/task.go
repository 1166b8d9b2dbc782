package domain

import (
	"context"
	"time"
)

// Priority is the urgency of a task
type Priority string

const (
	PriorityUrgent Priority = "Urgent"
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists every priority in display order
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// IsValid reports whether p is one of the known priorities
func (p Priority) IsValid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Status is the workflow state of a task
type Status string

const (
	StatusSelesai      Status = "Selesai"
	StatusInProgress   Status = "In Progress"
	StatusNeedApproval Status = "Need Approval"
	StatusPending      Status = "Pending"
)

// Statuses lists every status in display order
var Statuses = []Status{StatusSelesai, StatusInProgress, StatusNeedApproval, StatusPending}

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusSelesai, StatusInProgress, StatusNeedApproval, StatusPending:
		return true
	}
	return false
}

// DateLayout is the layout of every date-only task field
const DateLayout = "2006-01-02"

// Kepanitiaan holds the committee roles of a task
type Kepanitiaan struct {
	Ketua       string `json:"ketua"`
	Sekretaris  string `json:"sekretaris"`
	Bendahara   string `json:"bendahara"`
	Koordinator string `json:"koordinator"`
	Lainnya     string `json:"lainnya"`
}

// Task is a planned activity within a month collection.
// JSON names follow the persisted layout of the month collections.
type Task struct {
	ID              string       `json:"id"`
	Completed       bool         `json:"completed"`
	Name            string       `json:"name"`
	Priority        Priority     `json:"priority"`
	Status          Status       `json:"status"`
	PlanningStart   string       `json:"createdAt"`
	PlanningEnd     string       `json:"perencanaanEnd"`
	ExecutionStart  string       `json:"pelaksanaanStart"`
	Deadline        string       `json:"deadline"`
	ReportingStart  string       `json:"pelaporanStart"`
	ReportingEnd    string       `json:"pelaporanEnd"`
	UpdatedAt       string       `json:"updatedAt"`
	PenanggungJawab string       `json:"penanggungJawab"`
	Kepanitiaan     *Kepanitiaan `json:"kepanitiaan"`
	Tempat          string       `json:"tempat,omitempty"`
	SuratTugas      string       `json:"suratTugas,omitempty"`
}

// DaysRemaining returns the whole days from today until the task deadline.
// Past deadlines are negative; a task without deadline returns 0.
func (t *Task) DaysRemaining(now time.Time) int {
	if t.Deadline == "" {
		return 0
	}
	deadline, err := time.Parse(DateLayout, t.Deadline)
	if err != nil {
		return 0
	}
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(deadline.Sub(today).Hours() / 24)
}

// TaskInput carries the user-editable fields of a task
type TaskInput struct {
	Name            string
	Priority        Priority
	Status          Status
	PlanningStart   string
	PlanningEnd     string
	ExecutionStart  string
	Deadline        string
	ReportingStart  string
	ReportingEnd    string
	PenanggungJawab string
	Kepanitiaan     *Kepanitiaan
	Tempat          string
	SuratTugas      string
}

// TaskRepository persists the task collection of one month.
// Load degrades to an empty collection on any read failure and serves read-only views.
// Read surfaces the failure and must back every read-modify-write.
type TaskRepository interface {
	LoadTasks(ctx context.Context, year int, month time.Month) []*Task
	ReadTasks(ctx context.Context, year int, month time.Month) ([]*Task, error)
	SaveTasks(ctx context.Context, year int, month time.Month, tasks []*Task) error
}
