package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TaskView is a task together with its days remaining until deadline
type TaskView struct {
	*domain.Task
	DaysRemaining int `json:"daysRemaining"`
}

// TaskList is the task listing of one month
type TaskList struct {
	Tasks     []TaskView `json:"tasks"`
	Total     int        `json:"total"`
	Completed int        `json:"completed"`
	Progress  int        `json:"progress"`
}

// StatusSummary counts the tasks of one month per status
type StatusSummary struct {
	Total        int `json:"total"`
	Selesai      int `json:"selesai"`
	InProgress   int `json:"inProgress"`
	NeedApproval int `json:"needApproval"`
	Pending      int `json:"pending"`
}

// TaskService handles task business logic
type TaskService struct {
	store domain.RecordStore
	now   func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(store domain.RecordStore) *TaskService {
	return &TaskService{store: store, now: time.Now}
}

// List returns the tasks of a month with completion progress
func (s *TaskService) List(ctx context.Context, year int, month time.Month) (*TaskList, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	tasks := s.store.LoadTasks(ctx, year, month)
	now := s.now()
	list := &TaskList{Tasks: make([]TaskView, 0, len(tasks)), Total: len(tasks)}
	for _, task := range tasks {
		if task.Completed {
			list.Completed++
		}
		list.Tasks = append(list.Tasks, TaskView{Task: task, DaysRemaining: task.DaysRemaining(now)})
	}
	list.Progress = percentage(list.Completed, list.Total)
	return list, nil
}

// Create validates input and appends a new task to the month
func (s *TaskService) Create(ctx context.Context, year int, month time.Month, input domain.TaskInput) (*domain.Task, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	input, err := normalizeTaskInput(input)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		ID:        uuid.New().String(),
		Completed: false,
		UpdatedAt: s.now().UTC().Format(time.RFC3339),
	}
	applyTaskInput(task, input)

	tasks, err := s.store.ReadTasks(ctx, year, month)
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, task)
	if err := s.store.SaveTasks(ctx, year, month, tasks); err != nil {
		return nil, err
	}
	return task, nil
}

// Update replaces the editable fields of a task
func (s *TaskService) Update(ctx context.Context, year int, month time.Month, id string, input domain.TaskInput) (*domain.Task, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	input, err := normalizeTaskInput(input)
	if err != nil {
		return nil, err
	}

	tasks, err := s.store.ReadTasks(ctx, year, month)
	if err != nil {
		return nil, err
	}
	task := findTask(tasks, id)
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	applyTaskInput(task, input)
	task.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	if err := s.store.SaveTasks(ctx, year, month, tasks); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task and the budget and expense items linked to it in the same month
func (s *TaskService) Delete(ctx context.Context, year int, month time.Month, id string) error {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return err
	}

	tasks, err := s.store.ReadTasks(ctx, year, month)
	if err != nil {
		return err
	}
	remaining := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID != id {
			remaining = append(remaining, task)
		}
	}
	if len(remaining) == len(tasks) {
		return domain.ErrTaskNotFound
	}
	if err := s.store.SaveTasks(ctx, year, month, remaining); err != nil {
		return err
	}

	// The task is gone either way; leftover items are picked up by the prune job
	if budget, err := s.store.ReadBudget(ctx, year, month); err != nil {
		log.Warn().Err(err).Str("task_id", id).Msg("Skipping budget prune of deleted task")
	} else if kept := withoutBudgetItem(budget, id); len(kept) != len(budget) {
		if err := s.store.SaveBudget(ctx, year, month, kept); err != nil {
			log.Warn().Err(err).Str("task_id", id).Msg("Failed to prune budget item of deleted task")
		}
	}
	if expenses, err := s.store.ReadExpenses(ctx, year, month); err != nil {
		log.Warn().Err(err).Str("task_id", id).Msg("Skipping expense prune of deleted task")
	} else if kept := withoutExpenseItem(expenses, id); len(kept) != len(expenses) {
		if err := s.store.SaveExpenses(ctx, year, month, kept); err != nil {
			log.Warn().Err(err).Str("task_id", id).Msg("Failed to prune expense item of deleted task")
		}
	}
	return nil
}

// ToggleCompletion flips the completed flag. Completing sets the status to Selesai,
// reopening sets it back to Pending.
func (s *TaskService) ToggleCompletion(ctx context.Context, year int, month time.Month, id string) (*domain.Task, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	tasks, err := s.store.ReadTasks(ctx, year, month)
	if err != nil {
		return nil, err
	}
	task := findTask(tasks, id)
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	task.Completed = !task.Completed
	if task.Completed {
		task.Status = domain.StatusSelesai
	} else {
		task.Status = domain.StatusPending
	}
	task.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	if err := s.store.SaveTasks(ctx, year, month, tasks); err != nil {
		return nil, err
	}
	return task, nil
}

// StatusSummary counts a month's tasks per status. A completed task counts as Selesai
// whatever its stored status.
func (s *TaskService) StatusSummary(ctx context.Context, year int, month time.Month) (*StatusSummary, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	tasks := s.store.LoadTasks(ctx, year, month)
	summary := &StatusSummary{Total: len(tasks)}
	for _, task := range tasks {
		switch {
		case task.Completed || task.Status == domain.StatusSelesai:
			summary.Selesai++
		case task.Status == domain.StatusInProgress:
			summary.InProgress++
		case task.Status == domain.StatusNeedApproval:
			summary.NeedApproval++
		case task.Status == domain.StatusPending:
			summary.Pending++
		}
	}
	return summary, nil
}

func normalizeTaskInput(input domain.TaskInput) (domain.TaskInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return input, domain.ErrNameRequired
	}
	if len(input.Name) > domain.MaxTaskNameLength {
		return input, domain.ErrNameTooLong
	}

	if input.Priority == "" {
		input.Priority = domain.PriorityMedium
	}
	if !input.Priority.IsValid() {
		return input, domain.ErrInvalidPriority
	}
	if input.Status == "" {
		input.Status = domain.StatusPending
	}
	if !input.Status.IsValid() {
		return input, domain.ErrInvalidStatus
	}

	for _, date := range []string{input.PlanningStart, input.PlanningEnd, input.ExecutionStart, input.Deadline, input.ReportingStart, input.ReportingEnd} {
		if date == "" {
			continue
		}
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			return input, domain.ErrInvalidDate
		}
	}

	if input.Kepanitiaan == nil {
		input.Kepanitiaan = &domain.Kepanitiaan{}
	}
	return input, nil
}

func applyTaskInput(task *domain.Task, input domain.TaskInput) {
	task.Name = input.Name
	task.Priority = input.Priority
	task.Status = input.Status
	task.PlanningStart = input.PlanningStart
	task.PlanningEnd = input.PlanningEnd
	task.ExecutionStart = input.ExecutionStart
	task.Deadline = input.Deadline
	task.ReportingStart = input.ReportingStart
	task.ReportingEnd = input.ReportingEnd
	task.PenanggungJawab = input.PenanggungJawab
	task.Kepanitiaan = input.Kepanitiaan
	task.Tempat = input.Tempat
	task.SuratTugas = input.SuratTugas
}

func findTask(tasks []*domain.Task, id string) *domain.Task {
	for _, task := range tasks {
		if task.ID == id {
			return task
		}
	}
	return nil
}

func withoutBudgetItem(items []*domain.BudgetItem, id string) []*domain.BudgetItem {
	kept := make([]*domain.BudgetItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return kept
}

func withoutExpenseItem(items []*domain.ExpenseItem, id string) []*domain.ExpenseItem {
	kept := make([]*domain.ExpenseItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return kept
}

// percentage returns part/total as a rounded whole percent, 0 when total is 0
func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
