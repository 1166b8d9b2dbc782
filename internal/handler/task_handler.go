package handler

import (
	"net/http"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// TaskRequest represents the create and update task request body
type TaskRequest struct {
	Name            string              `json:"name"`
	Priority        string              `json:"priority"`
	Status          string              `json:"status"`
	PlanningStart   string              `json:"createdAt"`
	PlanningEnd     string              `json:"perencanaanEnd"`
	ExecutionStart  string              `json:"pelaksanaanStart"`
	Deadline        string              `json:"deadline"`
	ReportingStart  string              `json:"pelaporanStart"`
	ReportingEnd    string              `json:"pelaporanEnd"`
	PenanggungJawab string              `json:"penanggungJawab"`
	Kepanitiaan     *domain.Kepanitiaan `json:"kepanitiaan"`
	Tempat          string              `json:"tempat"`
	SuratTugas      string              `json:"suratTugas"`
}

func (r TaskRequest) toInput() domain.TaskInput {
	return domain.TaskInput{
		Name:            r.Name,
		Priority:        domain.Priority(r.Priority),
		Status:          domain.Status(r.Status),
		PlanningStart:   r.PlanningStart,
		PlanningEnd:     r.PlanningEnd,
		ExecutionStart:  r.ExecutionStart,
		Deadline:        r.Deadline,
		ReportingStart:  r.ReportingStart,
		ReportingEnd:    r.ReportingEnd,
		PenanggungJawab: r.PenanggungJawab,
		Kepanitiaan:     r.Kepanitiaan,
		Tempat:          r.Tempat,
		SuratTugas:      r.SuratTugas,
	}
}

// ListTasks handles GET /api/v1/tasks/:year/:month
func (h *TaskHandler) ListTasks(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	list, err := h.taskService.List(c.Request().Context(), year, month)
	if err != nil {
		return respondError(c, err, "load tasks")
	}
	return c.JSON(http.StatusOK, list)
}

// CreateTask handles POST /api/v1/tasks/:year/:month
func (h *TaskHandler) CreateTask(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	task, err := h.taskService.Create(c.Request().Context(), year, month, req.toInput())
	if err != nil {
		return respondError(c, err, "save task")
	}

	log.Info().Int("year", year).Int("month", int(month)).Str("task_id", task.ID).Str("name", task.Name).Msg("Task created")
	return c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/v1/tasks/:year/:month/:id
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	task, err := h.taskService.Update(c.Request().Context(), year, month, c.Param("id"), req.toInput())
	if err != nil {
		return respondError(c, err, "save task")
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/v1/tasks/:year/:month/:id
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	id := c.Param("id")
	if err := h.taskService.Delete(c.Request().Context(), year, month, id); err != nil {
		return respondError(c, err, "delete task")
	}

	log.Info().Int("year", year).Int("month", int(month)).Str("task_id", id).Msg("Task deleted")
	return c.NoContent(http.StatusNoContent)
}

// ToggleTask handles PATCH /api/v1/tasks/:year/:month/:id/toggle
func (h *TaskHandler) ToggleTask(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	task, err := h.taskService.ToggleCompletion(c.Request().Context(), year, month, c.Param("id"))
	if err != nil {
		return respondError(c, err, "save task")
	}
	return c.JSON(http.StatusOK, task)
}

// GetStatusSummary handles GET /api/v1/tasks/:year/:month/status-summary
func (h *TaskHandler) GetStatusSummary(c echo.Context) error {
	year, month, ok, err := parsePeriod(c)
	if !ok {
		return err
	}

	summary, err := h.taskService.StatusSummary(c.Request().Context(), year, month)
	if err != nil {
		return respondError(c, err, "load status summary")
	}
	return c.JSON(http.StatusOK, summary)
}
