package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/service"
)

func TestCreateTask_Success(t *testing.T) {
	ts := newTestServer(false)

	rec := ts.do(http.MethodPost, "/api/v1/tasks/2025/9", `{"name": "  Pelatihan Guru ", "priority": "High", "deadline": "2025-09-30", "kepanitiaan": {"ketua": "Bu Sari"}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var task domain.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if task.ID == "" {
		t.Error("Expected a generated task id")
	}
	if task.Name != "Pelatihan Guru" {
		t.Errorf("Expected trimmed name 'Pelatihan Guru', got %q", task.Name)
	}
	if task.Status != domain.StatusPending {
		t.Errorf("Expected default status Pending, got %s", task.Status)
	}
	if task.Kepanitiaan == nil || task.Kepanitiaan.Ketua != "Bu Sari" {
		t.Errorf("Expected committee to be stored, got %+v", task.Kepanitiaan)
	}

	stored := ts.store.LoadTasks(context.Background(), 2025, time.September)
	if len(stored) != 1 || stored[0].ID != task.ID {
		t.Errorf("Expected the task in the September collection, got %+v", stored)
	}
}

func TestCreateTask_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		body  string
		field string
	}{
		{"missing name", "/api/v1/tasks/2025/9", `{"priority": "High"}`, "name"},
		{"invalid status", "/api/v1/tasks/2025/9", `{"name": "Rapat", "status": "Done"}`, "status"},
		{"invalid priority", "/api/v1/tasks/2025/9", `{"name": "Rapat", "priority": "Critical"}`, "priority"},
		{"invalid date", "/api/v1/tasks/2025/9", `{"name": "Rapat", "deadline": "30/09/2025"}`, "date"},
		{"month out of range", "/api/v1/tasks/2025/13", `{"name": "Rapat"}`, "month"},
		{"zero month", "/api/v1/tasks/2025/0", `{"name": "Rapat"}`, "month"},
		{"year out of range", "/api/v1/tasks/1999/9", `{"name": "Rapat"}`, "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(false)
			expectValidationField(t, ts.do(http.MethodPost, tt.path, tt.body), tt.field)
		})
	}
}

func TestCreateTask_InvalidBody(t *testing.T) {
	ts := newTestServer(false)

	rec := ts.do(http.MethodPost, "/api/v1/tasks/2025/9", `{"name": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateTask_StorageWriteFailure(t *testing.T) {
	ts := newTestServer(false)
	ts.store.SaveTasksErr = fmt.Errorf("%w: tasks_2025_8: quota exceeded", domain.ErrStorageWrite)

	rec := ts.do(http.MethodPost, "/api/v1/tasks/2025/9", `{"name": "Rapat"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if problem.Detail != "Failed to save task" {
		t.Errorf("Expected detail 'Failed to save task', got %q", problem.Detail)
	}
}

func TestCreateTask_StorageReadFailure(t *testing.T) {
	ts := newTestServer(false)
	ts.addPelatihan()
	ts.store.ReadTasksErr = fmt.Errorf("tasks_2025_8: connection reset")

	rec := ts.do(http.MethodPost, "/api/v1/tasks/2025/9", `{"name": "Rapat"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if problem.Detail != "Failed to save task" {
		t.Errorf("Expected detail 'Failed to save task', got %q", problem.Detail)
	}

	stored := ts.store.LoadTasks(context.Background(), 2025, time.September)
	if len(stored) != 1 || stored[0].ID != "T1" {
		t.Errorf("Expected the existing task to be kept, got %+v", stored)
	}
}

func TestListTasks(t *testing.T) {
	ts := newTestServer(false)
	ts.addPelatihan()
	ts.store.AddTask(2025, time.September, &domain.Task{ID: "T2", Name: "Ujian", Completed: true, Status: domain.StatusSelesai, Priority: domain.PriorityLow})

	rec := ts.do(http.MethodGet, "/api/v1/tasks/2025/9", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var list service.TaskList
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if list.Total != 2 || list.Completed != 1 || list.Progress != 50 {
		t.Errorf("Expected 2 tasks, 1 completed, 50%% progress, got %+v", list)
	}
	if len(list.Tasks) != 2 || list.Tasks[0].ID != "T1" {
		t.Errorf("Expected tasks in stored order, got %+v", list.Tasks)
	}
}

func TestListTasks_EmptyMonth(t *testing.T) {
	ts := newTestServer(false)

	rec := ts.do(http.MethodGet, "/api/v1/tasks/2031/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var list service.TaskList
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if list.Total != 0 || list.Tasks == nil {
		t.Errorf("Expected an empty, non-null task list, got %+v", list)
	}
}

func TestUpdateTask(t *testing.T) {
	ts := newTestServer(false)
	ts.addPelatihan()

	rec := ts.do(http.MethodPut, "/api/v1/tasks/2025/9/T1", `{"name": "Pelatihan Lanjutan", "status": "Need Approval", "priority": "Urgent"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	task := ts.store.LoadTasks(context.Background(), 2025, time.September)[0]
	if task.Name != "Pelatihan Lanjutan" || task.Status != domain.StatusNeedApproval || task.Priority != domain.PriorityUrgent {
		t.Errorf("Expected updated fields, got %+v", task)
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	ts := newTestServer(false)

	rec := ts.do(http.MethodPut, "/api/v1/tasks/2025/9/missing", `{"name": "Rapat"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteTask_PrunesLinkedItems(t *testing.T) {
	ts := newTestServer(false)
	ts.addPelatihan()

	rec := ts.do(http.MethodDelete, "/api/v1/tasks/2025/9/T1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rec.Code)
	}

	if n := len(ts.store.LoadTasks(context.Background(), 2025, time.September)); n != 0 {
		t.Errorf("Expected no tasks left, got %d", n)
	}
	if n := len(ts.store.LoadBudget(context.Background(), 2025, time.September)); n != 0 {
		t.Errorf("Expected budget item to be pruned, got %d items", n)
	}
	if n := len(ts.store.LoadExpenses(context.Background(), 2025, time.September)); n != 0 {
		t.Errorf("Expected expense item to be pruned, got %d items", n)
	}

	rec = ts.do(http.MethodDelete, "/api/v1/tasks/2025/9/T1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", rec.Code)
	}
}

func TestToggleTask(t *testing.T) {
	ts := newTestServer(false)
	ts.addPelatihan()

	rec := ts.do(http.MethodPatch, "/api/v1/tasks/2025/9/T1/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var task domain.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !task.Completed || task.Status != domain.StatusSelesai {
		t.Errorf("Expected completed task with status Selesai, got %+v", task)
	}

	rec = ts.do(http.MethodPatch, "/api/v1/tasks/2025/9/T1/toggle", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if task.Completed || task.Status != domain.StatusPending {
		t.Errorf("Expected reopened task with status Pending, got %+v", task)
	}
}

func TestGetStatusSummary(t *testing.T) {
	ts := newTestServer(false)
	ts.addPelatihan()
	ts.store.AddTask(2025, time.September, &domain.Task{ID: "T2", Name: "Ujian", Completed: true, Status: domain.StatusPending, Priority: domain.PriorityLow})

	rec := ts.do(http.MethodGet, "/api/v1/tasks/2025/9/status-summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var summary service.StatusSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if summary.Total != 2 || summary.Selesai != 1 || summary.InProgress != 1 || summary.Pending != 0 {
		t.Errorf("Unexpected summary %+v", summary)
	}
}
