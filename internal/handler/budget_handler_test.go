package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/service"
	"github.com/shopspring/decimal"
)

func TestGetBudgetPlan_SyncedWithTasks(t *testing.T) {
	ts := newTestServer(false)
	ts.addPelatihan()
	ts.store.AddTask(2025, time.September, &domain.Task{ID: "T2", Name: "Ujian", Status: domain.StatusPending, Priority: domain.PriorityLow})
	ts.store.AddBudgetItem(2025, time.September, &domain.BudgetItem{ID: "ORPHAN", ActivityBudget: decimal.NewFromInt(99)})

	rec := ts.do(http.MethodGet, "/api/v1/budgets/2025/9", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var plan service.BudgetPlan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(plan.Items) != 2 {
		t.Fatalf("Expected one item per task, got %d", len(plan.Items))
	}
	if plan.Items[0].ID != "T1" || plan.Items[1].ID != "T2" {
		t.Errorf("Expected items in task order, got %s, %s", plan.Items[0].ID, plan.Items[1].ID)
	}
	if !plan.Items[1].Total().IsZero() {
		t.Errorf("Expected a zeroed item for the unbudgeted task, got %s", plan.Items[1].Total())
	}
	if !plan.Total.Equal(decimal.NewFromInt(1200000)) {
		t.Errorf("Expected total 1200000, got %s", plan.Total)
	}
	if plan.Progress != 50 {
		t.Errorf("Expected progress 50, got %d", plan.Progress)
	}
}

func TestUpdateBudgetAmounts(t *testing.T) {
	ts := newTestServer(false)
	ts.addPelatihan()

	rec := ts.do(http.MethodPut, "/api/v1/budgets/2025/9/T1", `{"anggaranKegiatan": 750000, "anggaranTransport": "150000", "anggaranPanitia": 0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	item := ts.store.LoadBudget(context.Background(), 2025, time.September)[0]
	if !item.Total().Equal(decimal.NewFromInt(900000)) {
		t.Errorf("Expected total 900000, got %s", item.Total())
	}
}

func TestUpdateBudgetAmounts_Errors(t *testing.T) {
	ts := newTestServer(false)
	ts.addPelatihan()

	expectValidationField(t, ts.do(http.MethodPut, "/api/v1/budgets/2025/9/T1", `{"anggaranKegiatan": -5}`), "amount")
	expectValidationField(t, ts.do(http.MethodPut, "/api/v1/budgets/2025/9/T1", `{"anggaranKegiatan": 10.5}`), "amount")
	expectValidationField(t, ts.do(http.MethodPut, "/api/v1/budgets/2025/9/T1", `{"anggaranKegiatan": "lots"}`), "amount")

	rec := ts.do(http.MethodPut, "/api/v1/budgets/2025/9/missing", `{"anggaranKegiatan": 5}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for an unknown task, got %d", rec.Code)
	}
}

func TestDeleteBudgetItem(t *testing.T) {
	ts := newTestServer(false)
	ts.addPelatihan()

	if rec := ts.do(http.MethodDelete, "/api/v1/budgets/2025/9/T1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rec.Code)
	}
	if rec := ts.do(http.MethodDelete, "/api/v1/budgets/2025/9/T1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", rec.Code)
	}
}

func TestBudgetAttachment_WithoutStorage(t *testing.T) {
	ts := newTestServer(false)
	ts.addPelatihan()

	rec := ts.upload("/api/v1/budgets/2025/9/T1/attachment", "RAB Pelatihan.pdf", []byte("%PDF-1.4"))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	item := ts.store.LoadBudget(context.Background(), 2025, time.September)[0]
	if item.FileRAB != "RAB_Pelatihan.pdf" {
		t.Errorf("Expected the sanitized file name to be recorded, got %q", item.FileRAB)
	}

	rec = ts.do(http.MethodGet, "/api/v1/budgets/2025/9/T1/attachment", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 without object storage, got %d", rec.Code)
	}

	rec = ts.do(http.MethodDelete, "/api/v1/budgets/2025/9/T1/attachment", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if item := ts.store.LoadBudget(context.Background(), 2025, time.September)[0]; item.FileRAB != "" {
		t.Errorf("Expected the file to be cleared, got %q", item.FileRAB)
	}
}

func TestBudgetAttachment_WithStorage(t *testing.T) {
	ts := newTestServer(true)
	ts.addPelatihan()

	rec := ts.upload("/api/v1/budgets/2025/9/T1/attachment", "rab.pdf", []byte("%PDF-1.4"))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	item := ts.store.LoadBudget(context.Background(), 2025, time.September)[0]
	if !strings.HasPrefix(item.FileRAB, "attachments/rab/2025/09/T1/") {
		t.Errorf("Expected an object key under attachments/rab/2025/09/T1/, got %q", item.FileRAB)
	}
	if _, ok := ts.attachments.Objects[item.FileRAB]; !ok {
		t.Error("Expected the file to be uploaded")
	}

	rec = ts.do(http.MethodGet, "/api/v1/budgets/2025/9/T1/attachment", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var resp AttachmentURLResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !strings.HasPrefix(resp.URL, "https://attachments.test/attachments/rab/") || resp.ExpiresIn != 900 {
		t.Errorf("Unexpected download link %+v", resp)
	}
}

func TestBudgetAttachment_Errors(t *testing.T) {
	ts := newTestServer(false)
	ts.addPelatihan()

	expectValidationField(t, ts.upload("/api/v1/budgets/2025/9/T1/attachment", "", nil), "file")
	expectValidationField(t, ts.upload("/api/v1/budgets/2025/9/T1/attachment", "run.exe", []byte("MZ")), "file")

	rec := ts.upload("/api/v1/budgets/2025/9/missing/attachment", "rab.pdf", []byte("%PDF-1.4"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for an unknown task, got %d", rec.Code)
	}

	rec = ts.do(http.MethodGet, "/api/v1/budgets/2025/9/T1/attachment", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 when nothing is attached, got %d", rec.Code)
	}
}
