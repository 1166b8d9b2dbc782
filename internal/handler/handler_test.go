package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/config"
	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/repository/storage"
	"github.com/adifathi/planner/planner-backend/internal/service"
	"github.com/adifathi/planner/planner-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type testServer struct {
	e           *echo.Echo
	store       *testutil.MockRecordStore
	attachments *testutil.MockAttachmentRepository
}

// newTestServer wires every handler against an in-memory record store.
// Attachments go to object storage only when withStorage is set.
func newTestServer(withStorage bool, exportMiddleware ...echo.MiddlewareFunc) *testServer {
	store := testutil.NewMockRecordStore()
	ts := &testServer{e: echo.New(), store: store}

	var repo storage.AttachmentRepository
	if withStorage {
		ts.attachments = testutil.NewMockAttachmentRepository()
		repo = ts.attachments
	}

	attachmentService := service.NewAttachmentService(store, repo)
	dashboardService := service.NewDashboardService(store)
	exportService := service.NewExportService(dashboardService, config.DefaultReportProfile(), time.UTC)

	RegisterRoutes(ts.e,
		NewTaskHandler(service.NewTaskService(store)),
		NewBudgetHandler(service.NewBudgetService(store), attachmentService),
		NewExpenseHandler(service.NewExpenseService(store), attachmentService),
		NewDashboardHandler(dashboardService, exportService),
		exportMiddleware...,
	)
	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) upload(path, filename string, data []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, _ := w.CreateFormFile("file", filename)
		part.Write(data)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) addPelatihan() {
	ts.store.AddTask(2025, time.September, &domain.Task{
		ID:          "T1",
		Name:        "Pelatihan",
		Status:      domain.StatusInProgress,
		Priority:    domain.PriorityHigh,
		Kepanitiaan: &domain.Kepanitiaan{},
	})
	ts.store.AddBudgetItem(2025, time.September, &domain.BudgetItem{
		ID:              "T1",
		TaskName:        "Pelatihan",
		ActivityBudget:  decimal.NewFromInt(1000000),
		TransportBudget: decimal.NewFromInt(200000),
	})
	ts.store.AddExpenseItem(2025, time.September, &domain.ExpenseItem{
		ID:               "T1",
		TaskName:         "Pelatihan",
		ActivityExpense:  decimal.NewFromInt(1500000),
		TransportExpense: decimal.NewFromInt(200000),
	})
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem details: %v", err)
	}
	return problem
}

func expectValidationField(t *testing.T, rec *httptest.ResponseRecorder, field string) {
	t.Helper()
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
	problem := decodeProblem(t, rec)
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected validation problem type, got %s", problem.Type)
	}
	for _, e := range problem.Errors {
		if e.Field == field {
			return
		}
	}
	t.Errorf("Expected validation error on field %q, got %+v", field, problem.Errors)
}
