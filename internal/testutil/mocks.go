package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
)

// MockKeyValueStore is a mock implementation of domain.KeyValueStore
type MockKeyValueStore struct {
	mu        sync.Mutex
	Items     map[string]string
	GetErrors map[string]error
	SetErrors map[string]error
	KeysErr   error
}

// NewMockKeyValueStore creates a new MockKeyValueStore
func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{
		Items:     make(map[string]string),
		GetErrors: make(map[string]error),
		SetErrors: make(map[string]error),
	}
}

// GetItem returns the stored value or the configured error for key
func (m *MockKeyValueStore) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.GetErrors[key]; ok {
		return "", false, err
	}
	value, ok := m.Items[key]
	return value, ok, nil
}

// SetItem stores value unless an error is configured for key
func (m *MockKeyValueStore) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.SetErrors[key]; ok {
		return err
	}
	m.Items[key] = value
	return nil
}

// RemoveItem deletes key unless a SetErrors entry is configured for it
func (m *MockKeyValueStore) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.SetErrors[key]; ok {
		return err
	}
	delete(m.Items, key)
	return nil
}

// Keys returns the sorted keys with the given prefix
func (m *MockKeyValueStore) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.KeysErr != nil {
		return nil, m.KeysErr
	}
	var keys []string
	for key := range m.Items {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// MockRecordStore is a mock implementation of domain.RecordStore and domain.PeriodLister
type MockRecordStore struct {
	mu       sync.Mutex
	Tasks    map[domain.Period][]*domain.Task
	Budgets  map[domain.Period][]*domain.BudgetItem
	Expenses map[domain.Period][]*domain.ExpenseItem

	ReadTasksErr    error
	ReadBudgetErr   error
	ReadExpensesErr error
	SaveTasksErr    error
	SaveBudgetErr   error
	SaveExpensesErr error
	PeriodsErr      error
}

// NewMockRecordStore creates a new MockRecordStore
func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{
		Tasks:    make(map[domain.Period][]*domain.Task),
		Budgets:  make(map[domain.Period][]*domain.BudgetItem),
		Expenses: make(map[domain.Period][]*domain.ExpenseItem),
	}
}

func period(year int, month time.Month) domain.Period {
	return domain.Period{Year: year, Month: month}
}

// LoadTasks returns a copy of the month's task slice
func (m *MockRecordStore) LoadTasks(_ context.Context, year int, month time.Month) []*domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Task{}, m.Tasks[period(year, month)]...)
}

// ReadTasks returns the month's tasks, or ReadTasksErr wrapped in ErrStorageRead
func (m *MockRecordStore) ReadTasks(_ context.Context, year int, month time.Month) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadTasksErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageRead, m.ReadTasksErr)
	}
	return append([]*domain.Task{}, m.Tasks[period(year, month)]...), nil
}

// SaveTasks replaces the month's tasks
func (m *MockRecordStore) SaveTasks(_ context.Context, year int, month time.Month, tasks []*domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveTasksErr != nil {
		return m.SaveTasksErr
	}
	m.Tasks[period(year, month)] = append([]*domain.Task{}, tasks...)
	return nil
}

// LoadBudget returns a copy of the month's budget slice
func (m *MockRecordStore) LoadBudget(_ context.Context, year int, month time.Month) []*domain.BudgetItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.BudgetItem{}, m.Budgets[period(year, month)]...)
}

// ReadBudget returns the month's budget items, or ReadBudgetErr wrapped in ErrStorageRead
func (m *MockRecordStore) ReadBudget(_ context.Context, year int, month time.Month) ([]*domain.BudgetItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadBudgetErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageRead, m.ReadBudgetErr)
	}
	return append([]*domain.BudgetItem{}, m.Budgets[period(year, month)]...), nil
}

// SaveBudget replaces the month's budget items
func (m *MockRecordStore) SaveBudget(_ context.Context, year int, month time.Month, items []*domain.BudgetItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveBudgetErr != nil {
		return m.SaveBudgetErr
	}
	m.Budgets[period(year, month)] = append([]*domain.BudgetItem{}, items...)
	return nil
}

// LoadExpenses returns a copy of the month's expense slice
func (m *MockRecordStore) LoadExpenses(_ context.Context, year int, month time.Month) []*domain.ExpenseItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.ExpenseItem{}, m.Expenses[period(year, month)]...)
}

// ReadExpenses returns the month's expense items, or ReadExpensesErr wrapped in ErrStorageRead
func (m *MockRecordStore) ReadExpenses(_ context.Context, year int, month time.Month) ([]*domain.ExpenseItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadExpensesErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageRead, m.ReadExpensesErr)
	}
	return append([]*domain.ExpenseItem{}, m.Expenses[period(year, month)]...), nil
}

// SaveExpenses replaces the month's expense items
func (m *MockRecordStore) SaveExpenses(_ context.Context, year int, month time.Month, items []*domain.ExpenseItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveExpensesErr != nil {
		return m.SaveExpensesErr
	}
	m.Expenses[period(year, month)] = append([]*domain.ExpenseItem{}, items...)
	return nil
}

// Periods lists the months holding data of the given kind, oldest first
func (m *MockRecordStore) Periods(_ context.Context, kind domain.CollectionKind) ([]domain.Period, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PeriodsErr != nil {
		return nil, m.PeriodsErr
	}
	var periods []domain.Period
	switch kind {
	case domain.KindTasks:
		for p := range m.Tasks {
			periods = append(periods, p)
		}
	case domain.KindBudget:
		for p := range m.Budgets {
			periods = append(periods, p)
		}
	case domain.KindExpenses:
		for p := range m.Expenses {
			periods = append(periods, p)
		}
	}
	sort.Slice(periods, func(i, j int) bool {
		if periods[i].Year != periods[j].Year {
			return periods[i].Year < periods[j].Year
		}
		return periods[i].Month < periods[j].Month
	})
	return periods, nil
}

// AddTask appends a task to a month
func (m *MockRecordStore) AddTask(year int, month time.Month, task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[period(year, month)] = append(m.Tasks[period(year, month)], task)
}

// AddBudgetItem appends a budget item to a month
func (m *MockRecordStore) AddBudgetItem(year int, month time.Month, item *domain.BudgetItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Budgets[period(year, month)] = append(m.Budgets[period(year, month)], item)
}

// AddExpenseItem appends an expense item to a month
func (m *MockRecordStore) AddExpenseItem(year int, month time.Month, item *domain.ExpenseItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Expenses[period(year, month)] = append(m.Expenses[period(year, month)], item)
}

// MockAttachmentRepository is a mock implementation of storage.AttachmentRepository
type MockAttachmentRepository struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	Types     map[string]string
	UploadErr error
	DeleteErr error
}

// NewMockAttachmentRepository creates a new MockAttachmentRepository
func NewMockAttachmentRepository() *MockAttachmentRepository {
	return &MockAttachmentRepository{
		Objects: make(map[string][]byte),
		Types:   make(map[string]string),
	}
}

// Upload stores the object in memory and returns its path
func (m *MockAttachmentRepository) Upload(_ context.Context, objectPath string, data io.Reader, contentType string, _ int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, data); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[objectPath] = buf.Bytes()
	m.Types[objectPath] = contentType
	return objectPath, nil
}

// Delete removes the object
func (m *MockAttachmentRepository) Delete(_ context.Context, objectPath string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, objectPath)
	delete(m.Types, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake URL for the object
func (m *MockAttachmentRepository) GeneratePresignedURL(_ context.Context, objectPath string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://attachments.test/%s?signed=1", objectPath), nil
}
