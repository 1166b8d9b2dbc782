package records

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store implements domain.RecordStore on top of a key-value store.
// Each month collection is a JSON array under its collection key.
// Loads never fail: absent, empty or malformed data yields an empty collection.
// Reads return ErrStorageRead instead, so callers that write back never overwrite
// data they could not see.
type Store struct {
	kv     domain.KeyValueStore
	logger zerolog.Logger
}

// NewStore creates a record store backed by kv
func NewStore(kv domain.KeyValueStore) *Store {
	return &Store{
		kv:     kv,
		logger: log.With().Str("component", "record_store").Logger(),
	}
}

// LoadTasks returns the tasks of a month
func (s *Store) LoadTasks(ctx context.Context, year int, month time.Month) []*domain.Task {
	tasks := load[domain.Task](ctx, s, domain.CollectionKey(domain.KindTasks, year, month))
	for _, task := range tasks {
		normalizeTask(task)
	}
	return tasks
}

// ReadTasks returns the tasks of a month, failing when the collection cannot be read
func (s *Store) ReadTasks(ctx context.Context, year int, month time.Month) ([]*domain.Task, error) {
	tasks, err := read[domain.Task](ctx, s, domain.CollectionKey(domain.KindTasks, year, month))
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		normalizeTask(task)
	}
	return tasks, nil
}

// SaveTasks replaces the tasks of a month
func (s *Store) SaveTasks(ctx context.Context, year int, month time.Month, tasks []*domain.Task) error {
	return save(ctx, s, domain.CollectionKey(domain.KindTasks, year, month), tasks)
}

// LoadBudget returns the budget items of a month
func (s *Store) LoadBudget(ctx context.Context, year int, month time.Month) []*domain.BudgetItem {
	return load[domain.BudgetItem](ctx, s, domain.CollectionKey(domain.KindBudget, year, month))
}

// ReadBudget returns the budget items of a month, failing when the collection cannot be read
func (s *Store) ReadBudget(ctx context.Context, year int, month time.Month) ([]*domain.BudgetItem, error) {
	return read[domain.BudgetItem](ctx, s, domain.CollectionKey(domain.KindBudget, year, month))
}

// SaveBudget replaces the budget items of a month
func (s *Store) SaveBudget(ctx context.Context, year int, month time.Month, items []*domain.BudgetItem) error {
	return save(ctx, s, domain.CollectionKey(domain.KindBudget, year, month), items)
}

// LoadExpenses returns the expense items of a month
func (s *Store) LoadExpenses(ctx context.Context, year int, month time.Month) []*domain.ExpenseItem {
	return load[domain.ExpenseItem](ctx, s, domain.CollectionKey(domain.KindExpenses, year, month))
}

// ReadExpenses returns the expense items of a month, failing when the collection cannot be read
func (s *Store) ReadExpenses(ctx context.Context, year int, month time.Month) ([]*domain.ExpenseItem, error) {
	return read[domain.ExpenseItem](ctx, s, domain.CollectionKey(domain.KindExpenses, year, month))
}

// SaveExpenses replaces the expense items of a month
func (s *Store) SaveExpenses(ctx context.Context, year int, month time.Month, items []*domain.ExpenseItem) error {
	return save(ctx, s, domain.CollectionKey(domain.KindExpenses, year, month), items)
}

// Periods lists the months that have a stored collection of the given kind, oldest first
func (s *Store) Periods(ctx context.Context, kind domain.CollectionKind) ([]domain.Period, error) {
	keys, err := s.kv.Keys(ctx, string(kind)+"_")
	if err != nil {
		return nil, fmt.Errorf("list %s collections: %w", kind, err)
	}

	periods := make([]domain.Period, 0, len(keys))
	for _, key := range keys {
		k, year, month, err := domain.ParseCollectionKey(key)
		if err != nil || k != kind {
			s.logger.Debug().Str("key", key).Msg("Skipping unrecognised key")
			continue
		}
		periods = append(periods, domain.Period{Year: year, Month: month})
	}
	sort.Slice(periods, func(i, j int) bool {
		if periods[i].Year != periods[j].Year {
			return periods[i].Year < periods[j].Year
		}
		return periods[i].Month < periods[j].Month
	})
	return periods, nil
}

func load[T any](ctx context.Context, s *Store, key string) []*T {
	items, err := read[T](ctx, s, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Treating unreadable collection as empty")
		return []*T{}
	}
	return items
}

func read[T any](ctx context.Context, s *Store, key string) ([]*T, error) {
	raw, found, err := s.kv.GetItem(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrStorageRead, key, err)
	}
	if !found || raw == "" {
		return []*T{}, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrStorageRead, key, err)
	}

	items := make([]*T, 0, len(elements))
	for i, element := range elements {
		if string(element) == "null" {
			continue
		}
		item := new(T)
		if err := json.Unmarshal(element, item); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Int("index", i).Msg("Dropping malformed record")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// save writes the collection; an empty collection removes its key
func save[T any](ctx context.Context, s *Store, key string, items []*T) error {
	if len(items) == 0 {
		if err := s.kv.RemoveItem(ctx, key); err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("Failed to remove collection")
			return fmt.Errorf("%w: %s: %w", domain.ErrStorageWrite, key, err)
		}
		return nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", domain.ErrStorageWrite, key, err)
	}
	if err := s.kv.SetItem(ctx, key, string(data)); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to write collection")
		return fmt.Errorf("%w: %s: %w", domain.ErrStorageWrite, key, err)
	}
	return nil
}

func normalizeTask(task *domain.Task) {
	if task.Kepanitiaan == nil {
		task.Kepanitiaan = &domain.Kepanitiaan{}
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
}
