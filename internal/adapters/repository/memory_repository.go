package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/dylandaniels6/dillysdally/internal/core/domain"
)

// In-memory implementations of the three repositories. Used by tests and
// by local development without infrastructure.

type InMemoryDailyRecordRepository struct {
	store map[string]*domain.DailyRecord

	mu sync.RWMutex
}

func NewInMemoryDailyRecordRepository() *InMemoryDailyRecordRepository {
	return &InMemoryDailyRecordRepository{
		store: make(map[string]*domain.DailyRecord),
	}
}

func cloneDaily(r *domain.DailyRecord) *domain.DailyRecord {
	clone := *r
	clone.HabitState = make(domain.HabitState, len(r.HabitState))
	for k, v := range r.HabitState {
		clone.HabitState[k] = v
	}
	return &clone
}

func (m *InMemoryDailyRecordRepository) Create(ctx context.Context, record *domain.DailyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.store {
		if existing.UserID == record.UserID && existing.Date.Equal(record.Date) {
			return domain.ErrDuplicateDate
		}
	}

	m.store[record.ID] = cloneDaily(record)
	return nil
}

func (m *InMemoryDailyRecordRepository) Update(ctx context.Context, record *domain.DailyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.store[record.ID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if existing.Version != record.Version {
		return domain.ErrRecordConflict
	}

	record.Version++
	m.store[record.ID] = cloneDaily(record)
	return nil
}

func (m *InMemoryDailyRecordRepository) Delete(ctx context.Context, id string, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.store[id]
	if !ok || existing.UserID != userID {
		return domain.ErrRecordNotFound
	}

	delete(m.store, id)
	return nil
}

func (m *InMemoryDailyRecordRepository) GetByID(ctx context.Context, id string) (*domain.DailyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.store[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return cloneDaily(record), nil
}

func (m *InMemoryDailyRecordRepository) GetByDate(ctx context.Context, userID string, date domain.Day) (*domain.DailyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, record := range m.store {
		if record.UserID == userID && record.Date.Equal(date) {
			return cloneDaily(record), nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (m *InMemoryDailyRecordRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.DailyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []*domain.DailyRecord
	for _, record := range m.store {
		if record.UserID == userID {
			records = append(records, cloneDaily(record))
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

func (m *InMemoryDailyRecordRepository) ListByDateRange(ctx context.Context, userID string, from, to domain.Day) ([]*domain.DailyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	window := domain.DateRange{Start: from, End: to}

	var records []*domain.DailyRecord
	for _, record := range m.store {
		if record.UserID == userID && window.Contains(record.Date) {
			records = append(records, cloneDaily(record))
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

type InMemoryMonetaryRecordRepository struct {
	store map[string]*domain.MonetaryRecord

	mu sync.RWMutex
}

func NewInMemoryMonetaryRecordRepository() *InMemoryMonetaryRecordRepository {
	return &InMemoryMonetaryRecordRepository{
		store: make(map[string]*domain.MonetaryRecord),
	}
}

func (m *InMemoryMonetaryRecordRepository) Create(ctx context.Context, record *domain.MonetaryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *record
	m.store[record.ID] = &clone
	return nil
}

func (m *InMemoryMonetaryRecordRepository) Update(ctx context.Context, record *domain.MonetaryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.store[record.ID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if existing.Version != record.Version {
		return domain.ErrRecordConflict
	}

	record.Version++
	clone := *record
	m.store[record.ID] = &clone
	return nil
}

func (m *InMemoryMonetaryRecordRepository) Delete(ctx context.Context, id string, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.store[id]
	if !ok || existing.UserID != userID {
		return domain.ErrRecordNotFound
	}

	delete(m.store, id)
	return nil
}

func (m *InMemoryMonetaryRecordRepository) GetByID(ctx context.Context, id string) (*domain.MonetaryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.store[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	clone := *record
	return &clone, nil
}

func (m *InMemoryMonetaryRecordRepository) ListByUserID(ctx context.Context, userID string, kind domain.RecordKind) ([]*domain.MonetaryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []*domain.MonetaryRecord
	for _, record := range m.store {
		if record.UserID != userID {
			continue
		}
		if kind != "" && record.Kind != kind {
			continue
		}
		clone := *record
		records = append(records, &clone)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (m *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.store {
		if existing.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	clone := *user
	m.store[user.ID] = &clone
	return nil
}

func (m *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.store {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
