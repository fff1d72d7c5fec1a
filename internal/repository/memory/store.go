package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liancar/yard/internal/apperrors"
	"github.com/liancar/yard/internal/domain/models"
)

// Store keeps service and expense records in process memory.
type Store struct {
	mu       sync.RWMutex
	services []models.ServiceRecord
	index    map[string]int
	expenses []models.ExpenseRecord
	now      func() time.Time
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		index: make(map[string]int),
		now:   time.Now,
	}
}

// ListAll returns a copy of every service record in creation order.
func (s *Store) ListAll(_ context.Context) ([]models.ServiceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ServiceRecord, len(s.services))
	copy(out, s.services)
	return out, nil
}

// Get returns the record with the given id.
func (s *Store) Get(_ context.Context, id string) (models.ServiceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return models.ServiceRecord{}, fmt.Errorf("%w: service %s", apperrors.ErrNotFound, id)
	}
	return s.services[pos], nil
}

// Insert validates and appends a new record in the Scheduled lane.
func (s *Store) Insert(_ context.Context, in models.NewServiceRecord) (models.ServiceRecord, error) {
	if err := in.Validate(); err != nil {
		return models.ServiceRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := in.Build(uuid.NewString(), s.now())
	s.services = append(s.services, record)
	s.index[record.ID] = len(s.services) - 1
	return record, nil
}

// UpdateStatus moves a record to next if its status is still expected.
func (s *Store) UpdateStatus(_ context.Context, id string, expected, next models.Status) (models.ServiceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return models.ServiceRecord{}, fmt.Errorf("%w: service %s", apperrors.ErrNotFound, id)
	}
	if s.services[pos].Status != expected {
		return models.ServiceRecord{}, fmt.Errorf("%w: service %s is %s", apperrors.ErrConflict, id, s.services[pos].Status)
	}
	s.services[pos].Status = next
	return s.services[pos], nil
}

// ListExpenses returns a copy of every expense in entry order.
func (s *Store) ListExpenses(_ context.Context) ([]models.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ExpenseRecord, len(s.expenses))
	copy(out, s.expenses)
	return out, nil
}

// InsertExpense validates and appends a new expense.
func (s *Store) InsertExpense(_ context.Context, in models.NewExpenseRecord) (models.ExpenseRecord, error) {
	if err := in.Validate(); err != nil {
		return models.ExpenseRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := in.Build(uuid.NewString(), s.now())
	s.expenses = append(s.expenses, record)
	return record, nil
}
