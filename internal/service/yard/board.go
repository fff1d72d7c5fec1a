package yard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/liancar/yard/internal/apperrors"
	"github.com/liancar/yard/internal/domain/models"
	"github.com/liancar/yard/internal/repository"
)

// Service owns the yard board: lanes, status transitions and revenue recognition.
type Service struct {
	store  repository.ServiceRecordStore
	logger *zap.Logger
}

// NewService wires a yard board over the given record store.
func NewService(store repository.ServiceRecordStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// ScheduleInput is the scheduling action. A nil Amount takes the catalog price
// of ServiceType, or zero for free-text services.
type ScheduleInput struct {
	Client      string
	Plate       string
	ServiceType string
	Amount      *decimal.Decimal
	Date        time.Time
}

// Filter narrows a record listing. An empty Status matches every lane.
type Filter struct {
	Status models.Status
	Period models.Period
}

// BoardView partitions every record into its status lane, keeping store order.
func (s *Service) BoardView(ctx context.Context) (models.Board, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return models.Board{}, err
	}
	return Partition(records), nil
}

// Partition groups records by lane. Every lane is non-nil.
func Partition(records []models.ServiceRecord) models.Board {
	board := models.Board{
		Scheduled: []models.ServiceRecord{},
		Washing:   []models.ServiceRecord{},
		Done:      []models.ServiceRecord{},
	}
	for _, record := range records {
		switch record.Status {
		case models.StatusScheduled:
			board.Scheduled = append(board.Scheduled, record)
		case models.StatusWashing:
			board.Washing = append(board.Washing, record)
		case models.StatusDone:
			board.Done = append(board.Done, record)
		}
	}
	return board
}

// Get returns a single record.
func (s *Service) Get(ctx context.Context, id string) (models.ServiceRecord, error) {
	return s.store.Get(ctx, id)
}

// Schedule creates a record in the Scheduled lane.
func (s *Service) Schedule(ctx context.Context, in ScheduleInput) (models.ServiceRecord, error) {
	amount := decimal.Zero
	if in.Amount != nil {
		amount = *in.Amount
	} else if price, ok := models.CatalogPrice(in.ServiceType); ok {
		amount = price
	}

	record, err := s.store.Insert(ctx, models.NewServiceRecord{
		Client:      in.Client,
		Plate:       in.Plate,
		ServiceType: in.ServiceType,
		Amount:      amount,
		Date:        in.Date,
	})
	if err != nil {
		return models.ServiceRecord{}, err
	}

	s.logger.Info("service scheduled",
		zap.String("id", record.ID),
		zap.String("plate", record.Plate),
		zap.String("service_type", record.ServiceType),
		zap.String("amount", record.Amount.StringFixed(2)),
	)
	return record, nil
}

// Advance applies the single forward transition out of the record's current status.
func (s *Service) Advance(ctx context.Context, id string) (models.ServiceRecord, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return models.ServiceRecord{}, err
	}

	next, ok := current.Status.Next()
	if !ok {
		return models.ServiceRecord{}, fmt.Errorf("%w: service %s is already %s", apperrors.ErrIllegalTransition, id, current.Status.Label())
	}
	return s.move(ctx, current, next)
}

// SetStatus is the direct status edit. Only the legal next status of the current
// one is accepted; backward and skipping moves are illegal.
func (s *Service) SetStatus(ctx context.Context, id string, target models.Status) (models.ServiceRecord, error) {
	if !target.Valid() {
		return models.ServiceRecord{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, string(target))
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return models.ServiceRecord{}, err
	}

	if !models.CanTransition(current.Status, target) {
		return models.ServiceRecord{}, fmt.Errorf("%w: %s -> %s", apperrors.ErrIllegalTransition, current.Status.Label(), target.Label())
	}
	return s.move(ctx, current, target)
}

func (s *Service) move(ctx context.Context, current models.ServiceRecord, next models.Status) (models.ServiceRecord, error) {
	updated, err := s.store.UpdateStatus(ctx, current.ID, current.Status, next)
	if err != nil {
		return models.ServiceRecord{}, err
	}

	s.logger.Info("service status changed",
		zap.String("id", updated.ID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)),
	)
	return updated, nil
}

// RevenueTotal sums the amounts of Done records.
func (s *Service) RevenueTotal(ctx context.Context) (decimal.Decimal, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	revenue, _ := Totals(records)
	return revenue, nil
}

// PendingTotal sums the amounts of records not yet Done.
func (s *Service) PendingTotal(ctx context.Context) (decimal.Decimal, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	_, pending := Totals(records)
	return pending, nil
}

// Totals splits the amount sum of records into recognized revenue and pending.
func Totals(records []models.ServiceRecord) (revenue, pending decimal.Decimal) {
	revenue, pending = decimal.Zero, decimal.Zero
	for _, record := range records {
		if record.IsDone() {
			revenue = revenue.Add(record.Amount)
		} else {
			pending = pending.Add(record.Amount)
		}
	}
	return revenue, pending
}

// List returns the records matching f in store order.
func (s *Service) List(ctx context.Context, f Filter) ([]models.ServiceRecord, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, string(f.Status))
	}

	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.ServiceRecord, 0, len(records))
	for _, record := range records {
		if f.Status != "" && record.Status != f.Status {
			continue
		}
		if !f.Period.Contains(record.CreatedAt) {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}
