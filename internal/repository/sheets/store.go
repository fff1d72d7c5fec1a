package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/liancar/yard/internal/apperrors"
	"github.com/liancar/yard/internal/domain/models"
)

const (
	servicesTab       = "Servicos"
	servicesDataRange = "Servicos!A:G"
	statusColumn      = "G"
	expensesDataRange = "Despesas!A:D"
	headerID          = "ID"
)

// Store keeps service and expense records as rows of a spreadsheet.
//
// Servicos: ID | Data | Cliente | Placa | Servico | Valor | Status
// Despesas: ID | Data | Descricao | Valor
type Store struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time

	// writes serializes read-check-write status updates from this process.
	writes sync.Mutex
}

// NewStore wires a sheet-backed store on top of the raw repository.
func NewStore(repo Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, logger: logger, now: time.Now}
}

// ListAll reads every service row, skipping the header and malformed rows.
func (s *Store) ListAll(ctx context.Context) ([]models.ServiceRecord, error) {
	rows, err := s.repo.ReadRange(ctx, servicesDataRange)
	if err != nil {
		return nil, fmt.Errorf("load services range: %w", err)
	}

	records := make([]models.ServiceRecord, 0, len(rows))
	for _, row := range rows {
		record, ok := s.parseServiceRow(row)
		if !ok {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Get scans the sheet for the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (models.ServiceRecord, error) {
	records, err := s.ListAll(ctx)
	if err != nil {
		return models.ServiceRecord{}, err
	}
	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}
	return models.ServiceRecord{}, fmt.Errorf("%w: service %s", apperrors.ErrNotFound, id)
}

// Insert validates and appends a new service row.
func (s *Store) Insert(ctx context.Context, in models.NewServiceRecord) (models.ServiceRecord, error) {
	if err := in.Validate(); err != nil {
		return models.ServiceRecord{}, err
	}

	record := in.Build(uuid.NewString(), s.now())
	values := []interface{}{
		record.ID,
		record.CreatedAt.Format(time.RFC3339),
		record.Client,
		record.Plate,
		record.ServiceType,
		record.Amount.StringFixed(2),
		string(record.Status),
	}
	if err := s.repo.WriteRow(ctx, servicesDataRange, values); err != nil {
		return models.ServiceRecord{}, err
	}
	return record, nil
}

// UpdateStatus re-reads the row, checks the expected status and rewrites the status cell.
func (s *Store) UpdateStatus(ctx context.Context, id string, expected, next models.Status) (models.ServiceRecord, error) {
	s.writes.Lock()
	defer s.writes.Unlock()

	rows, err := s.repo.ReadRange(ctx, servicesDataRange)
	if err != nil {
		return models.ServiceRecord{}, fmt.Errorf("load services range: %w", err)
	}

	for i, row := range rows {
		record, ok := s.parseServiceRow(row)
		if !ok || record.ID != id {
			continue
		}
		if record.Status != expected {
			return models.ServiceRecord{}, fmt.Errorf("%w: service %s is %s", apperrors.ErrConflict, id, record.Status)
		}

		cell := fmt.Sprintf("%s!%s%d", servicesTab, statusColumn, i+1)
		if err := s.repo.UpdateRange(ctx, cell, []interface{}{string(next)}); err != nil {
			return models.ServiceRecord{}, err
		}
		record.Status = next
		return record, nil
	}
	return models.ServiceRecord{}, fmt.Errorf("%w: service %s", apperrors.ErrNotFound, id)
}

// ListExpenses reads every expense row.
func (s *Store) ListExpenses(ctx context.Context) ([]models.ExpenseRecord, error) {
	rows, err := s.repo.ReadRange(ctx, expensesDataRange)
	if err != nil {
		return nil, fmt.Errorf("load expenses range: %w", err)
	}

	expenses := make([]models.ExpenseRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) < 4 || cellString(row[0]) == "" || cellString(row[0]) == headerID {
			continue
		}

		date, err := parseTime(row[1])
		if err != nil {
			s.logger.Debug("skip expense row with invalid date", zap.Any("value", row[1]), zap.Error(err))
			continue
		}
		amount, err := parseAmount(row[3])
		if err != nil {
			s.logger.Debug("skip expense row with invalid amount", zap.Any("value", row[3]), zap.Error(err))
			continue
		}

		expenses = append(expenses, models.ExpenseRecord{
			ID:          cellString(row[0]),
			Date:        date,
			Description: cellString(row[2]),
			Amount:      amount,
		})
	}
	return expenses, nil
}

// InsertExpense validates and appends a new expense row.
func (s *Store) InsertExpense(ctx context.Context, in models.NewExpenseRecord) (models.ExpenseRecord, error) {
	if err := in.Validate(); err != nil {
		return models.ExpenseRecord{}, err
	}

	record := in.Build(uuid.NewString(), s.now())
	values := []interface{}{
		record.ID,
		record.Date.Format(time.RFC3339),
		record.Description,
		record.Amount.StringFixed(2),
	}
	if err := s.repo.WriteRow(ctx, expensesDataRange, values); err != nil {
		return models.ExpenseRecord{}, err
	}
	return record, nil
}

func (s *Store) parseServiceRow(row []interface{}) (models.ServiceRecord, bool) {
	if len(row) < 7 {
		return models.ServiceRecord{}, false
	}
	id := cellString(row[0])
	if id == "" || id == headerID {
		return models.ServiceRecord{}, false
	}

	createdAt, err := parseTime(row[1])
	if err != nil {
		s.logger.Debug("skip service row with invalid date", zap.String("id", id), zap.Any("value", row[1]), zap.Error(err))
		return models.ServiceRecord{}, false
	}
	amount, err := parseAmount(row[5])
	if err != nil {
		s.logger.Debug("skip service row with invalid amount", zap.String("id", id), zap.Any("value", row[5]), zap.Error(err))
		return models.ServiceRecord{}, false
	}
	status, err := models.ParseStatus(cellString(row[6]))
	if err != nil {
		s.logger.Debug("skip service row with invalid status", zap.String("id", id), zap.Any("value", row[6]), zap.Error(err))
		return models.ServiceRecord{}, false
	}

	return models.ServiceRecord{
		ID:          id,
		CreatedAt:   createdAt,
		Client:      cellText(row[2]),
		Plate:       cellText(row[3]),
		ServiceType: cellText(row[4]),
		Amount:      amount,
		Status:      status,
	}, true
}

// cellText returns a free-text cell exactly as stored.
func cellText(value interface{}) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func cellString(value interface{}) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

// parseTime accepts RFC3339 cells and the DD/MM/YYYY dates typed by hand on the sheet.
func parseTime(value interface{}) (time.Time, error) {
	str := cellString(value)
	if str == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.RFC3339, str); err == nil {
		return t, nil
	}
	return time.Parse("02/01/2006", str)
}

// parseAmount accepts "35.00" and the Brazilian "35,00" form.
func parseAmount(value interface{}) (decimal.Decimal, error) {
	return models.ParseAmount(cellString(value))
}
