package finance

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/liancar/yard/internal/domain/models"
	"github.com/liancar/yard/internal/repository"
	"github.com/liancar/yard/internal/service/yard"
)

// Service computes the finance screen KPIs and records expenses.
type Service struct {
	board    *yard.Service
	expenses repository.ExpenseStore
	logger   *zap.Logger
}

// NewService wires the finance service over the shared yard board.
func NewService(board *yard.Service, expenses repository.ExpenseStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{board: board, expenses: expenses, logger: logger}
}

// AddExpense records an operating expense.
func (s *Service) AddExpense(ctx context.Context, in models.NewExpenseRecord) (models.ExpenseRecord, error) {
	expense, err := s.expenses.InsertExpense(ctx, in)
	if err != nil {
		return models.ExpenseRecord{}, err
	}
	s.logger.Info("expense recorded",
		zap.String("id", expense.ID),
		zap.String("description", expense.Description),
		zap.String("amount", expense.Amount.StringFixed(2)),
	)
	return expense, nil
}

// ListExpenses returns the expenses dated inside period.
func (s *Service) ListExpenses(ctx context.Context, period models.Period) ([]models.ExpenseRecord, error) {
	all, err := s.expenses.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ExpenseRecord, 0, len(all))
	for _, expense := range all {
		if period.Contains(expense.Date) {
			out = append(out, expense)
		}
	}
	return out, nil
}

// Summary computes the KPI tiles for period.
func (s *Service) Summary(ctx context.Context, period models.Period) (models.Summary, error) {
	report, err := s.PeriodReport(ctx, period)
	if err != nil {
		return models.Summary{}, err
	}
	return report.Summary, nil
}

// PeriodReport gathers the records, expenses and KPIs dated inside period.
func (s *Service) PeriodReport(ctx context.Context, period models.Period) (models.PeriodReport, error) {
	records, err := s.board.List(ctx, yard.Filter{Period: period})
	if err != nil {
		return models.PeriodReport{}, err
	}
	expenses, err := s.ListExpenses(ctx, period)
	if err != nil {
		return models.PeriodReport{}, err
	}

	return models.PeriodReport{
		Period:   period,
		Summary:  Summarize(records, expenses),
		Services: records,
		Expenses: expenses,
	}, nil
}

// Summarize derives the KPIs from already-filtered records and expenses.
// Profit is recognized revenue minus expenses.
func Summarize(records []models.ServiceRecord, expenses []models.ExpenseRecord) models.Summary {
	revenue, pending := yard.Totals(records)

	spent := decimal.Zero
	for _, expense := range expenses {
		spent = spent.Add(expense.Amount)
	}

	board := yard.Partition(records)
	return models.Summary{
		Revenue:        revenue,
		Pending:        pending,
		Expenses:       spent,
		Profit:         revenue.Sub(spent),
		ScheduledCount: len(board.Scheduled),
		WashingCount:   len(board.Washing),
		DoneCount:      len(board.Done),
	}
}
