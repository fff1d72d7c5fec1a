package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/liancar/yard/internal/domain/models"
	"github.com/liancar/yard/internal/repository/mongodb"
	"github.com/liancar/yard/internal/service/finance"
)

const dateLayout = "02/01/2006"

// Service builds the daily close and archives it.
type Service struct {
	finance   *finance.Service
	snapshots mongodb.Repository
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance. snapshots may be nil, in
// which case closes are built but not archived.
func NewService(financeSvc *finance.Service, snapshots mongodb.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{finance: financeSvc, snapshots: snapshots, logger: logger, now: time.Now}
}

// BuildDailyReport aggregates the services and expenses dated on day, read in day's location.
func (s *Service) BuildDailyReport(ctx context.Context, day time.Time) (models.DailyReport, error) {
	date := models.DateOnly(day)
	report, err := s.finance.PeriodReport(ctx, models.Period{From: date, To: date})
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("build daily report: %w", err)
	}

	return models.DailyReport{
		Date:              date,
		ServicesScheduled: len(report.Services),
		ServicesDone:      report.Summary.DoneCount,
		Revenue:           report.Summary.Revenue,
		Pending:           report.Summary.Pending,
		Expenses:          report.Summary.Expenses,
		Profit:            report.Summary.Profit,
		CreatedAt:         s.now(),
	}, nil
}

// CloseDay builds the report for day, archives it when an archive is configured
// and returns it with its message text.
func (s *Service) CloseDay(ctx context.Context, day time.Time) (models.DailyReport, string, error) {
	report, err := s.BuildDailyReport(ctx, day)
	if err != nil {
		return models.DailyReport{}, "", err
	}

	if s.snapshots != nil {
		if err := s.snapshots.SaveDailyReport(ctx, report); err != nil {
			return models.DailyReport{}, "", fmt.Errorf("archive daily report: %w", err)
		}
		s.logger.Info("daily report archived", zap.String("date", report.Date.Format(dateLayout)))
	} else {
		s.logger.Debug("daily report archive disabled")
	}

	return report, FormatDailyReport(report), nil
}

// History lists archived closes inside period. It is empty without an archive.
func (s *Service) History(ctx context.Context, period models.Period) ([]models.DailyReport, error) {
	if s.snapshots == nil {
		return []models.DailyReport{}, nil
	}
	return s.snapshots.ListDailyReports(ctx, period)
}

// FormatDailyReport renders the close as a WhatsApp text message.
func FormatDailyReport(report models.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Lian Car - Fechamento %s*\n", report.Date.Format(dateLayout))
	fmt.Fprintf(&b, "Serviços do dia: %d\n", report.ServicesScheduled)
	fmt.Fprintf(&b, "Serviços concluídos: %d\n", report.ServicesDone)
	fmt.Fprintf(&b, "Faturamento: %s\n", models.FormatBRL(report.Revenue))
	fmt.Fprintf(&b, "Em aberto: %s\n", models.FormatBRL(report.Pending))
	fmt.Fprintf(&b, "Despesas: %s\n", models.FormatBRL(report.Expenses))
	fmt.Fprintf(&b, "Lucro: %s", models.FormatBRL(report.Profit))
	if report.ServicesScheduled == 0 {
		b.WriteString("\nNenhum serviço registrado hoje.")
	}
	return b.String()
}
