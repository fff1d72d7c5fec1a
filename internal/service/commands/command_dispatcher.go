package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/liancar/yard/internal/domain/models"
	"github.com/liancar/yard/internal/service/reporting"
	"github.com/liancar/yard/internal/service/yard"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

const helpText = `*Lian Car*
status <placa> - situação do seu carro
painel - carros no pátio
resumo - fechamento do dia
avancar <placa> - próxima etapa (equipe)`

// YardAdapter is the slice of the yard board the dispatcher needs.
type YardAdapter interface {
	BoardView(ctx context.Context) (models.Board, error)
	Advance(ctx context.Context, id string) (models.ServiceRecord, error)
}

// ReportingAdapter builds the day close text.
type ReportingAdapter interface {
	BuildDailyReport(ctx context.Context, day time.Time) (models.DailyReport, error)
}

// Dispatcher executes parsed commands and renders the reply.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	yard      YardAdapter
	reporting ReportingAdapter
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs a command dispatcher. Days are read in loc.
func NewService(board YardAdapter, reports ReportingAdapter, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		yard:      board,
		reporting: reports,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleCommand runs cmd on behalf of sender and returns the reply text.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandStatus:
		plate, err := plateArg(cmd)
		if err != nil {
			return "", err
		}
		record, found, err := s.latestByPlate(ctx, plate, false)
		if err != nil {
			return "", err
		}
		if !found {
			return fmt.Sprintf("Nenhum serviço encontrado para a placa %s.", plate), nil
		}
		return describe(record), nil

	case models.CommandBoard:
		board, err := s.yard.BoardView(ctx)
		if err != nil {
			return "", err
		}
		var all []models.ServiceRecord
		var b strings.Builder
		b.WriteString("*Pátio*")
		for _, status := range models.Statuses() {
			lane := board.Lane(status)
			all = append(all, lane...)
			fmt.Fprintf(&b, "\n%s: %d", status.Label(), len(lane))
		}
		revenue, pending := yard.Totals(all)
		fmt.Fprintf(&b, "\nFaturamento: %s\nEm aberto: %s", models.FormatBRL(revenue), models.FormatBRL(pending))
		return b.String(), nil

	case models.CommandSummary:
		report, err := s.reporting.BuildDailyReport(ctx, s.now().In(s.loc))
		if err != nil {
			return "", err
		}
		return reporting.FormatDailyReport(report), nil

	case models.CommandAdvance:
		plate, err := plateArg(cmd)
		if err != nil {
			return "", err
		}
		record, found, err := s.latestByPlate(ctx, plate, true)
		if err != nil {
			return "", err
		}
		if !found {
			return fmt.Sprintf("Nenhum serviço em aberto para a placa %s.", plate), nil
		}
		moved, err := s.yard.Advance(ctx, record.ID)
		if err != nil {
			return "", err
		}
		s.logger.Info("service advanced over whatsapp", zap.String("id", moved.ID), zap.String("sender", sender))
		return describe(moved), nil

	default:
		return helpText, nil
	}
}

// latestByPlate returns the most recent record for plate. With openOnly, Done
// records are skipped.
func (s *Service) latestByPlate(ctx context.Context, plate string, openOnly bool) (models.ServiceRecord, bool, error) {
	board, err := s.yard.BoardView(ctx)
	if err != nil {
		return models.ServiceRecord{}, false, err
	}

	var matches []models.ServiceRecord
	for _, status := range models.Statuses() {
		if openOnly && status == models.StatusDone {
			continue
		}
		for _, r := range board.Lane(status) {
			if strings.EqualFold(strings.TrimSpace(r.Plate), plate) {
				matches = append(matches, r)
			}
		}
	}
	if len(matches) == 0 {
		return models.ServiceRecord{}, false, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches[0], true, nil
}

func plateArg(cmd models.Command) (string, error) {
	if len(cmd.Args) == 0 {
		return "", fmt.Errorf("%w: %s needs a plate", ErrInvalidArguments, cmd.Type)
	}
	return strings.ToUpper(strings.Join(cmd.Args, "")), nil
}

func describe(r models.ServiceRecord) string {
	return fmt.Sprintf("%s (%s)\n%s - %s\nSituação: %s",
		r.Plate, r.Client, r.ServiceType, models.FormatBRL(r.Amount), r.Status.Label())
}
