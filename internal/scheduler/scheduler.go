package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/liancar/yard/internal/config"
	"github.com/liancar/yard/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// DayCloser builds and archives the close of one day.
type DayCloser interface {
	CloseDay(ctx context.Context, day time.Time) (models.DailyReport, string, error)
}

// Notifier delivers the close text. Nil disables delivery.
type Notifier interface {
	SendText(ctx context.Context, to, body string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	closer   DayCloser
	notifier Notifier
	cfg      config.Config
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
func NewScheduler(cfg config.Config, closer DayCloser, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc := cfg.Reporting.Location()
	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:     c,
		closer:   closer,
		notifier: notifier,
		cfg:      cfg,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the daily close and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.String("schedule", s.cfg.Reporting.CronSchedule),
		zap.String("timezone", s.loc.String()),
	)

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.closeDay); err != nil {
		return fmt.Errorf("schedule daily close %q: %w", s.cfg.Reporting.CronSchedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) closeDay() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.RunDailyClose(ctx); err != nil {
		s.logger.Error("daily close failed", zap.Error(err))
	}
}

// RunDailyClose closes today, in the scheduler's timezone, and sends the text
// when a notifier and recipient are configured.
func (s *Scheduler) RunDailyClose(ctx context.Context) error {
	day := s.now().In(s.loc)
	s.logger.Info("generating daily close", zap.String("date", day.Format("2006-01-02")))

	_, text, err := s.closer.CloseDay(ctx, day)
	if err != nil {
		return err
	}

	if s.notifier == nil || s.cfg.WhatsApp.ReportTo == "" {
		s.logger.Info("daily close generated, delivery disabled")
		return nil
	}

	if err := s.notifier.SendText(ctx, s.cfg.WhatsApp.ReportTo, text); err != nil {
		return fmt.Errorf("send daily close: %w", err)
	}
	s.logger.Info("daily close sent successfully")
	return nil
}
