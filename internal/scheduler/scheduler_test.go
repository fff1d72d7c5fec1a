package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/liancar/yard/internal/config"
	"github.com/liancar/yard/internal/domain/models"
)

type mockCloser struct {
	mock.Mock
}

func (m *mockCloser) CloseDay(ctx context.Context, day time.Time) (models.DailyReport, string, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(models.DailyReport), args.String(1), args.Error(2)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendText(ctx context.Context, to, body string) error {
	return m.Called(ctx, to, body).Error(0)
}

func testConfig(reportTo string) config.Config {
	return config.Config{
		Reporting: config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "America/Sao_Paulo"},
		WhatsApp:  config.WhatsAppConfig{ReportTo: reportTo},
	}
}

func TestRunDailyClose_SendsInConfiguredTimezone(t *testing.T) {
	ctx := context.Background()
	closer := new(mockCloser)
	notifier := new(mockNotifier)

	s := NewScheduler(testConfig("5511999999999"), closer, notifier, zap.NewNop())
	// 01:00 UTC on Jan 2 is the evening of Jan 1 in São Paulo.
	s.now = func() time.Time { return time.Date(2025, 1, 2, 1, 0, 0, 0, time.UTC) }

	closer.On("CloseDay", ctx, mock.MatchedBy(func(day time.Time) bool {
		return day.Day() == 1 && day.Location().String() == "America/Sao_Paulo"
	})).Return(models.DailyReport{}, "Fechamento", nil)
	notifier.On("SendText", ctx, "5511999999999", "Fechamento").Return(nil)

	require.NoError(t, s.RunDailyClose(ctx))
	closer.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRunDailyClose_WithoutRecipientSkipsDelivery(t *testing.T) {
	ctx := context.Background()
	closer := new(mockCloser)
	notifier := new(mockNotifier)
	closer.On("CloseDay", ctx, mock.Anything).Return(models.DailyReport{}, "Fechamento", nil)

	s := NewScheduler(testConfig(""), closer, notifier, nil)
	require.NoError(t, s.RunDailyClose(ctx))
	notifier.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunDailyClose_PropagatesFailures(t *testing.T) {
	ctx := context.Background()

	closer := new(mockCloser)
	closer.On("CloseDay", ctx, mock.Anything).Return(models.DailyReport{}, "", errors.New("store offline"))
	s := NewScheduler(testConfig("5511"), closer, new(mockNotifier), nil)
	assert.ErrorContains(t, s.RunDailyClose(ctx), "store offline")

	closer = new(mockCloser)
	closer.On("CloseDay", ctx, mock.Anything).Return(models.DailyReport{}, "Fechamento", nil)
	notifier := new(mockNotifier)
	notifier.On("SendText", ctx, "5511", "Fechamento").Return(errors.New("token expired"))
	s = NewScheduler(testConfig("5511"), closer, notifier, nil)
	assert.ErrorContains(t, s.RunDailyClose(ctx), "token expired")
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	cfg := testConfig("")
	cfg.Reporting.CronSchedule = "every evening"
	s := NewScheduler(cfg, new(mockCloser), nil, nil)
	assert.Error(t, s.Start())
}
