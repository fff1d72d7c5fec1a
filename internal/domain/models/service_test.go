package models_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liancar/yard/internal/apperrors"
	"github.com/liancar/yard/internal/domain/models"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    models.Status
		wantErr bool
	}{
		{name: "code", raw: "SCHEDULED", want: models.StatusScheduled},
		{name: "lower code", raw: "washing", want: models.StatusWashing},
		{name: "label", raw: "Agendado", want: models.StatusScheduled},
		{name: "label with accent", raw: "Concluído", want: models.StatusDone},
		{name: "label without accent", raw: "concluido", want: models.StatusDone},
		{name: "padded", raw: "  Lavando ", want: models.StatusWashing},
		{name: "unknown", raw: "Cancelado", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := models.ParseStatus(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	next, ok := models.StatusScheduled.Next()
	assert.True(t, ok)
	assert.Equal(t, models.StatusWashing, next)

	next, ok = models.StatusWashing.Next()
	assert.True(t, ok)
	assert.Equal(t, models.StatusDone, next)

	_, ok = models.StatusDone.Next()
	assert.False(t, ok)

	assert.True(t, models.CanTransition(models.StatusScheduled, models.StatusWashing))
	assert.False(t, models.CanTransition(models.StatusScheduled, models.StatusDone))
	assert.False(t, models.CanTransition(models.StatusDone, models.StatusScheduled))
	assert.False(t, models.CanTransition(models.StatusWashing, models.StatusWashing))
}

func TestNewServiceRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      models.NewServiceRecord
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid",
			in:   models.NewServiceRecord{Client: "Ana", Plate: "ABC123", Amount: decimal.RequireFromString("35.00")},
		},
		{
			name: "zero amount is allowed",
			in:   models.NewServiceRecord{Client: "Ana", Plate: "ABC123"},
		},
		{
			name:    "blank client",
			in:      models.NewServiceRecord{Client: "   ", Plate: "ABC123"},
			wantErr: true,
			errMsg:  "client is required",
		},
		{
			name:    "empty plate",
			in:      models.NewServiceRecord{Client: "Ana"},
			wantErr: true,
			errMsg:  "plate is required",
		},
		{
			name:    "negative amount",
			in:      models.NewServiceRecord{Client: "Ana", Plate: "ABC123", Amount: decimal.NewFromInt(-1)},
			wantErr: true,
			errMsg:  "amount must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewServiceRecord_Build(t *testing.T) {
	now := time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC)

	record := models.NewServiceRecord{
		Client:      " Ana ",
		Plate:       "abc123",
		ServiceType: "Lavagem Simples",
		Amount:      decimal.RequireFromString("35.00"),
	}.Build("id-1", now)

	assert.Equal(t, "id-1", record.ID)
	assert.Equal(t, " Ana ", record.Client)
	assert.Equal(t, "abc123", record.Plate)
	assert.Equal(t, models.StatusScheduled, record.Status)
	assert.Equal(t, now, record.CreatedAt)

	scheduledFor := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	record = models.NewServiceRecord{Client: "Bia", Plate: "XYZ789", Date: scheduledFor}.Build("id-2", now)
	assert.Equal(t, scheduledFor, record.CreatedAt)
}

func TestPeriod_Contains(t *testing.T) {
	period := models.Period{
		From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, period.Contains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, period.Contains(time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, period.Contains(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, period.Contains(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, models.Period{}.Contains(time.Now()))
}

func TestCatalogPrice(t *testing.T) {
	price, ok := models.CatalogPrice("lavagem simples")
	require.True(t, ok)
	assert.Equal(t, "35.00", price.StringFixed(2))

	_, ok = models.CatalogPrice("Cera Especial")
	assert.False(t, ok)
}

func TestPeriod_ContainsReadsDaysInPeriodLocation(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	period := models.Period{From: time.Date(2025, 1, 1, 0, 0, 0, 0, brt), To: time.Date(2025, 1, 1, 0, 0, 0, 0, brt)}

	// 01:30 UTC on Jan 2 is still the evening of Jan 1 in São Paulo.
	assert.True(t, period.Contains(time.Date(2025, 1, 2, 1, 30, 0, 0, time.UTC)))
	assert.False(t, period.Contains(time.Date(2025, 1, 2, 3, 30, 0, 0, time.UTC)))
}

func TestFormatBRL(t *testing.T) {
	tests := map[string]string{
		"0":       "R$ 0,00",
		"35":      "R$ 35,00",
		"1234.5":  "R$ 1.234,50",
		"250000":  "R$ 250.000,00",
		"-89.9":   "-R$ 89,90",
		"1000000": "R$ 1.000.000,00",
	}
	for in, want := range tests {
		assert.Equal(t, want, models.FormatBRL(decimal.RequireFromString(in)), in)
	}
}

func TestParseDate(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)

	iso, err := models.ParseDate("2025-03-09", brt)
	require.NoError(t, err)
	assert.True(t, iso.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, brt)))

	br, err := models.ParseDate(" 09/03/2025 ", brt)
	require.NoError(t, err)
	assert.True(t, br.Equal(iso))

	stamp, err := models.ParseDate("2025-03-09T14:30:00Z", brt)
	require.NoError(t, err)
	assert.Equal(t, 14, stamp.Hour())

	empty, err := models.ParseDate("", brt)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	_, err = models.ParseDate("09-03-2025", brt)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParsePeriod(t *testing.T) {
	p, err := models.ParsePeriod("2025-01-01", "", time.UTC)
	require.NoError(t, err)
	assert.False(t, p.From.IsZero())
	assert.True(t, p.To.IsZero())

	_, err = models.ParsePeriod("2025-01-02", "2025-01-01", time.UTC)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "35.00", want: "35.00"},
		{raw: "35,5", want: "35.50"},
		{raw: " 1.234,50 ", want: "1234.50"},
		{raw: "R$ 1.234.567,89", want: "1234567.89"},
		{raw: "-5", want: "-5.00"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := models.ParseAmount(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}

	for _, raw := range []string{"", "abc", "1,2,3"} {
		_, err := models.ParseAmount(raw)
		assert.ErrorIs(t, err, apperrors.ErrValidation, raw)
	}
}
