package mongodb

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/liancar/yard/internal/domain/models"
)

func TestDailyReportDocumentRoundTrip(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	report := models.DailyReport{
		Date:              time.Date(2025, 1, 1, 20, 0, 0, 0, saoPaulo),
		ServicesScheduled: 3,
		ServicesDone:      2,
		Revenue:           decimal.RequireFromString("95.00"),
		Pending:           decimal.RequireFromString("250"),
		Expenses:          decimal.RequireFromString("89.9"),
		Profit:            decimal.RequireFromString("5.10"),
		CreatedAt:         time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
	}

	doc, err := toDocument(report)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), doc.Date)
	assert.Equal(t, "95.00", doc.Revenue.String())

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var decoded dailyReportDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	got, err := fromDocument(decoded)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ServicesScheduled)
	assert.Equal(t, 2, got.ServicesDone)
	assert.Equal(t, "95.00", got.Revenue.StringFixed(2))
	assert.Equal(t, "250.00", got.Pending.StringFixed(2))
	assert.Equal(t, "89.90", got.Expenses.StringFixed(2))
	assert.Equal(t, "5.10", got.Profit.StringFixed(2))
	assert.True(t, report.CreatedAt.Equal(got.CreatedAt))
}

func TestReportKeyUsesCalendarDay(t *testing.T) {
	late := time.Date(2025, 3, 9, 23, 30, 0, 0, time.FixedZone("BRT", -3*60*60))
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), reportKey(late))
}
