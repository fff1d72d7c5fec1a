// Package storetest holds behaviour checks shared by every store backend.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liancar/yard/internal/apperrors"
	"github.com/liancar/yard/internal/domain/models"
	"github.com/liancar/yard/internal/repository"
)

// ServiceStore runs the service record contract against stores built by factory.
// Each subtest receives a fresh, empty store.
func ServiceStore(t *testing.T, factory func(t *testing.T) repository.ServiceRecordStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store lists nothing", func(t *testing.T) {
		store := factory(t)
		records, err := store.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("insert then list returns one scheduled record", func(t *testing.T) {
		store := factory(t)
		date := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
		created, err := store.Insert(ctx, models.NewServiceRecord{
			Client:      "Ana",
			Plate:       "ABC123",
			ServiceType: "Lavagem Simples",
			Amount:      decimal.RequireFromString("35.00"),
			Date:        date,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, models.StatusScheduled, created.Status)

		records, err := store.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		got := records[0]
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Ana", got.Client)
		assert.Equal(t, "ABC123", got.Plate)
		assert.Equal(t, "Lavagem Simples", got.ServiceType)
		assert.Equal(t, "35.00", got.Amount.StringFixed(2))
		assert.Equal(t, models.StatusScheduled, got.Status)
		assert.True(t, date.Equal(got.CreatedAt), "created_at %s != %s", got.CreatedAt, date)
	})

	t.Run("insert keeps supplied text unchanged", func(t *testing.T) {
		store := factory(t)
		_, err := store.Insert(ctx, models.NewServiceRecord{
			Client:      " ana souza ",
			Plate:       " abc1d23 ",
			ServiceType: "lavagem simples ",
			Amount:      decimal.RequireFromString("35.00"),
		})
		require.NoError(t, err)

		records, err := store.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, " ana souza ", records[0].Client)
		assert.Equal(t, " abc1d23 ", records[0].Plate)
		assert.Equal(t, "lavagem simples ", records[0].ServiceType)
	})

	t.Run("records keep creation order", func(t *testing.T) {
		store := factory(t)
		for _, client := range []string{"Ana", "Bia", "Caio"} {
			_, err := store.Insert(ctx, models.NewServiceRecord{Client: client, Plate: "P-" + client})
			require.NoError(t, err)
		}

		records, err := store.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "Ana", records[0].Client)
		assert.Equal(t, "Bia", records[1].Client)
		assert.Equal(t, "Caio", records[2].Client)
	})

	t.Run("invalid insert leaves store unchanged", func(t *testing.T) {
		store := factory(t)
		_, err := store.Insert(ctx, models.NewServiceRecord{Client: "Ana", Plate: "ABC123"})
		require.NoError(t, err)

		invalid := []models.NewServiceRecord{
			{Client: "", Plate: "ABC123"},
			{Client: "Ana", Plate: ""},
			{Client: "Ana", Plate: "ABC123", Amount: decimal.NewFromInt(-5)},
		}
		for _, in := range invalid {
			_, err := store.Insert(ctx, in)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		}

		records, err := store.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("get unknown id is not found", func(t *testing.T) {
		store := factory(t)
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("update status commits when expected matches", func(t *testing.T) {
		store := factory(t)
		created, err := store.Insert(ctx, models.NewServiceRecord{Client: "Ana", Plate: "ABC123"})
		require.NoError(t, err)

		updated, err := store.UpdateStatus(ctx, created.ID, models.StatusScheduled, models.StatusWashing)
		require.NoError(t, err)
		assert.Equal(t, models.StatusWashing, updated.Status)

		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusWashing, got.Status)
	})

	t.Run("update status conflicts on stale expectation", func(t *testing.T) {
		store := factory(t)
		created, err := store.Insert(ctx, models.NewServiceRecord{Client: "Ana", Plate: "ABC123"})
		require.NoError(t, err)

		_, err = store.UpdateStatus(ctx, created.ID, models.StatusWashing, models.StatusDone)
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusScheduled, got.Status)
	})

	t.Run("update status on unknown id is not found", func(t *testing.T) {
		store := factory(t)
		_, err := store.UpdateStatus(ctx, "missing", models.StatusScheduled, models.StatusWashing)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

// ExpenseStore runs the expense contract against stores built by factory.
func ExpenseStore(t *testing.T, factory func(t *testing.T) repository.ExpenseStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store lists nothing", func(t *testing.T) {
		store := factory(t)
		expenses, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		assert.Empty(t, expenses)
	})

	t.Run("insert then list", func(t *testing.T) {
		store := factory(t)
		date := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
		created, err := store.InsertExpense(ctx, models.NewExpenseRecord{
			Description: "Shampoo automotivo",
			Amount:      decimal.RequireFromString("89.90"),
			Date:        date,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		expenses, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, "Shampoo automotivo", expenses[0].Description)
		assert.Equal(t, "89.90", expenses[0].Amount.StringFixed(2))
		assert.True(t, date.Equal(expenses[0].Date))
	})

	t.Run("invalid expense is rejected", func(t *testing.T) {
		store := factory(t)
		_, err := store.InsertExpense(ctx, models.NewExpenseRecord{Description: " ", Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		_, err = store.InsertExpense(ctx, models.NewExpenseRecord{Description: "Luz", Amount: decimal.NewFromInt(-10)})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		expenses, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		assert.Empty(t, expenses)
	})
}
