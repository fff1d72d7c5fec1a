package repository

import (
	"context"

	"github.com/liancar/yard/internal/domain/models"
)

// ServiceRecordStore persists service records. Implementations return records in
// creation order and an empty slice when nothing has been stored.
type ServiceRecordStore interface {
	ListAll(ctx context.Context) ([]models.ServiceRecord, error)
	Get(ctx context.Context, id string) (models.ServiceRecord, error)
	Insert(ctx context.Context, record models.NewServiceRecord) (models.ServiceRecord, error)
	// UpdateStatus commits next only while the stored status still equals expected.
	UpdateStatus(ctx context.Context, id string, expected, next models.Status) (models.ServiceRecord, error)
}

// ExpenseStore persists expense records.
type ExpenseStore interface {
	ListExpenses(ctx context.Context) ([]models.ExpenseRecord, error)
	InsertExpense(ctx context.Context, record models.NewExpenseRecord) (models.ExpenseRecord, error)
}
