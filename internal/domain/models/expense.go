package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/liancar/yard/internal/apperrors"
)

// ExpenseRecord captures an operating expense entered on the finance screen.
type ExpenseRecord struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewExpenseRecord carries the fields supplied by the finance-entry action.
type NewExpenseRecord struct {
	Description string
	Amount      decimal.Decimal
	Date        time.Time
}

// Validate checks the description and the non-negative amount rule.
func (n NewExpenseRecord) Validate() error {
	if strings.TrimSpace(n.Description) == "" {
		return fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if n.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	return nil
}

// Build materializes the expense a store persists.
func (n NewExpenseRecord) Build(id string, now time.Time) ExpenseRecord {
	date := n.Date
	if date.IsZero() {
		date = now
	}
	return ExpenseRecord{
		ID:          id,
		Date:        date,
		Description: strings.TrimSpace(n.Description),
		Amount:      n.Amount,
	}
}
