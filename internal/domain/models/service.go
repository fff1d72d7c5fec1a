package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/liancar/yard/internal/apperrors"
)

// Status enumerates the yard lanes a service record can sit in.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusWashing   Status = "WASHING"
	StatusDone      Status = "DONE"
)

// transitions is the only place legal status moves are defined.
var transitions = map[Status]Status{
	StatusScheduled: StatusWashing,
	StatusWashing:   StatusDone,
}

var statusLabels = map[Status]string{
	StatusScheduled: "Agendado",
	StatusWashing:   "Lavando",
	StatusDone:      "Concluído",
}

// Statuses returns the lanes in board order.
func Statuses() []Status {
	return []Status{StatusScheduled, StatusWashing, StatusDone}
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the Portuguese display label used on screens and exports.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Next returns the single forward transition out of s, if any.
func (s Status) Next() (Status, bool) {
	next, ok := transitions[s]
	return next, ok
}

// CanTransition reports whether moving from one status to another is in the transition table.
func CanTransition(from, to Status) bool {
	next, ok := transitions[from]
	return ok && next == to
}

// ParseStatus accepts a status code (SCHEDULED) or display label (Agendado), case-insensitively.
func ParseStatus(raw string) (Status, error) {
	normalized := strings.TrimSpace(raw)
	for _, status := range Statuses() {
		if strings.EqualFold(normalized, string(status)) || strings.EqualFold(normalized, status.Label()) {
			return status, nil
		}
	}
	// Labels are sometimes typed without the accent.
	if strings.EqualFold(normalized, "Concluido") {
		return StatusDone, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, raw)
}

// ServiceRecord is one scheduled wash tied to a client and vehicle.
type ServiceRecord struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Client      string          `json:"client"`
	Plate       string          `json:"plate"`
	ServiceType string          `json:"service_type"`
	Amount      decimal.Decimal `json:"amount"`
	Status      Status          `json:"status"`
}

// IsDone reports whether the record counts toward recognized revenue.
func (r ServiceRecord) IsDone() bool {
	return r.Status == StatusDone
}

// NewServiceRecord carries the fields supplied by the scheduling action.
type NewServiceRecord struct {
	Client      string
	Plate       string
	ServiceType string
	Amount      decimal.Decimal
	Date        time.Time
}

// Validate checks the required fields and the non-negative amount rule.
// Blank text counts as missing.
func (n NewServiceRecord) Validate() error {
	switch {
	case strings.TrimSpace(n.Client) == "":
		return fmt.Errorf("%w: client is required", apperrors.ErrValidation)
	case strings.TrimSpace(n.Plate) == "":
		return fmt.Errorf("%w: plate is required", apperrors.ErrValidation)
	case n.Amount.IsNegative():
		return fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	return nil
}

// Build materializes the record a store persists. Text fields are kept as
// supplied. The scheduling date becomes createdAt when supplied.
func (n NewServiceRecord) Build(id string, now time.Time) ServiceRecord {
	createdAt := n.Date
	if createdAt.IsZero() {
		createdAt = now
	}
	return ServiceRecord{
		ID:          id,
		CreatedAt:   createdAt,
		Client:      n.Client,
		Plate:       n.Plate,
		ServiceType: n.ServiceType,
		Amount:      n.Amount,
		Status:      StatusScheduled,
	}
}
