package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/liancar/yard/internal/apperrors"
)

var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// ParseDate accepts 2006-01-02 and 02/01/2006 in loc, or a full RFC3339 timestamp.
// An empty value yields the zero time.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, raw)
}

// ParsePeriod reads a from/to pair with ParseDate and rejects reversed ranges.
func ParsePeriod(fromRaw, toRaw string, loc *time.Location) (Period, error) {
	from, err := ParseDate(fromRaw, loc)
	if err != nil {
		return Period{}, err
	}
	to, err := ParseDate(toRaw, loc)
	if err != nil {
		return Period{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return Period{}, fmt.Errorf("%w: period ends before it starts", apperrors.ErrValidation)
	}
	return Period{From: from, To: to}, nil
}

// Period is an inclusive day range. A zero bound leaves that side open.
type Period struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls on a day inside the period. Days are read in
// the location of the period bounds.
func (p Period) Contains(t time.Time) bool {
	if loc := p.location(); loc != nil {
		t = t.In(loc)
	}
	day := DateOnly(t)
	if !p.From.IsZero() && day.Before(DateOnly(p.From)) {
		return false
	}
	if !p.To.IsZero() && day.After(DateOnly(p.To)) {
		return false
	}
	return true
}

func (p Period) location() *time.Location {
	switch {
	case !p.From.IsZero():
		return p.From.Location()
	case !p.To.IsZero():
		return p.To.Location()
	}
	return nil
}

// IsOpen reports whether the period has no bounds at all.
func (p Period) IsOpen() bool {
	return p.From.IsZero() && p.To.IsZero()
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Board is the three-lane yard view.
type Board struct {
	Scheduled []ServiceRecord `json:"scheduled"`
	Washing   []ServiceRecord `json:"washing"`
	Done      []ServiceRecord `json:"done"`
}

// Lane returns the records of one status lane.
func (b Board) Lane(status Status) []ServiceRecord {
	switch status {
	case StatusScheduled:
		return b.Scheduled
	case StatusWashing:
		return b.Washing
	case StatusDone:
		return b.Done
	default:
		return nil
	}
}

// Summary holds the KPI tile values for a period.
type Summary struct {
	Revenue        decimal.Decimal `json:"revenue"`
	Pending        decimal.Decimal `json:"pending"`
	Expenses       decimal.Decimal `json:"expenses"`
	Profit         decimal.Decimal `json:"profit"`
	ScheduledCount int             `json:"scheduled_count"`
	WashingCount   int             `json:"washing_count"`
	DoneCount      int             `json:"done_count"`
}

// PeriodReport is everything the reports screen exports for a period.
type PeriodReport struct {
	Period   Period
	Summary  Summary
	Services []ServiceRecord
	Expenses []ExpenseRecord
}

// DailyReport represents the end-of-day close stored in MongoDB.
type DailyReport struct {
	Date              time.Time       `json:"date"`
	ServicesScheduled int             `json:"services_scheduled"`
	ServicesDone      int             `json:"services_done"`
	Revenue           decimal.Decimal `json:"revenue"`
	Pending           decimal.Decimal `json:"pending"`
	Expenses          decimal.Decimal `json:"expenses"`
	Profit            decimal.Decimal `json:"profit"`
	CreatedAt         time.Time       `json:"created_at"`
}
