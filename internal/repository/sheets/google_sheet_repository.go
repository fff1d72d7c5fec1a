package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/liancar/yard/internal/config"
)

const (
	maxAttempts = 3
	// RAW keeps ids, dates and amounts exactly as written.
	valueInput = "RAW"
)

// Repository defines the raw cell operations the sheet-backed stores rely on.
type Repository interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
	UpdateRange(ctx context.Context, sheetRange string, values []interface{}) error
}

// GoogleSheetRepository implements Repository using the Google Sheets API.
// Calls rejected for quota (429) or server errors are retried with backoff.
type GoogleSheetRepository struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	backoff       time.Duration
	logger        *zap.Logger
}

// NewGoogleSheetRepository authenticates with the service-account file in cfg.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	svc, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		backoff:       time.Second,
		logger:        logger,
	}, nil
}

// WriteRow appends values as a new row after the table in sheetRange.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return errors.New("sheetRange must not be empty")
	}

	err := r.withRetry(ctx, "append", sheetRange, func() error {
		_, err := r.values.Append(r.spreadsheetID, sheetRange, singleRow(values)).
			ValueInputOption(valueInput).
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}
	return nil
}

// ReadRange fetches a rectangular data range from the spreadsheet.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, errors.New("sheetRange must not be empty")
	}

	var rows [][]interface{}
	err := r.withRetry(ctx, "read", sheetRange, func() error {
		resp, err := r.values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
		if err != nil {
			return err
		}
		rows = resp.Values
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}
	return rows, nil
}

// UpdateRange overwrites the cells of a single-row range such as "Servicos!G5".
func (r *GoogleSheetRepository) UpdateRange(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return errors.New("sheetRange must not be empty")
	}

	err := r.withRetry(ctx, "update", sheetRange, func() error {
		_, err := r.values.Update(r.spreadsheetID, sheetRange, singleRow(values)).
			ValueInputOption(valueInput).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("update range %s: %w", sheetRange, err)
	}
	return nil
}

func (r *GoogleSheetRepository) withRetry(ctx context.Context, op, sheetRange string, fn func() error) error {
	wait := r.backoff
	for attempt := 1; ; attempt++ {
		start := time.Now()
		err := fn()
		if err == nil {
			r.logger.Debug("sheets call",
				zap.String("op", op),
				zap.String("range", sheetRange),
				zap.Duration("duration", time.Since(start)))
			return nil
		}
		if attempt == maxAttempts || !retryable(err) {
			return err
		}

		r.logger.Warn("sheets call throttled, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}

func retryable(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code == http.StatusTooManyRequests || gerr.Code >= http.StatusInternalServerError
}

func singleRow(values []interface{}) *sheetsapi.ValueRange {
	return &sheetsapi.ValueRange{Values: [][]interface{}{values}}
}
