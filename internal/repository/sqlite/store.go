package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/liancar/yard/internal/apperrors"
	"github.com/liancar/yard/internal/domain/models"
	"github.com/liancar/yard/internal/repository/sqlite/migrations"
)

const serviceColumns = "id, created_at, client, plate, service_type, amount, status"

// Store is an embedded SQLite database holding service and expense records.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore opens (creating if needed) the database file at path and runs migrations.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path must not be empty")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps status updates serialized.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every *.up.sql file newer than the recorded schema version.
func (s *Store) migrate(fsys fs.FS) error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// ListAll returns every service record in insertion order.
func (s *Store) ListAll(ctx context.Context) ([]models.ServiceRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+serviceColumns+" FROM service_records ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("querying service records: %w", err)
	}
	defer rows.Close()

	records := []models.ServiceRecord{}
	for rows.Next() {
		record, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating service records: %w", err)
	}
	return records, nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (models.ServiceRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+serviceColumns+" FROM service_records WHERE id = ?", id)
	record, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ServiceRecord{}, fmt.Errorf("%w: service %s", apperrors.ErrNotFound, id)
	}
	return record, err
}

// Insert validates and stores a new record in the Scheduled lane.
func (s *Store) Insert(ctx context.Context, in models.NewServiceRecord) (models.ServiceRecord, error) {
	if err := in.Validate(); err != nil {
		return models.ServiceRecord{}, err
	}

	record := in.Build(uuid.NewString(), s.now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO service_records (id, created_at, client, plate, service_type, amount, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		formatTime(record.CreatedAt),
		record.Client,
		record.Plate,
		record.ServiceType,
		record.Amount.String(),
		string(record.Status),
	)
	if err != nil {
		return models.ServiceRecord{}, fmt.Errorf("inserting service record: %w", err)
	}
	return record, nil
}

// UpdateStatus sets next only where the row still holds expected.
func (s *Store) UpdateStatus(ctx context.Context, id string, expected, next models.Status) (models.ServiceRecord, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE service_records SET status = ? WHERE id = ? AND status = ?",
		string(next), id, string(expected),
	)
	if err != nil {
		return models.ServiceRecord{}, fmt.Errorf("updating service status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return models.ServiceRecord{}, fmt.Errorf("updating service status: %w", err)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return models.ServiceRecord{}, err
	}
	if affected == 0 {
		return models.ServiceRecord{}, fmt.Errorf("%w: service %s is %s", apperrors.ErrConflict, id, current.Status)
	}
	return current, nil
}

// ListExpenses returns every expense in insertion order.
func (s *Store) ListExpenses(ctx context.Context) ([]models.ExpenseRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, date, description, amount FROM expense_records ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("querying expense records: %w", err)
	}
	defer rows.Close()

	expenses := []models.ExpenseRecord{}
	for rows.Next() {
		var (
			expense      models.ExpenseRecord
			date, amount string
		)
		if err := rows.Scan(&expense.ID, &date, &expense.Description, &amount); err != nil {
			return nil, fmt.Errorf("scanning expense record: %w", err)
		}
		if expense.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		if expense.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parsing expense amount %q: %w", amount, err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense records: %w", err)
	}
	return expenses, nil
}

// InsertExpense validates and stores a new expense.
func (s *Store) InsertExpense(ctx context.Context, in models.NewExpenseRecord) (models.ExpenseRecord, error) {
	if err := in.Validate(); err != nil {
		return models.ExpenseRecord{}, err
	}

	record := in.Build(uuid.NewString(), s.now())
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO expense_records (id, date, description, amount) VALUES (?, ?, ?, ?)",
		record.ID, formatTime(record.Date), record.Description, record.Amount.String(),
	)
	if err != nil {
		return models.ExpenseRecord{}, fmt.Errorf("inserting expense record: %w", err)
	}
	return record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanService(row rowScanner) (models.ServiceRecord, error) {
	var (
		record                    models.ServiceRecord
		createdAt, amount, status string
	)
	if err := row.Scan(&record.ID, &createdAt, &record.Client, &record.Plate, &record.ServiceType, &amount, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ServiceRecord{}, err
		}
		return models.ServiceRecord{}, fmt.Errorf("scanning service record: %w", err)
	}

	var err error
	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.ServiceRecord{}, err
	}
	if record.Amount, err = decimal.NewFromString(amount); err != nil {
		return models.ServiceRecord{}, fmt.Errorf("parsing service amount %q: %w", amount, err)
	}
	if record.Status, err = models.ParseStatus(status); err != nil {
		return models.ServiceRecord{}, err
	}
	return record, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", value, err)
	}
	return t, nil
}
