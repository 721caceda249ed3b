package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/report"
)

// FragmentStore keeps archived copies of published report fragments. It serves as a
// report source for the loader and as the archive job's sink.
type FragmentStore struct {
	db           *sql.DB
	stmtSave     *sql.Stmt
	stmtFetch    *sql.Stmt
	stmtListDays *sql.Stmt
	now          func() time.Time
}

// NewFragmentStore validates the schema and prepares statements on db.
// Migrations must have run first (see internal/migrations).
func NewFragmentStore(db *sql.DB) (*FragmentStore, error) {
	if err := validateSchema(db); err != nil {
		return nil, fmt.Errorf("schema validation failed - did you run migrations?: %w", err)
	}

	stmtSave, err := db.Prepare(querySaveFragment)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare saveFragment statement: %w", err)
	}

	stmtFetch, err := db.Prepare(queryFetchFragment)
	if err != nil {
		stmtSave.Close()
		return nil, fmt.Errorf("failed to prepare fetchFragment statement: %w", err)
	}

	stmtListDays, err := db.Prepare(queryArchivedDays)
	if err != nil {
		stmtSave.Close()
		stmtFetch.Close()
		return nil, fmt.Errorf("failed to prepare archivedDays statement: %w", err)
	}

	slog.Info("[Postgres] Fragment store initialized with prepared statements")

	return &FragmentStore{
		db:           db,
		stmtSave:     stmtSave,
		stmtFetch:    stmtFetch,
		stmtListDays: stmtListDays,
		now:          time.Now,
	}, nil
}

// Fetch returns the archived body of key, or report.ErrNotFound.
func (s *FragmentStore) Fetch(ctx context.Context, key report.Key) ([]byte, error) {
	env, ext := keyDefaults(key)

	var body []byte
	err := s.stmtFetch.QueryRowContext(ctx, env, key.Name, report.TruncateToDay(key.Date), ext).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", report.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fragment %s: %w", key, err)
	}
	return body, nil
}

// Save stores data under key, replacing any earlier copy.
func (s *FragmentStore) Save(ctx context.Context, key report.Key, data []byte) error {
	env, ext := keyDefaults(key)

	_, err := s.stmtSave.ExecContext(ctx, env, key.Name, report.TruncateToDay(key.Date), ext, data, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save fragment %s: %w", key, err)
	}

	slog.Debug("[Postgres] Saved fragment", "report", key.Name, "date", report.FormatDay(key.Date), "bytes", len(data))
	return nil
}

// ArchivedDays lists the days of name already stored in [start, finish).
func (s *FragmentStore) ArchivedDays(ctx context.Context, name, ext, env string, start, finish time.Time) ([]time.Time, error) {
	env, ext = keyDefaults(report.Key{Env: env, Ext: ext})

	rows, err := s.stmtListDays.QueryContext(ctx, env, name, ext, start.UTC(), finish.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query archived days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan archived day: %w", err)
		}
		days = append(days, report.TruncateToDay(day))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archived days: %w", err)
	}
	return days, nil
}

// Close releases prepared statements and the database connection.
func (s *FragmentStore) Close() error {
	s.stmtSave.Close()
	s.stmtFetch.Close()
	s.stmtListDays.Close()
	return s.db.Close()
}

func keyDefaults(key report.Key) (env, ext string) {
	env, ext = key.Env, key.Ext
	if env == "" {
		env = report.DefaultEnv
	}
	if ext == "" {
		ext = report.ExtJSON
	}
	return env, ext
}
