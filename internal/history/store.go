// Package history keeps a local SQLite log of completed analyses.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/narrative-risk/riskview/internal/core"
)

//go:embed migrations/001_initial_schema.sql
var migrationV1 string

// timestampLayout keeps created_at fixed width so text order is time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one stored analysis. Report is only populated by Get.
type Entry struct {
	ID                  string
	Input               string
	InputType           core.InputType
	RiskLevel           core.RiskLevel
	MisinformationScore int
	CreatedAt           time.Time
	Report              *core.AnalysisReport
}

// ShortID returns the first eight characters of the ID.
func (e Entry) ShortID() string {
	if len(e.ID) <= 8 {
		return e.ID
	}
	return e.ID[:8]
}

// Store is a SQLite-backed history. It is safe for concurrent use.
type Store struct {
	path  string
	db    *sql.DB
	limit int
	now   func() time.Time

	maxRetries    int
	baseRetryWait time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLimit keeps at most n entries, dropping the oldest. Zero keeps everything.
func WithLimit(n int) Option {
	return func(s *Store) {
		s.limit = n
	}
}

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens or creates the history database at path.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:          path,
		now:           time.Now,
		maxRetries:    5,
		baseRetryWait: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, unavailable("creating history directory", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, unavailable("opening history database", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	s.db = db

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, unavailable("migrating history database", err)
	}
	return s, nil
}

func unavailable(what string, err error) error {
	return core.ErrInternal(core.CodeHistoryUnavailable, what+" failed").WithCause(err)
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("checking schema version: %w", err)
	}

	for i, migration := range []string{migrationV1} {
		version := i + 1
		if version <= current {
			continue
		}
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration v%d: %w", version, err)
		}
		for _, stmt := range splitStatements(migration) {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("executing migration v%d: %w", version, err)
			}
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration v%d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration v%d: %w", version, err)
		}
	}
	return nil
}

// splitStatements splits a SQL script on semicolons and drops comment lines.
func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(stmt, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" && !strings.HasPrefix(trimmed, "--") {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	return out
}

// Save stores a completed analysis and prunes entries beyond the limit.
func (s *Store) Save(ctx context.Context, input string, r *core.AnalysisReport) (Entry, error) {
	if r == nil {
		return Entry{}, core.ErrValidation(core.CodeMalformedReport, "cannot save an empty report")
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding report: %w", err)
	}

	e := Entry{
		ID:                  uuid.NewString(),
		Input:               input,
		InputType:           r.InputType,
		RiskLevel:           r.RiskLevel,
		MisinformationScore: r.MisinformationScore,
		CreatedAt:           s.now().UTC(),
		Report:              r,
	}

	err = s.retryWrite(ctx, "saving analysis", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO analyses
			(id, input, input_type, risk_level, misinformation_score, report, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Input, string(e.InputType), string(e.RiskLevel), e.MisinformationScore,
			string(raw), e.CreatedAt.Format(timestampLayout)); err != nil {
			_ = tx.Rollback()
			return err
		}
		if s.limit > 0 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM analyses WHERE id NOT IN (
				SELECT id FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT ?)`, s.limit); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return Entry{}, unavailable("saving analysis", err)
	}
	return e, nil
}

// Record saves an analysis, discarding the entry.
func (s *Store) Record(ctx context.Context, input string, r *core.AnalysisReport) error {
	_, err := s.Save(ctx, input, r)
	return err
}

// List returns up to n entries, newest first, without their reports. n <= 0
// lists everything.
func (s *Store) List(ctx context.Context, n int) ([]Entry, error) {
	query := `SELECT id, input, input_type, risk_level, misinformation_score, created_at
		FROM analyses ORDER BY created_at DESC, rowid DESC`
	var args []any
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("listing history", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			inputType string
			risk      string
			created   string
		)
		if err := rows.Scan(&e.ID, &e.Input, &inputType, &risk, &e.MisinformationScore, &created); err != nil {
			return nil, unavailable("reading history", err)
		}
		e.InputType = core.InputType(inputType)
		e.RiskLevel = core.RiskLevel(risk)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("reading history", err)
	}
	return entries, nil
}

// Get returns the entry whose ID is id or starts with id, including its report.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, core.ErrValidation(core.CodeEmptyInput, "history id is empty")
	}
	if strings.Trim(id, "0123456789abcdef-") != "" {
		return nil, core.ErrValidation(core.CodeInvalidFormat, fmt.Sprintf("%q is not a history id", id))
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, input, input_type, risk_level, misinformation_score, report, created_at
		FROM analyses WHERE id = ? OR id LIKE ? ORDER BY created_at DESC LIMIT 2`,
		id, id+"%")
	if err != nil {
		return nil, unavailable("reading history", err)
	}
	defer rows.Close()

	var found []Entry
	for rows.Next() {
		var (
			e         Entry
			inputType string
			risk      string
			raw       string
			created   string
		)
		if err := rows.Scan(&e.ID, &e.Input, &inputType, &risk, &e.MisinformationScore, &raw, &created); err != nil {
			return nil, unavailable("reading history", err)
		}
		e.InputType = core.InputType(inputType)
		e.RiskLevel = core.RiskLevel(risk)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)

		var r core.AnalysisReport
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, core.ErrDecode("stored report is corrupt").WithCause(err)
		}
		e.Report = &r
		if e.ID == id {
			return &e, nil
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("reading history", err)
	}

	switch len(found) {
	case 0:
		return nil, core.ErrNotFound("analysis", id)
	case 1:
		return &found[0], nil
	default:
		return nil, core.ErrValidation("AMBIGUOUS_ID", fmt.Sprintf("history id %q matches more than one analysis", id))
	}
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var n int64
	err := s.retryWrite(ctx, "clearing history", func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM analyses")
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, unavailable("clearing history", err)
	}
	return n, nil
}

func (s *Store) retryWrite(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isBusy(err) {
			return err
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.baseRetryWait * time.Duration(1<<attempt)):
		}
	}
	return fmt.Errorf("%s failed after %d retries: %w", operation, s.maxRetries, lastErr)
}

func isBusy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED")
}
