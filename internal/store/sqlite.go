package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/proofline/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	date_range TEXT NOT NULL DEFAULT '',
	current_work TEXT NOT NULL DEFAULT '',
	next_plan TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'submitted',
	check_result TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_name ON reports(name);

CREATE TABLE IF NOT EXISTS daily_reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	member TEXT NOT NULL,
	day TEXT NOT NULL,
	content TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE(member, day)
);
CREATE INDEX IF NOT EXISTS idx_daily_reports_day ON daily_reports(day);

CREATE TABLE IF NOT EXISTS system_configs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	key TEXT NOT NULL UNIQUE,
	value TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL
);
`

// SQLiteStore persists reports and config documents in a SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *SQLiteStore) AddReport(ctx context.Context, r *model.Report) (int64, error) {
	if err := validateReport(r); err != nil {
		return 0, err
	}

	now := formatTime(time.Now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (name, date_range, current_work, next_plan, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.DateRange, r.CurrentWork, r.NextPlan, string(model.StatusSubmitted), now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}
	return res.LastInsertId()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*model.Report, error) {
	var (
		r                    model.Report
		status               string
		checkResult          sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&r.ID, &r.Name, &r.DateRange, &r.CurrentWork, &r.NextPlan,
		&status, &checkResult, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	r.Status = model.ReportStatus(status)
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	if checkResult.Valid && checkResult.String != "" {
		var result model.CheckResult
		if err := json.Unmarshal([]byte(checkResult.String), &result); err != nil {
			return nil, fmt.Errorf("report %d has a corrupt check result: %w", r.ID, err)
		}
		r.CheckResult = &result
	}
	return &r, nil
}

const reportColumns = `id, name, date_range, current_work, next_plan, status, check_result, created_at, updated_at`

func (s *SQLiteStore) Report(ctx context.Context, id int64) (*model.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Reports returns every report ordered by id
func (s *SQLiteStore) Reports(ctx context.Context) ([]model.Report, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+reportColumns+` FROM reports ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

func (s *SQLiteStore) SaveResult(ctx context.Context, id int64, result model.CheckResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode check result: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET check_result = ?, status = ?, updated_at = ? WHERE id = ?`,
		string(data), string(model.StatusChecked), formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to save check result: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("report %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetDaily stores e, replacing the member's entry for the same date. Blank
// content deletes the entry.
func (s *SQLiteStore) SetDaily(ctx context.Context, e *model.DailyEntry) error {
	if err := validateDaily(e); err != nil {
		return err
	}

	day := model.Day(e.Date).Format(model.DayLayout)
	if strings.TrimSpace(e.Content) == "" {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM daily_reports WHERE member = ? AND day = ?`, e.Member, day); err != nil {
			return fmt.Errorf("failed to delete daily entry: %w", err)
		}
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_reports (member, day, content, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(member, day) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		e.Member, day, e.Content, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to save daily entry: %w", err)
	}
	return nil
}

// DailyEntries returns entries dated start through end inclusive, ordered
// by date. An empty member selects every member.
func (s *SQLiteStore) DailyEntries(ctx context.Context, member string, start, end time.Time) ([]model.DailyEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, member, day, content, updated_at FROM daily_reports
		 WHERE day BETWEEN ? AND ? AND (? = '' OR member = ?)
		 ORDER BY day, id`,
		model.Day(start).Format(model.DayLayout), model.Day(end).Format(model.DayLayout), member, member)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.DailyEntry
	for rows.Next() {
		var (
			e              model.DailyEntry
			day, updatedAt string
		)
		if err := rows.Scan(&e.ID, &e.Member, &day, &e.Content, &updatedAt); err != nil {
			return nil, err
		}
		if e.Date, err = time.Parse(model.DayLayout, day); err != nil {
			return nil, fmt.Errorf("daily entry %d has a corrupt date: %w", e.ID, err)
		}
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) SetConfig(ctx context.Context, key, value, description string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO system_configs (key, value, description, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value,
		 description = CASE WHEN excluded.description = '' THEN system_configs.description ELSE excluded.description END,
		 updated_at = excluded.updated_at`,
		key, value, description, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to save config %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Config(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM system_configs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("config %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read config %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
