// Package store persists submitted reports, their check results and the
// system configuration documents edited by administrators.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ppiankov/proofline/internal/model"
)

// ErrNotFound is returned for unknown report ids and config keys
var ErrNotFound = errors.New("not found")

// Keys of the stored configuration documents
const (
	KeyRuleConfig   = "rule_config"
	KeyPromptConfig = "prompt_config"
)

// Store is the persistence surface used by the CLI
type Store interface {
	AddReport(ctx context.Context, r *model.Report) (int64, error)
	Report(ctx context.Context, id int64) (*model.Report, error)
	Reports(ctx context.Context) ([]model.Report, error)
	SaveResult(ctx context.Context, id int64, result model.CheckResult) error
	SetDaily(ctx context.Context, e *model.DailyEntry) error
	DailyEntries(ctx context.Context, member string, start, end time.Time) ([]model.DailyEntry, error)
	SetConfig(ctx context.Context, key, value, description string) error
	Config(ctx context.Context, key string) (string, error)
	Close() error
}

// Open opens the SQLite store at path, or an in-memory store when path is empty
func Open(path string) (Store, error) {
	if strings.TrimSpace(path) == "" {
		return NewMemoryStore(), nil
	}
	return NewSQLiteStore(path)
}

func validateDaily(e *model.DailyEntry) error {
	if e == nil {
		return errors.New("daily entry is nil")
	}
	if strings.TrimSpace(e.Member) == "" {
		return errors.New("daily entry member is required")
	}
	if e.Date.IsZero() {
		return errors.New("daily entry date is required")
	}
	return nil
}

func validateReport(r *model.Report) error {
	if r == nil {
		return errors.New("report is nil")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("report name is required")
	}
	if strings.TrimSpace(r.CurrentWork) == "" && strings.TrimSpace(r.NextPlan) == "" {
		return errors.New("report has no content")
	}
	return nil
}
