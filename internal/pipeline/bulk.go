package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/proofline/internal/model"
)

// FetchFunc loads a stored report by identifier
type FetchFunc func(ctx context.Context, id int64) (*model.Report, error)

// SaveFunc stores the check result of a report
type SaveFunc func(ctx context.Context, id int64, result model.CheckResult) error

// BulkSummary counts the outcome of a bulk check
type BulkSummary struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Failures  []BulkFailure `json:"failures,omitempty"`
}

// BulkFailure records why one report could not be checked
type BulkFailure struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// CheckBulk checks stored reports one after another in batch mode. A report
// that cannot be fetched, checked or saved is counted as failed and the run
// moves on. Reports not reached before ctx ends count as failed.
func (p *Pipeline) CheckBulk(ctx context.Context, ids []int64, fetch FetchFunc, save SaveFunc) BulkSummary {
	var summary BulkSummary

	for _, id := range ids {
		if err := p.checkOne(ctx, id, fetch, save); err != nil {
			p.logger.Warn("bulk check failed", zap.Int64("id", id), zap.Error(err))
			summary.Failed++
			summary.Failures = append(summary.Failures, BulkFailure{ID: id, Error: err.Error()})
			continue
		}
		summary.Succeeded++
	}

	return summary
}

func (p *Pipeline) checkOne(ctx context.Context, id int64, fetch FetchFunc, save SaveFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	report, err := fetch(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch report %d: %w", id, err)
	}
	if report == nil {
		return fmt.Errorf("fetch report %d: not found", id)
	}

	result, err := p.CheckBatch(ctx, report.Content())
	if err != nil {
		return fmt.Errorf("check report %d: %w", id, err)
	}

	if err := save(ctx, id, result); err != nil {
		return fmt.Errorf("save report %d: %w", id, err)
	}
	return nil
}
