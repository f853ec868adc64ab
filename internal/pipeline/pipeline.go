// Package pipeline orchestrates a proofreading check: the rule scanner over
// the whole report, then the model-backed agents over each section.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/proofline/internal/agent"
	"github.com/ppiankov/proofline/internal/config"
	"github.com/ppiankov/proofline/internal/extract"
	"github.com/ppiankov/proofline/internal/llm"
	"github.com/ppiankov/proofline/internal/model"
	"github.com/ppiankov/proofline/internal/rules"
	"github.com/ppiankov/proofline/internal/worker"
)

// Pipeline runs checks. It holds no per-check state and is safe for
// concurrent use.
type Pipeline struct {
	source  config.Source
	agents  []*agent.Agent // One per role, in launch order
	workers int
	logger  *zap.Logger
}

// Option configures a Pipeline
type Option func(*options)

type options struct {
	logger  *zap.Logger
	limiter *worker.Limiter
	workers int
	timeout time.Duration
}

// WithLogger sets the logger shared with the agents
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLimiter throttles model calls
func WithLimiter(l *worker.Limiter) Option {
	return func(o *options) { o.limiter = l }
}

// WithWorkers caps concurrent model calls in batch mode; 0 runs every task at once
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithAgentTimeout sets the per-call timeout used when the config has none
func WithAgentTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New creates a pipeline. provider may be nil, in which case only the rule
// scanner produces issues.
func New(source config.Source, provider llm.Provider, opts ...Option) *Pipeline {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	agentOpts := []agent.Option{agent.WithLogger(o.logger), agent.WithTimeout(o.timeout)}
	if o.limiter != nil {
		agentOpts = append(agentOpts, agent.WithLimiter(o.limiter))
	}

	var agents []*agent.Agent
	for _, role := range agent.Roles() {
		agents = append(agents, agent.New(role, provider, source, agentOpts...))
	}

	return &Pipeline{
		source:  source,
		agents:  agents,
		workers: o.workers,
		logger:  o.logger,
	}
}

// task is one (section, role) agent call
type task struct {
	stage   model.Stage
	section string
	agent   *agent.Agent
}

// sectionStages names the stages of each section, by role launch order
var sectionStages = [][]model.Stage{
	{model.StageTypoCurrent, model.StagePunctCurrent},
	{model.StageTypoNext, model.StagePunctNext},
}

// tasks lists agent calls in launch order: section by section, typo first
func (p *Pipeline) tasks(text string) []task {
	var tasks []task
	for i, section := range extract.Split(text) {
		if i >= len(sectionStages) {
			break
		}
		for j, a := range p.agents {
			tasks = append(tasks, task{stage: sectionStages[i][j], section: section, agent: a})
		}
	}
	return tasks
}

type taskResult struct {
	stage  model.Stage
	issues []model.Issue
	err    error
}

func (r *taskResult) GetError() error {
	return r.err
}

// CheckBatch scans text, runs every agent call concurrently and merges the
// results. Any agent failure fails the whole check with an *AggregateError;
// sibling calls still run to completion but their output is discarded.
func (p *Pipeline) CheckBatch(ctx context.Context, text string) (model.CheckResult, error) {
	// 1. Rules
	issues := rules.Scan(text, p.source.RuleConfig(ctx))

	// 2. Fan out
	tasks := p.tasks(text)
	jobs := make([]worker.Job, len(tasks))
	for i, t := range tasks {
		t := t
		jobs[i] = worker.JobFunc(func(ctx context.Context) worker.Result {
			found, err := t.agent.Check(ctx, t.section)
			return &taskResult{stage: t.stage, issues: found, err: err}
		})
	}

	workers := p.workers
	if workers <= 0 {
		workers = len(jobs)
	}
	results := worker.Run(ctx, workers, jobs)

	// 3. Collect by launch index
	var failures []error
	for i, r := range results {
		if err := r.GetError(); err != nil {
			p.logger.Warn("agent call failed", zap.String("stage", string(tasks[i].stage)), zap.Error(err))
			failures = append(failures, err)
			continue
		}
		if tr, ok := r.(*taskResult); ok {
			issues = append(issues, tr.issues...)
		}
	}
	if len(failures) > 0 {
		return model.CheckResult{}, newAggregateError(failures)
	}

	// 4. Merge
	return model.NewCheckResult(issues), nil
}
