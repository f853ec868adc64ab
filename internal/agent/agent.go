// Package agent runs one model-backed proofreading role over a section of a
// report and turns the reply into tagged issues.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/proofline/internal/config"
	"github.com/ppiankov/proofline/internal/llm"
	"github.com/ppiankov/proofline/internal/model"
	"github.com/ppiankov/proofline/internal/validate"
	"github.com/ppiankov/proofline/internal/worker"
)

const (
	// MaxAttempts bounds calls per Check: the first try plus one retry
	MaxAttempts = 2

	defaultTimeout     = 60 * time.Second
	defaultTemperature = 0.1

	// replyLogLimit caps the raw reply kept on MalformedResponseError
	replyLogLimit = 500
)

// Agent checks section text for one role
type Agent struct {
	role     Role
	provider llm.Provider
	source   config.Source
	limiter  *worker.Limiter
	logger   *zap.Logger
	timeout  time.Duration
}

// Option configures an Agent
type Option func(*Agent)

// WithLimiter throttles model calls per provider
func WithLimiter(l *worker.Limiter) Option {
	return func(a *Agent) { a.limiter = l }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTimeout sets the per-call timeout used when the config has none
func WithTimeout(d time.Duration) Option {
	return func(a *Agent) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// New creates an agent for role. A nil provider yields an agent that always
// returns no issues.
func New(role Role, provider llm.Provider, source config.Source, opts ...Option) *Agent {
	a := &Agent{
		role:     role,
		provider: provider,
		source:   source,
		logger:   zap.NewNop(),
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Role returns the role the agent checks for
func (a *Agent) Role() Role {
	return a.role
}

// Check returns the issues the model finds in text. It makes no call when no
// credential is configured or the role is disabled. After MaxAttempts failed
// attempts it returns an *AgentError.
func (a *Agent) Check(ctx context.Context, text string) ([]model.Issue, error) {
	if a.provider == nil {
		return nil, nil
	}

	llmCfg := a.source.LLM(ctx)
	if llmCfg.Credential() == "" {
		a.logger.Debug("no model credential, skipping", zap.String("role", a.role.Name))
		return nil, nil
	}

	prompts := a.source.PromptConfig(ctx)
	if !a.role.Enabled(prompts) {
		a.logger.Debug("role disabled, skipping", zap.String("role", a.role.Name))
		return nil, nil
	}
	prompt := a.role.Prompt(prompts)

	var lastErr error
	attempts := 0
	for attempts < MaxAttempts {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = &TransportError{Err: err}
			}
			break
		}

		attempts++
		issues, err := a.attempt(ctx, prompt, text, llmCfg)
		if err == nil {
			return issues, nil
		}
		if errors.Is(err, llm.ErrNotConfigured) {
			a.logger.Warn("model not configured, skipping", zap.String("role", a.role.Name), zap.Error(err))
			return nil, nil
		}

		lastErr = err
		a.logger.Warn("model check attempt failed",
			zap.String("role", a.role.Name),
			zap.String("provider", a.provider.Name()),
			zap.Int("attempt", attempts),
			zap.Error(err))
	}

	return nil, &AgentError{Role: a.role.Name, Attempts: attempts, Err: lastErr}
}

// replyIssue is one entry of the model's issue list
type replyIssue struct {
	Type       string `json:"type"`
	Location   string `json:"location"`
	Context    string `json:"context"`
	Original   string `json:"original"`
	Suggestion string `json:"suggestion"`
}

type replyDocument struct {
	Issues []replyIssue `json:"issues"`
}

// attempt performs one model call and decodes its reply
func (a *Agent) attempt(ctx context.Context, prompt, text string, llmCfg model.LLMConfig) ([]model.Issue, error) {
	// 1. Throttle
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, a.provider.Name()); err != nil {
			return nil, &TransportError{Err: err}
		}
	}

	// 2. Call
	timeout := a.timeout
	if llmCfg.Timeout > 0 {
		timeout = time.Duration(llmCfg.Timeout) * time.Second
	}
	temperature := llmCfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply, err := a.provider.Complete(callCtx, prompt, text, temperature)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return nil, err
		}
		return nil, &TransportError{Err: err}
	}

	// 3. Extract and decode
	body, ok := ExtractJSON(reply)
	if !ok {
		return nil, &MalformedResponseError{Reply: truncate(reply, replyLogLimit)}
	}

	var doc replyDocument
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, &MalformedResponseError{Reply: truncate(reply, replyLogLimit), Err: err}
	}

	// 4. Filter and tag
	issues := make([]model.Issue, 0, len(doc.Issues))
	for _, entry := range doc.Issues {
		issue := model.Issue{
			Kind:       a.role.Kind,
			Severity:   a.role.Severity,
			Location:   entry.Location,
			Context:    entry.Context,
			Original:   entry.Original,
			Suggestion: entry.Suggestion,
			Source:     a.role.Source,
		}
		if !issue.Valid() {
			continue
		}
		issues = append(issues, issue)
	}
	issues = model.DedupeIssues(issues)

	kept, dropped := validate.Issues(text, issues)
	if len(dropped) > 0 {
		a.logger.Debug("dropped inapplicable model issues",
			zap.String("role", a.role.Name),
			zap.Int("dropped", len(dropped)))
	}
	if kept == nil {
		kept = []model.Issue{}
	}
	return kept, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
