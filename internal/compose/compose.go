// Package compose drafts report text with the model provider: it polishes a
// member's daily update and folds a week of daily updates into a summary.
package compose

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/proofline/internal/config"
	"github.com/ppiankov/proofline/internal/llm"
	"github.com/ppiankov/proofline/internal/model"
	"github.com/ppiankov/proofline/internal/worker"
)

const (
	// Sampling temperature of every composing call
	temperature = 0.3

	defaultTimeout = 60 * time.Second
)

var (
	// ErrEmptyContent is returned when there is nothing to polish
	ErrEmptyContent = errors.New("daily update is empty")

	// ErrNoEntries is returned when a summary range holds no daily updates
	ErrNoEntries = errors.New("该时间范围内没有每日动态记录")
)

// weekdays maps time.Weekday to its Chinese short name
var weekdays = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// Composer drafts text through a model provider
type Composer struct {
	provider llm.Provider
	source   config.Source
	limiter  *worker.Limiter
	logger   *zap.Logger
	timeout  time.Duration
}

// Option configures a Composer
type Option func(*Composer)

// WithLimiter throttles model calls per provider
func WithLimiter(l *worker.Limiter) Option {
	return func(c *Composer) { c.limiter = l }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout sets the per-call timeout used when the config has none
func WithTimeout(d time.Duration) Option {
	return func(c *Composer) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a Composer. Unlike proofreading, composing cannot degrade:
// every call fails with llm.ErrNotConfigured when provider is nil.
func New(provider llm.Provider, source config.Source, opts ...Option) *Composer {
	c := &Composer{
		provider: provider,
		source:   source,
		logger:   zap.NewNop(),
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Optimize returns the polished form of a daily update
func (c *Composer) Optimize(ctx context.Context, content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}

	prompt := pick(c.source.PromptConfig(ctx).DailyOptimizePrompt, optimizePrompt)
	return c.complete(ctx, "optimize", prompt, "请优化以下每日动态：\n\n"+content)
}

// WeeklySummary folds the daily updates into one summary. Entries are
// presented to the model in date order.
func (c *Composer) WeeklySummary(ctx context.Context, entries []model.DailyEntry) (string, error) {
	input := SummaryInput(entries)
	if input == "" {
		return "", ErrNoEntries
	}

	prompt := pick(c.source.PromptConfig(ctx).WeeklySummaryPrompt, weeklySummaryPrompt)
	return c.complete(ctx, "weekly_summary", prompt, "请根据以下每日动态生成周小结：\n\n"+input)
}

// SummaryInput renders entries one per line as "12月2日 周一: 内容" in date
// order. Blank entries are skipped.
func SummaryInput(entries []model.DailyEntry) string {
	sorted := make([]model.DailyEntry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Content) != "" {
			sorted = append(sorted, e)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	lines := make([]string, 0, len(sorted))
	for _, e := range sorted {
		lines = append(lines, fmt.Sprintf("%s: %s", DayLabel(e.Date), strings.TrimSpace(e.Content)))
	}
	return strings.Join(lines, "\n")
}

// Digest renders the updates of one day as a numbered list under a dated
// title, one member per line in the given order
func Digest(day time.Time, entries []model.DailyEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "每日动态（%s）", DayLabel(day))
	n := 0
	for _, e := range entries {
		content := strings.TrimSpace(e.Content)
		if content == "" {
			continue
		}
		n++
		fmt.Fprintf(&b, "\n%d、%s %s", n, e.Member, content)
	}
	return b.String()
}

// DayLabel formats t as "12月2日 周一"
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%d月%d日 %s", int(t.Month()), t.Day(), weekdays[t.Weekday()])
}

func (c *Composer) complete(ctx context.Context, task, prompt, text string) (string, error) {
	if c.provider == nil {
		return "", llm.ErrNotConfigured
	}
	llmCfg := c.source.LLM(ctx)
	if llmCfg.Credential() == "" {
		return "", llm.ErrNotConfigured
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.provider.Name()); err != nil {
			return "", err
		}
	}

	timeout := c.timeout
	if llmCfg.Timeout > 0 {
		timeout = time.Duration(llmCfg.Timeout) * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	reply, err := c.provider.Complete(callCtx, prompt, text, temperature)
	if err != nil {
		return "", fmt.Errorf("%s: %w", task, err)
	}
	c.logger.Debug("composed text",
		zap.String("task", task),
		zap.String("provider", c.provider.Name()),
		zap.Duration("elapsed", time.Since(start)))

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("%s: model returned an empty reply", task)
	}
	return reply, nil
}

func pick(override, fallback string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return fallback
}
