package compose

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/proofline/internal/config"
	"github.com/ppiankov/proofline/internal/llm"
	"github.com/ppiankov/proofline/internal/model"
)

// recordingProvider answers every call with reply and keeps what it was sent
type recordingProvider struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
	texts   []string
	temps   []float64
}

func (p *recordingProvider) Name() string { return "fake" }

func (p *recordingProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *recordingProvider) Complete(ctx context.Context, systemPrompt, userText string, temperature float64) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, systemPrompt)
	p.texts = append(p.texts, userText)
	p.temps = append(p.temps, temperature)
	return p.reply, p.err
}

func configured() *config.Static {
	s := config.NewStatic(nil)
	s.Model.Provider = "deepseek"
	s.Model.APIKey = "sk-test"
	return s
}

func date(month time.Month, day int) time.Time {
	return time.Date(2024, month, day, 0, 0, 0, 0, time.UTC)
}

func TestOptimize(t *testing.T) {
	provider := &recordingProvider{reply: "  1.走访三家企业，了解用工需求。\n"}

	got, err := New(provider, configured()).Optimize(context.Background(), " 1.走访了三家企业,了解用工需求 ")
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if got != "1.走访三家企业，了解用工需求。" {
		t.Errorf("Expected trimmed reply, got %q", got)
	}
	if provider.prompts[0] != optimizePrompt {
		t.Errorf("Expected built-in prompt")
	}
	if provider.texts[0] != "请优化以下每日动态：\n\n1.走访了三家企业,了解用工需求" {
		t.Errorf("Unexpected user text %q", provider.texts[0])
	}
	if provider.temps[0] != 0.3 {
		t.Errorf("Expected temperature 0.3, got %v", provider.temps[0])
	}
}

func TestOptimize_PromptOverride(t *testing.T) {
	src := configured()
	src.Prompts.DailyOptimizePrompt = "只改错别字"
	provider := &recordingProvider{reply: "ok"}

	if _, err := New(provider, src).Optimize(context.Background(), "内容"); err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if provider.prompts[0] != "只改错别字" {
		t.Errorf("Expected override prompt, got %q", provider.prompts[0])
	}
}

func TestOptimize_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := New(&recordingProvider{reply: "x"}, configured()).Optimize(ctx, "  \n"); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Expected ErrEmptyContent, got %v", err)
	}

	if _, err := New(nil, configured()).Optimize(ctx, "内容"); !errors.Is(err, llm.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured for nil provider, got %v", err)
	}

	provider := &recordingProvider{reply: "x"}
	if _, err := New(provider, config.NewStatic(nil)).Optimize(ctx, "内容"); !errors.Is(err, llm.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured without credential, got %v", err)
	}
	if len(provider.prompts) != 0 {
		t.Errorf("Expected no model call without credential, got %d", len(provider.prompts))
	}

	failing := &recordingProvider{err: errors.New("connection refused")}
	if _, err := New(failing, configured()).Optimize(ctx, "内容"); err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Expected transport error, got %v", err)
	}

	if _, err := New(&recordingProvider{reply: " \n "}, configured()).Optimize(ctx, "内容"); err == nil {
		t.Error("Expected error for empty reply")
	}
}

func TestWeeklySummary(t *testing.T) {
	provider := &recordingProvider{reply: "1.走访企业；\n2.完成报告。"}
	entries := []model.DailyEntry{
		{Member: "张三", Date: date(12, 3), Content: "完成报告"},
		{Member: "张三", Date: date(12, 2), Content: "走访企业"},
	}

	got, err := New(provider, configured()).WeeklySummary(context.Background(), entries)
	if err != nil {
		t.Fatalf("WeeklySummary failed: %v", err)
	}
	if got != "1.走访企业；\n2.完成报告。" {
		t.Errorf("Unexpected summary %q", got)
	}

	want := "请根据以下每日动态生成周小结：\n\n12月2日 周一: 走访企业\n12月3日 周二: 完成报告"
	if provider.texts[0] != want {
		t.Errorf("Expected user text %q, got %q", want, provider.texts[0])
	}
	if provider.prompts[0] != weeklySummaryPrompt {
		t.Errorf("Expected built-in prompt")
	}
}

func TestWeeklySummary_NoEntries(t *testing.T) {
	provider := &recordingProvider{reply: "x"}
	blank := []model.DailyEntry{{Member: "张三", Date: date(12, 2), Content: "  "}}

	for _, entries := range [][]model.DailyEntry{nil, blank} {
		if _, err := New(provider, configured()).WeeklySummary(context.Background(), entries); !errors.Is(err, ErrNoEntries) {
			t.Errorf("Expected ErrNoEntries, got %v", err)
		}
	}
	if len(provider.prompts) != 0 {
		t.Errorf("Expected no model call, got %d", len(provider.prompts))
	}
}

func TestDigest(t *testing.T) {
	entries := []model.DailyEntry{
		{Member: "张三", Date: date(12, 2), Content: "走访企业"},
		{Member: "李四", Date: date(12, 2), Content: ""},
		{Member: "王五", Date: date(12, 2), Content: "整理台账"},
	}

	want := "每日动态（12月2日 周一）\n1、张三 走访企业\n2、王五 整理台账"
	if got := Digest(date(12, 2), entries); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if got := Digest(date(12, 8), nil); got != "每日动态（12月8日 周日）" {
		t.Errorf("Unexpected empty digest %q", got)
	}
}
