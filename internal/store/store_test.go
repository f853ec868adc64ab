package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/proofline/internal/config"
	"github.com/ppiankov/proofline/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		Name:        "张三",
		DateRange:   "11.29-12.5",
		CurrentWork: "1.完成接口联调。",
		NextPlan:    "1.准备上线。",
	}
}

func sampleResult() model.CheckResult {
	return model.NewCheckResult([]model.Issue{{
		Kind:       model.KindPunctuation,
		Severity:   model.SeverityError,
		Location:   "本周工作第1条",
		Context:    "完成接口联调,",
		Original:   ",",
		Suggestion: "，",
		Source:     model.SourceRule,
		Rule:       "english_punctuation",
	}})
}

// stores runs each test against both implementations
func stores(t *testing.T) map[string]Store {
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "proofline.db"))
	require.NoError(t, err)

	all := map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range all {
			_ = s.Close()
		}
	})
	return all
}

func TestStore_AddAndGetReport(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			id, err := s.AddReport(ctx, sampleReport())
			require.NoError(t, err)
			assert.Positive(t, id)

			got, err := s.Report(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "张三", got.Name)
			assert.Equal(t, "11.29-12.5", got.DateRange)
			assert.Equal(t, "1.完成接口联调。", got.CurrentWork)
			assert.Equal(t, model.StatusSubmitted, got.Status)
			assert.Nil(t, got.CheckResult)
			assert.False(t, got.CreatedAt.IsZero())
		})
	}
}

func TestStore_ReportNotFound(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Report(context.Background(), 999)
			assert.True(t, errors.Is(err, ErrNotFound), "Expected ErrNotFound, got %v", err)
		})
	}
}

func TestStore_RejectsEmptyReport(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.AddReport(context.Background(), &model.Report{Name: "李四"})
			assert.Error(t, err)

			_, err = s.AddReport(context.Background(), &model.Report{CurrentWork: "1.内容。"})
			assert.Error(t, err)
		})
	}
}

func TestStore_SaveResult(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id, err := s.AddReport(ctx, sampleReport())
			require.NoError(t, err)

			require.NoError(t, s.SaveResult(ctx, id, sampleResult()))

			got, err := s.Report(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, model.StatusChecked, got.Status)
			require.NotNil(t, got.CheckResult)
			assert.Equal(t, 1, got.CheckResult.Count)
			assert.Equal(t, "，", got.CheckResult.Issues[0].Suggestion)

			err = s.SaveResult(ctx, id+100, sampleResult())
			assert.True(t, errors.Is(err, ErrNotFound), "Expected ErrNotFound, got %v", err)
		})
	}
}

func TestStore_ReportsOrderedByID(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, who := range []string{"甲", "乙", "丙"} {
				r := sampleReport()
				r.Name = who
				_, err := s.AddReport(ctx, r)
				require.NoError(t, err)
			}

			reports, err := s.Reports(ctx)
			require.NoError(t, err)
			require.Len(t, reports, 3)
			assert.Equal(t, "甲", reports[0].Name)
			assert.Equal(t, "丙", reports[2].Name)
			assert.Less(t, reports[0].ID, reports[1].ID)
		})
	}
}

func TestStore_ConfigValues(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Config(ctx, KeyRuleConfig)
			assert.True(t, errors.Is(err, ErrNotFound), "Expected ErrNotFound, got %v", err)

			require.NoError(t, s.SetConfig(ctx, KeyRuleConfig, `{"check_slash_to_semicolon":false}`, "rule toggles"))
			require.NoError(t, s.SetConfig(ctx, KeyRuleConfig, `{"check_extra_spaces":false}`, ""))

			value, err := s.Config(ctx, KeyRuleConfig)
			require.NoError(t, err)
			assert.Equal(t, `{"check_extra_spaces":false}`, value)
		})
	}
}

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

func TestStore_DailyUpsertAndDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.SetDaily(ctx, &model.DailyEntry{Member: "张三", Date: day(12, 2), Content: "走访企业"}))
			require.NoError(t, s.SetDaily(ctx, &model.DailyEntry{Member: "张三", Date: day(12, 2), Content: "走访三家企业"}))

			entries, err := s.DailyEntries(ctx, "张三", day(12, 1), day(12, 7))
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "走访三家企业", entries[0].Content)
			assert.Equal(t, "2024-12-02", entries[0].Day())
			assert.False(t, entries[0].UpdatedAt.IsZero())

			// Blank content removes the day
			require.NoError(t, s.SetDaily(ctx, &model.DailyEntry{Member: "张三", Date: day(12, 2), Content: "  "}))
			entries, err = s.DailyEntries(ctx, "张三", day(12, 1), day(12, 7))
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestStore_DailyEntriesRangeAndMember(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, e := range []model.DailyEntry{
				{Member: "张三", Date: day(12, 4), Content: "周三"},
				{Member: "张三", Date: day(12, 2), Content: "周一"},
				{Member: "李四", Date: day(12, 3), Content: "李四周二"},
				{Member: "张三", Date: day(12, 9), Content: "下周"},
			} {
				require.NoError(t, s.SetDaily(ctx, &e))
			}

			// The end date is inclusive even when it carries a clock time
			entries, err := s.DailyEntries(ctx, "张三", day(12, 2), day(12, 4).Add(15*time.Hour))
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, "周一", entries[0].Content)
			assert.Equal(t, "周三", entries[1].Content)

			all, err := s.DailyEntries(ctx, "", day(12, 1), day(12, 7))
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "李四", all[1].Member)
		})
	}
}

func TestStore_RejectsInvalidDaily(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			assert.Error(t, s.SetDaily(ctx, &model.DailyEntry{Date: day(12, 2), Content: "x"}))
			assert.Error(t, s.SetDaily(ctx, &model.DailyEntry{Member: "张三", Content: "x"}))
			assert.Error(t, s.SetDaily(ctx, nil))
		})
	}
}

func TestOpen_EmptyPathIsMemory(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, ok := s.(*MemoryStore)
	assert.True(t, ok, "Expected *MemoryStore, got %T", s)
}

type failingReader struct{}

func (failingReader) Config(ctx context.Context, key string) (string, error) {
	return "", errors.New("database is locked")
}

func TestConfigSource_OverlaysStoredDocuments(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.SetConfig(ctx, KeyRuleConfig, `{"check_slash_to_semicolon":false}`, ""))
	require.NoError(t, s.SetConfig(ctx, KeyPromptConfig, `{"typo_prompt":"只找错别字","check_punctuation_semantic":false}`, ""))

	base := config.NewStatic(nil)
	base.Model.Provider = "deepseek"
	source := NewConfigSource(s, base, nil)

	rules := source.RuleConfig(ctx)
	assert.False(t, rules.SlashToSemicolon)
	assert.True(t, rules.ExtraSpaces, "missing keys keep their default")

	prompts := source.PromptConfig(ctx)
	assert.Equal(t, "只找错别字", prompts.TypoPrompt)
	assert.True(t, prompts.TypoEnabled)
	assert.False(t, prompts.PunctuationEnabled)

	assert.Equal(t, "deepseek", source.LLM(ctx).Provider)
}

func TestConfigSource_EditsApplyImmediately(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	source := NewConfigSource(s, config.NewStatic(nil), nil)

	assert.True(t, source.RuleConfig(ctx).MissingNumber)
	require.NoError(t, s.SetConfig(ctx, KeyRuleConfig, `{"check_missing_number":false}`, ""))
	assert.False(t, source.RuleConfig(ctx).MissingNumber)
}

func TestConfigSource_FallsBackOnBadDocument(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.SetConfig(ctx, KeyRuleConfig, `{"check_extra_spaces":false, broken`, ""))

	source := NewConfigSource(s, config.NewStatic(nil), nil)
	assert.Equal(t, model.DefaultRuleConfig(), source.RuleConfig(ctx))
}

func TestConfigSource_FallsBackOnStoreError(t *testing.T) {
	source := NewConfigSource(failingReader{}, config.NewStatic(nil), nil)
	assert.Equal(t, model.DefaultPromptConfig(), source.PromptConfig(context.Background()))
}
