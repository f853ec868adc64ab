package pipeline

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/proofline/internal/model"
)

func init() {
	color.NoColor = true
}

func TestRenderer_JSONKeepsCJK(t *testing.T) {
	var buf bytes.Buffer
	result := model.NewCheckResult([]model.Issue{{
		Kind: model.KindFormat, Severity: model.SeverityError, Location: "本周工作第1条",
		Original: "1、", Suggestion: "1.", Source: model.SourceRule, Rule: "number_format",
	}})

	require.NoError(t, NewRenderer(&buf).JSON(result))
	assert.Contains(t, buf.String(), `"original": "1、"`)
	assert.Contains(t, buf.String(), `"total_issues": 1`)

	var decoded model.CheckResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, result, decoded)
}

func TestRenderer_Result(t *testing.T) {
	var buf bytes.Buffer
	result := model.NewCheckResult([]model.Issue{
		{Kind: model.KindFormat, Severity: model.SeverityError, Location: "本周工作第1条", Original: "1、", Suggestion: "1.", Source: model.SourceRule, Rule: "number_format"},
		{Kind: model.KindTypo, Severity: model.SeverityWarning, Location: "本周工作第2条", Original: "按排", Suggestion: "安排", Source: model.SourceAITypo},
	})

	require.NoError(t, NewRenderer(&buf).Result(result))
	out := buf.String()
	assert.Contains(t, out, "1、 → 1.")
	assert.Contains(t, out, "[number_format]")
	assert.Contains(t, out, "[ai_typo]")
	assert.Contains(t, out, "2 issues (1 errors, 1 warnings)")
}

func TestRenderer_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf).Result(model.NewCheckResult(nil)))
	assert.Contains(t, buf.String(), "未发现问题")
}

func TestRenderer_Event(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	require.NoError(t, r.Event(startEvent(model.StageRule)))
	require.NoError(t, r.Event(completedEvent(model.StageRule)))
	require.NoError(t, r.Event(model.StageEvent{Stage: model.StageTypoNext, Error: "boom"}))

	out := buf.String()
	assert.Contains(t, out, "… 正在检查格式与标点规范...")
	assert.Contains(t, out, "✓ 格式规范检查完成")
	assert.Contains(t, out, "✗ typo_next: boom")
}
