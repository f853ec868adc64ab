package validate

import (
	"testing"

	"github.com/ppiankov/proofline/internal/model"
)

const sectionText = "1.完成季度报告的撰写。\n2.跟进客户反馈。"

func TestCheck_Reasons(t *testing.T) {
	tests := []struct {
		name       string
		original   string
		suggestion string
		reason     string
	}{
		{"applicable", "撰写", "编写", ""},
		{"empty original", "", "编写", ReasonEmptyOriginal},
		{"empty suggestion", "撰写", "", ReasonEmptySuggestion},
		{"no change", "撰写", "撰写", ReasonNoChange},
		{"hallucinated", "年度总结", "年度报告", ReasonNotInText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := Check(sectionText, []model.Issue{{Original: tt.original, Suggestion: tt.suggestion}})
			if len(results) != 1 {
				t.Fatalf("Expected 1 result, got %d", len(results))
			}
			r := results[0]
			if r.Applicable != (tt.reason == "") {
				t.Errorf("Expected applicable=%v, got %v", tt.reason == "", r.Applicable)
			}
			if r.Reason != tt.reason {
				t.Errorf("Expected reason %q, got %q", tt.reason, r.Reason)
			}
		})
	}
}

func TestIssues_SplitPreservesOrder(t *testing.T) {
	issues := []model.Issue{
		{Location: "a", Original: "反馈", Suggestion: "回馈"},
		{Location: "b", Original: "不存在", Suggestion: "存在"},
		{Location: "c", Original: "季度", Suggestion: "年度"},
	}

	kept, dropped := Issues(sectionText, issues)

	if len(kept) != 2 || kept[0].Location != "a" || kept[1].Location != "c" {
		t.Errorf("Unexpected kept issues: %+v", kept)
	}
	if len(dropped) != 1 || dropped[0].Location != "b" {
		t.Errorf("Unexpected dropped issues: %+v", dropped)
	}
}

func TestIssues_Empty(t *testing.T) {
	kept, dropped := Issues(sectionText, nil)
	if kept != nil || dropped != nil {
		t.Errorf("Expected nil slices, got %v and %v", kept, dropped)
	}
}
