package score

import (
	"testing"

	"github.com/ppiankov/proofline/internal/model"
)

func TestTally_Empty(t *testing.T) {
	s := Tally(model.CheckResult{})

	if s.Total != 0 || s.Index != 100 {
		t.Errorf("Expected clean summary, got %+v", s)
	}
	if s.Grade != "clean" {
		t.Errorf("Expected grade clean, got %s", s.Grade)
	}
}

func TestTally_Counts(t *testing.T) {
	result := model.NewCheckResult([]model.Issue{
		{Kind: model.KindFormat, Severity: model.SeverityError, Location: "a", Original: "1、", Suggestion: "1.", Source: model.SourceRule, Rule: "number_format"},
		{Kind: model.KindFormat, Severity: model.SeverityError, Location: "b", Original: "2、", Suggestion: "2.", Source: model.SourceRule, Rule: "number_format"},
		{Kind: model.KindPunctuation, Severity: model.SeverityError, Location: "b", Original: ",", Suggestion: "，", Source: model.SourceRule, Rule: "english_punctuation"},
		{Kind: model.KindTypo, Severity: model.SeverityWarning, Location: "c", Original: "按排", Suggestion: "安排", Source: model.SourceAITypo},
	})

	s := Tally(result)

	if s.Total != 4 {
		t.Errorf("Expected 4 issues, got %d", s.Total)
	}
	if s.Errors != 3 || s.Warnings != 1 {
		t.Errorf("Expected 3 errors and 1 warning, got %d and %d", s.Errors, s.Warnings)
	}
	if s.ByKind[model.KindFormat] != 2 || s.ByKind[model.KindTypo] != 1 {
		t.Errorf("Unexpected kind counts: %v", s.ByKind)
	}
	if s.BySource[model.SourceRule] != 3 || s.BySource[model.SourceAITypo] != 1 {
		t.Errorf("Unexpected source counts: %v", s.BySource)
	}
	if s.Index != 100-3*errorPenalty-warningPenalty {
		t.Errorf("Expected index %d, got %d", 100-3*errorPenalty-warningPenalty, s.Index)
	}
	if s.Grade != "minor" {
		t.Errorf("Expected grade minor, got %s", s.Grade)
	}

	top := s.TopRules()
	if len(top) != 2 || top[0].Rule != "number_format" || top[0].Count != 2 {
		t.Errorf("Unexpected top rules: %+v", top)
	}
}

func TestTally_IndexFloor(t *testing.T) {
	issues := make([]model.Issue, 30)
	for i := range issues {
		issues[i] = model.Issue{Severity: model.SeverityError, Location: string(rune('a' + i)), Original: "x", Suggestion: "y"}
	}

	s := Tally(model.NewCheckResult(issues))
	if s.Index != 0 || s.Grade != "poor" {
		t.Errorf("Expected floored index and poor grade, got %d %s", s.Index, s.Grade)
	}
}
