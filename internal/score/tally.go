// Package score summarizes a check result for display.
package score

import (
	"sort"

	"github.com/ppiankov/proofline/internal/model"
)

// Penalties subtracted from a clean report's index per issue
const (
	errorPenalty   = 5
	warningPenalty = 2
)

// Summary counts issues and grades the report. Index starts at 100 and
// loses points per issue; it is advisory only.
type Summary struct {
	Total    int                       `json:"total"`
	Errors   int                       `json:"errors"`
	Warnings int                       `json:"warnings"`
	ByKind   map[model.IssueKind]int   `json:"by_kind"`
	BySource map[model.IssueSource]int `json:"by_source"`
	ByRule   map[string]int            `json:"by_rule,omitempty"`
	Index    int                       `json:"index"`
	Grade    string                    `json:"grade"`
}

// Tally summarizes result
func Tally(result model.CheckResult) Summary {
	s := Summary{
		ByKind:   make(map[model.IssueKind]int),
		BySource: make(map[model.IssueSource]int),
		ByRule:   make(map[string]int),
		Index:    100,
	}

	for _, issue := range result.Issues {
		s.Total++
		s.ByKind[issue.Kind]++
		s.BySource[issue.Source]++
		if issue.Rule != "" {
			s.ByRule[issue.Rule]++
		}

		switch issue.Severity {
		case model.SeverityError:
			s.Errors++
			s.Index -= errorPenalty
		default:
			s.Warnings++
			s.Index -= warningPenalty
		}
	}

	if s.Index < 0 {
		s.Index = 0
	}
	s.Grade = grade(s.Index)
	return s
}

func grade(index int) string {
	switch {
	case index >= 95:
		return "clean"
	case index >= 80:
		return "minor"
	case index >= 60:
		return "needs work"
	default:
		return "poor"
	}
}

// RuleCount is one rule family and how often it fired
type RuleCount struct {
	Rule  string
	Count int
}

// TopRules returns rule families by descending count, then by name
func (s Summary) TopRules() []RuleCount {
	counts := make([]RuleCount, 0, len(s.ByRule))
	for rule, n := range s.ByRule {
		counts = append(counts, RuleCount{Rule: rule, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Rule < counts[j].Rule
	})
	return counts
}
