// Package validate checks that proposed replacements can be applied to the
// text they were proposed for.
package validate

import (
	"strings"

	"github.com/ppiankov/proofline/internal/model"
)

// Reasons an issue is rejected
const (
	ReasonEmptyOriginal   = "empty original"
	ReasonEmptySuggestion = "empty suggestion"
	ReasonNoChange        = "suggestion equals original"
	ReasonNotInText       = "original not found in text"
)

// Result is the validation outcome for one issue
type Result struct {
	Issue      model.Issue
	Applicable bool
	Reason     string // Set when not applicable
}

// Check validates every issue against text, preserving order
func Check(text string, issues []model.Issue) []Result {
	results := make([]Result, len(issues))
	for i, issue := range issues {
		results[i] = Result{Issue: issue, Applicable: true}
		if reason := rejectReason(text, issue); reason != "" {
			results[i].Applicable = false
			results[i].Reason = reason
		}
	}
	return results
}

// Issues splits issues into those that apply to text and those that do not
func Issues(text string, issues []model.Issue) (kept, dropped []model.Issue) {
	for _, r := range Check(text, issues) {
		if r.Applicable {
			kept = append(kept, r.Issue)
		} else {
			dropped = append(dropped, r.Issue)
		}
	}
	return kept, dropped
}

func rejectReason(text string, issue model.Issue) string {
	switch {
	case issue.Original == "":
		return ReasonEmptyOriginal
	case issue.Suggestion == "":
		return ReasonEmptySuggestion
	case issue.Original == issue.Suggestion:
		return ReasonNoChange
	case !strings.Contains(text, issue.Original):
		return ReasonNotInText
	}
	return ""
}
