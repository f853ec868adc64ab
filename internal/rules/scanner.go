// Package rules implements the deterministic proofreading rules for itemized
// report sections. Scanning is pure: no I/O, no shared state.
package rules

import (
	"fmt"
	"strings"

	"github.com/ppiankov/proofline/internal/model"
)

// Rule family names recorded on emitted issues
const (
	RuleNumberFormat           = "number_format"
	RuleNumberSequence         = "number_sequence"
	RuleExtraSpaces            = "extra_spaces"
	RuleEnglishPunctuation     = "english_punctuation"
	RuleSlashToSemicolon       = "slash_to_semicolon"
	RuleConsecutivePunctuation = "consecutive_punctuation"
	RuleEnglishBrackets        = "english_brackets"
	RuleEndingPunctuation      = "ending_punctuation"
	RuleMidSentencePeriod      = "mid_sentence_period"
	RuleMissingNumber          = "missing_number"
)

// lineCheck inspects one itemized line
type lineCheck struct {
	enabled func(model.RuleConfig) bool
	check   func(runes []rune) []finding
}

// finding is an issue before location is attached
type finding struct {
	rule       string
	kind       model.IssueKind
	severity   model.Severity
	context    string
	original   string
	suggestion string
}

// itemChecks run in order on every itemized line
var itemChecks = []lineCheck{
	{func(c model.RuleConfig) bool { return c.NumberFormat }, checkNumberFormat},
	{func(c model.RuleConfig) bool { return c.ExtraSpaces }, checkExtraSpaces},
	{func(c model.RuleConfig) bool { return c.EnglishPunctuation }, checkEnglishPunctuation},
	{func(c model.RuleConfig) bool { return c.SlashToSemicolon }, checkSlash},
	{func(c model.RuleConfig) bool { return c.ConsecutivePunctuation }, checkConsecutivePunctuation},
	{func(c model.RuleConfig) bool { return c.EnglishBrackets }, checkEnglishBrackets},
	{func(c model.RuleConfig) bool { return c.EndingPunctuation }, checkEndingPunctuation},
	{func(c model.RuleConfig) bool { return c.MidSentencePeriod }, checkMidSentencePeriod},
}

// scanState tracks the section the scanner is in and its counters
type scanState struct {
	section  string
	item     int // itemized lines seen in the section
	line     int // non-blank lines seen in the section
	expected int // next expected item number
}

func (s *scanState) enter(section string) {
	*s = scanState{section: section, expected: 1}
}

func (s *scanState) itemLocation() string {
	return fmt.Sprintf("%s第%d条", s.section, s.item)
}

func (s *scanState) lineLocation() string {
	return fmt.Sprintf("%s第%d行", s.section, s.line)
}

// Scan checks text against the enabled rule families and returns the issues
// in line order. It never fails.
func Scan(text string, cfg model.RuleConfig) []model.Issue {
	var issues []model.Issue
	state := scanState{expected: 1}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		runes := []rune(line)
		itemized := isItemized(runes)

		// Heading lines switch section and are not scanned themselves. An
		// item that mentions a heading word is still an item.
		if !itemized {
			if strings.Contains(line, model.HeadingCurrent) {
				state.enter(model.HeadingCurrent)
				continue
			}
			if strings.Contains(line, model.HeadingNext) {
				state.enter(model.HeadingNext)
				continue
			}
		}

		if state.section != "" {
			state.line++
		}

		if itemized {
			state.item++
			location := state.itemLocation()

			for _, lc := range itemChecks {
				if !lc.enabled(cfg) {
					continue
				}
				issues = appendFindings(issues, location, lc.check(runes))
			}

			if cfg.NumberSequence {
				issues = appendFindings(issues, location, checkSequence(runes, state.expected))
			}
			// Advances on every item, whatever number was written
			state.expected++
			continue
		}

		if state.section != "" && cfg.MissingNumber {
			issues = appendFindings(issues, state.lineLocation(), checkMissingNumber(runes, state.item+1))
		}
	}

	return issues
}

func appendFindings(issues []model.Issue, location string, findings []finding) []model.Issue {
	for _, f := range findings {
		issues = append(issues, model.Issue{
			Kind:       f.kind,
			Severity:   f.severity,
			Location:   location,
			Context:    f.context,
			Original:   f.original,
			Suggestion: f.suggestion,
			Source:     model.SourceRule,
			Rule:       f.rule,
		})
	}
	return issues
}
