package rules

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ppiankov/proofline/internal/model"
)

var (
	parenNumberRe = regexp.MustCompile(`^[（(]\d+[）)]`)
	markerRe      = regexp.MustCompile(`^(?:(\d+)[.、。]|（(\d+)）|\((\d+)\))`)
)

// numberFormats rewrite non-canonical item markers, first match wins.
// Each pattern captures the number in group 1 and any trailing text that
// makes the original unique in group 2.
var numberFormats = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+)\.\d+\.?(.{0,3})`), // duplicated N.M. numbering
	regexp.MustCompile(`^(\d+)、()`),
	regexp.MustCompile(`^(\d+)。()`),
	regexp.MustCompile(`^（(\d+)）()`),
	regexp.MustCompile(`^\((\d+)\)()`),
	regexp.MustCompile(`^(\d+)\.[\s\x{3000}]+(\S?)`), // canonical marker with stray whitespace
}

// isItemized reports whether a line is a numbered item
func isItemized(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	return isDigit(runes[0]) || parenNumberRe.MatchString(string(runes))
}

func checkNumberFormat(runes []rune) []finding {
	line := string(runes)
	for _, re := range numberFormats {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return []finding{{
			rule:       RuleNumberFormat,
			kind:       model.KindFormat,
			severity:   model.SeverityError,
			context:    excerpt(line, 40),
			original:   m[0],
			suggestion: m[1] + "." + m[2],
		}}
	}
	return nil
}

// leadingMarker returns the item marker as written and the number it carries
func leadingMarker(runes []rune) (string, int, bool) {
	m := markerRe.FindStringSubmatch(string(runes))
	if m == nil {
		return "", 0, false
	}
	for _, digits := range m[1:] {
		if digits == "" {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return "", 0, false
		}
		return m[0], n, true
	}
	return "", 0, false
}

func checkSequence(runes []rune, expected int) []finding {
	marker, n, ok := leadingMarker(runes)
	if !ok || n == expected {
		return nil
	}
	return []finding{{
		rule:       RuleNumberSequence,
		kind:       model.KindFormat,
		severity:   model.SeverityError,
		context:    excerpt(string(runes), 60),
		original:   marker,
		suggestion: fmt.Sprintf("%d.", expected),
	}}
}

// checkMissingNumber flags a section line that carries no item marker
func checkMissingNumber(runes []rune, next int) []finding {
	head := runes
	if len(head) > 10 {
		head = head[:10]
	}
	return []finding{{
		rule:       RuleMissingNumber,
		kind:       model.KindFormat,
		severity:   model.SeverityError,
		context:    excerpt(string(runes), 60),
		original:   string(head),
		suggestion: fmt.Sprintf("%d.%s", next, string(head)),
	}}
}
