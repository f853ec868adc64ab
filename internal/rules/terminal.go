package rules

import (
	"regexp"
	"strings"
)

var (
	bareNumberRe = regexp.MustCompile(`^\d+\.$`)
	itemPrefixRe = regexp.MustCompile(`^\d+[.、。][\s\x{3000}]*`)
)

// Marks rewritten to the canonical terminator, and marks accepted as an ending
const (
	rewriteEndings  = "；;.！!"
	acceptedEndings = "。？?）)"
)

// checkEndingPunctuation requires every item to end with 。
func checkEndingPunctuation(runes []rune) []finding {
	line := string(runes)
	if bareNumberRe.MatchString(line) {
		return nil
	}

	last := runes[len(runes)-1]
	context := string(runes[max(0, len(runes)-15):])

	switch {
	case strings.ContainsRune(rewriteEndings, last):
		// 。. and friends belong to the consecutive punctuation rule
		if len(runes) > 1 && isLookalikePair(runes[len(runes)-2:]) {
			return nil
		}
		ending := []rune(uniqueEnding(runes))
		return []finding{punctuationFinding(RuleEndingPunctuation, context,
			string(ending), string(ending[:len(ending)-1])+"。")}
	case strings.ContainsRune(acceptedEndings, last):
		return nil
	default:
		ending := uniqueEnding(runes)
		return []finding{punctuationFinding(RuleEndingPunctuation, context,
			ending, ending+"。")}
	}
}

func isLookalikePair(pair []rune) bool {
	s := string(pair)
	for _, l := range lookalikes {
		if l.pair == s {
			return true
		}
	}
	return false
}

// checkMidSentencePeriod flags a 。 that is not the last character of the
// item; it proposes a semicolon inside the smallest unique window around it.
func checkMidSentencePeriod(runes []rune) []finding {
	line := string(runes)
	prefix := len([]rune(itemPrefixRe.FindString(line)))
	content := runes[prefix:]
	if len(content) == 0 {
		return nil
	}

	var findings []finding
	for i := 0; i < len(content)-1; i++ {
		if content[i] != '。' {
			continue
		}
		// Repeated stops are reported by the consecutive punctuation rule
		if next := content[i+1]; next == '。' || next == '.' {
			continue
		}
		window, offset := uniqueWindow(runes, prefix+i)
		findings = append(findings, punctuationFinding(RuleMidSentencePeriod,
			excerpt(string(content), 80), window, replaceRune(window, offset, "；")))
	}
	return findings
}
