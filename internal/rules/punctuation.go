package rules

import (
	"regexp"
	"strings"

	"github.com/ppiankov/proofline/internal/model"
)

var extraSpaceRe = regexp.MustCompile(`(\p{Han})[\s\x{3000}]+([\p{Han}：；，。、])`)

// asciiMarks are mapped one to one onto their full-width forms
var asciiMarks = []rune{',', ';', '?', '!'}

// cjkMarks may not repeat back to back
const cjkMarks = "，。；：、"

// lookalikes pair a CJK mark with its ASCII twin in either order
var lookalikes = []struct {
	pair      string
	canonical string
}{
	{"。.", "。"},
	{".。", "。"},
	{"，,", "，"},
	{",，", "，"},
	{"；;", "；"},
	{";；", "；"},
}

func punctuationFinding(rule, context, original, suggestion string) finding {
	return finding{
		rule:       rule,
		kind:       model.KindPunctuation,
		severity:   model.SeverityError,
		context:    context,
		original:   original,
		suggestion: suggestion,
	}
}

// checkExtraSpaces flags whitespace between CJK characters or before CJK punctuation
func checkExtraSpaces(runes []rune) []finding {
	line := string(runes)
	var findings []finding
	for _, m := range extraSpaceRe.FindAllStringSubmatchIndex(line, -1) {
		start := len([]rune(line[:m[0]]))
		end := len([]rune(line[:m[1]]))
		findings = append(findings, finding{
			rule:       RuleExtraSpaces,
			kind:       model.KindFormat,
			severity:   model.SeverityWarning,
			context:    around(runes, start, end, 5),
			original:   line[m[0]:m[1]],
			suggestion: line[m[2]:m[3]] + line[m[4]:m[5]],
		})
	}
	return findings
}

func checkEnglishPunctuation(runes []rune) []finding {
	var findings []finding
	last := len(runes) - 1
	for _, mark := range asciiMarks {
		for i, r := range runes {
			if r != mark {
				continue
			}
			// A trailing ; or ! belongs to the ending punctuation rule
			if i == last && strings.ContainsRune(rewriteEndings, r) {
				continue
			}
			findings = append(findings, punctuationFinding(RuleEnglishPunctuation,
				around(runes, i, i+1, 5), string(r), fullWidth(r)))
		}
	}

	// A colon between digits is a time of day (10:30)
	for i, r := range runes {
		if r != ':' {
			continue
		}
		if i > 0 && i < len(runes)-1 && isDigit(runes[i-1]) && isDigit(runes[i+1]) {
			continue
		}
		findings = append(findings, punctuationFinding(RuleEnglishPunctuation,
			around(runes, i, i+1, 5), ":", fullWidth(':')))
	}
	return findings
}

// checkSlash flags a slash joining two CJK characters; dates such as
// 2024/12/14 are flanked by digits and never match.
func checkSlash(runes []rune) []finding {
	var findings []finding
	for i := 1; i < len(runes)-1; i++ {
		if runes[i] != '/' || !isHan(runes[i-1]) || !isHan(runes[i+1]) {
			continue
		}
		findings = append(findings, punctuationFinding(RuleSlashToSemicolon,
			around(runes, i-1, i+2, 3), "/", "；"))
	}
	return findings
}

func checkConsecutivePunctuation(runes []rune) []finding {
	var findings []finding

	// Runs of the same CJK mark
	for i := 0; i < len(runes); {
		j := i + 1
		if strings.ContainsRune(cjkMarks, runes[i]) {
			for j < len(runes) && runes[j] == runes[i] {
				j++
			}
			if j-i > 1 {
				findings = append(findings, punctuationFinding(RuleConsecutivePunctuation,
					around(runes, i, j, 3), string(runes[i:j]), string(runes[i])))
			}
		}
		i = j
	}

	// A CJK mark next to its ASCII lookalike
	line := string(runes)
	for _, l := range lookalikes {
		for offset := 0; ; {
			idx := strings.Index(line[offset:], l.pair)
			if idx < 0 {
				break
			}
			at := offset + idx
			start := len([]rune(line[:at]))
			findings = append(findings, punctuationFinding(RuleConsecutivePunctuation,
				around(runes, start, start+2, 3), l.pair, l.canonical))
			offset = at + len(l.pair)
		}
	}
	return findings
}

// checkEnglishBrackets flags each ASCII parenthesis whose enclosed span holds
// CJK text; the opening and the closing mark are checked independently.
func checkEnglishBrackets(runes []rune) []finding {
	var findings []finding
	for i, r := range runes {
		if r != '(' {
			continue
		}
		closeAt := indexRune(runes, ')', i+1)
		if closeAt < 0 || !containsHan(runes[i+1:closeAt]) {
			continue
		}
		findings = append(findings, punctuationFinding(RuleEnglishBrackets,
			around(runes, i, closeAt+1, 3), "(", fullWidth('(')))
	}
	for i, r := range runes {
		if r != ')' {
			continue
		}
		openAt := lastIndexRune(runes[:i], '(')
		if openAt < 0 || !containsHan(runes[openAt+1:i]) {
			continue
		}
		findings = append(findings, punctuationFinding(RuleEnglishBrackets,
			around(runes, i, i+1, 3), ")", fullWidth(')')))
	}
	return findings
}

func indexRune(runes []rune, r rune, from int) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
