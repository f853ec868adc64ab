package rules

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/width"
)

// maxWindow bounds the unique-substring search around a replacement point
const maxWindow = 20

// isHan reports whether r is a CJK ideograph
func isHan(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

func containsHan(runes []rune) bool {
	for _, r := range runes {
		if isHan(r) {
			return true
		}
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// fullWidth maps an ASCII punctuation mark to its full-width form
func fullWidth(r rune) string {
	if r == '.' {
		return "。" // the ideographic full stop, not the full-width dot
	}
	return width.Widen.String(string(r))
}

// excerpt truncates s to at most w display columns
func excerpt(s string, w int) string {
	if runewidth.StringWidth(s) <= w {
		return s
	}
	return runewidth.Truncate(s, w, "...")
}

// around returns the runes within pad of [start, end)
func around(runes []rune, start, end, pad int) string {
	from := start - pad
	if from < 0 {
		from = 0
	}
	to := end + pad
	if to > len(runes) {
		to = len(runes)
	}
	return string(runes[from:to])
}

// uniqueWindow grows a window around runes[pos] until the window occurs
// exactly once in the line. It returns the window and the offset of pos
// inside it; the whole line is used when no window within the bound is unique.
func uniqueWindow(runes []rune, pos int) (string, int) {
	line := string(runes)
	for radius := 1; radius <= maxWindow/2; radius++ {
		from := pos - radius
		if from < 0 {
			from = 0
		}
		to := pos + radius + 1
		if to > len(runes) {
			to = len(runes)
		}
		window := string(runes[from:to])
		if occurrences(line, window) == 1 {
			return window, pos - from
		}
		if from == 0 && to == len(runes) {
			break
		}
	}
	return line, pos
}

// uniqueEnding returns the shortest suffix of the line that occurs exactly
// once in it, falling back to the whole line.
func uniqueEnding(runes []rune) string {
	line := string(runes)
	limit := len(runes)
	if limit > maxWindow {
		limit = maxWindow
	}
	for n := 1; n <= limit; n++ {
		ending := string(runes[len(runes)-n:])
		if occurrences(line, ending) == 1 {
			return ending
		}
	}
	return line
}

// occurrences counts matches of sub in s, overlapping ones included
func occurrences(s, sub string) int {
	n := 0
	for i := 0; i <= len(s)-len(sub); {
		j := strings.Index(s[i:], sub)
		if j < 0 {
			break
		}
		n++
		_, size := utf8.DecodeRuneInString(s[i+j:])
		i += j + size
	}
	return n
}

// replaceRune substitutes the rune at offset i of s
func replaceRune(s string, i int, repl string) string {
	runes := []rune(s)
	return string(runes[:i]) + repl + string(runes[i+1:])
}
