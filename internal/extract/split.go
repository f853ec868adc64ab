package extract

import (
	"strings"

	"github.com/ppiankov/proofline/internal/model"
)

// Split partitions report text into its current-period and next-period
// sections. Each heading must appear exactly once; otherwise the whole text
// is returned as a single section.
func Split(text string) []string {
	if strings.Count(text, model.HeadingCurrent) != 1 || strings.Count(text, model.HeadingNext) != 1 {
		return []string{text}
	}

	// Cut at whichever heading comes second so each half keeps its own
	cut := strings.Index(text, model.HeadingNext)
	if current := strings.Index(text, model.HeadingCurrent); current > cut {
		cut = current
	}

	first := strings.TrimSpace(text[:cut])
	second := strings.TrimSpace(text[cut:])
	if first == "" {
		return []string{second}
	}
	return []string{first, second}
}

// Sections returns the bodies under the two headings with the heading lines
// removed. Text without both headings is returned whole as the current
// section.
func Sections(text string) (current, next string) {
	parts := Split(text)
	if len(parts) < 2 {
		return strings.TrimSpace(text), ""
	}
	for _, part := range parts {
		switch {
		case strings.HasPrefix(part, model.HeadingCurrent):
			current = stripHeading(part, model.HeadingCurrent)
		case strings.HasPrefix(part, model.HeadingNext):
			next = stripHeading(part, model.HeadingNext)
		}
	}
	return current, next
}

func stripHeading(section, heading string) string {
	body := strings.TrimPrefix(section, heading)
	body = strings.TrimLeft(body, "：: \t")
	return strings.TrimSpace(body)
}
