package agent

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	labeledFenceRe   = regexp.MustCompile("(?s)```[A-Za-z0-9_-]+[ \\t]*\\r?\\n(.*?)```")
	unlabeledFenceRe = regexp.MustCompile("(?s)```[ \\t]*\\r?\\n?(.*?)```")
	emptyIssuesRe    = regexp.MustCompile(`"issues"\s*:\s*\[\s*\]`)
)

// emptyReply is returned when prose embeds an explicitly empty issue list
const emptyReply = `{"issues":[]}`

// ExtractJSON pulls the issue document out of a model reply. Strategies are
// tried in order until one yields a valid JSON object.
func ExtractJSON(reply string) (string, bool) {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return "", false
	}

	// 1. The whole reply
	if isJSONObject(trimmed) {
		return trimmed, true
	}

	// 2. A labeled fence such as ```json
	if m := labeledFenceRe.FindStringSubmatch(trimmed); m != nil {
		if body := strings.TrimSpace(m[1]); isJSONObject(body) {
			return body, true
		}
	}

	// 3. An unlabeled fence
	if m := unlabeledFenceRe.FindStringSubmatch(trimmed); m != nil {
		if body := strings.TrimSpace(m[1]); isJSONObject(body) {
			return body, true
		}
	}

	// 4. First opening brace to last closing brace
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		if body := trimmed[start : end+1]; isJSONObject(body) {
			return body, true
		}
	}

	// 5. An empty issue list mentioned in prose
	if emptyIssuesRe.MatchString(trimmed) {
		return emptyReply, true
	}

	return "", false
}

func isJSONObject(s string) bool {
	if !strings.HasPrefix(s, "{") {
		return false
	}
	var obj map[string]json.RawMessage
	return json.Unmarshal([]byte(s), &obj) == nil
}
