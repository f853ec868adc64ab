package model

// Issue is one detected defect in a report
type Issue struct {
	Kind       IssueKind   `json:"type"`           // format, typo, punctuation
	Severity   Severity    `json:"severity"`       // warning, error
	Location   string      `json:"location"`       // Human-readable position, e.g. "本周工作第3条"
	Context    string      `json:"context"`        // Short excerpt around the defect
	Original   string      `json:"original"`       // Exact substring to replace
	Suggestion string      `json:"suggestion"`     // Replacement substring
	Source     IssueSource `json:"source"`         // Which checker produced the issue
	Rule       string      `json:"rule,omitempty"` // Rule family for rule issues (e.g. "number_format")
}

// IssueKind categorizes the defect
type IssueKind string

const (
	KindFormat      IssueKind = "format"
	KindTypo        IssueKind = "typo"
	KindPunctuation IssueKind = "punctuation"
)

// Severity indicates how strongly the fix is recommended
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// IssueSource identifies the checker that produced an issue
type IssueSource string

const (
	SourceRule          IssueSource = "rule"
	SourceAITypo        IssueSource = "ai_typo"
	SourceAIPunctuation IssueSource = "ai_punctuation"
)

// Key returns the identity used for deduplication
func (i Issue) Key() IssueKey {
	return IssueKey{Location: i.Location, Original: i.Original, Suggestion: i.Suggestion}
}

// Valid reports whether the issue describes an applicable replacement
func (i Issue) Valid() bool {
	return i.Original != "" && i.Suggestion != "" && i.Original != i.Suggestion
}

// IssueKey is the (location, original, suggestion) triple
type IssueKey struct {
	Location   string
	Original   string
	Suggestion string
}

// CheckResult is the aggregated output of one proofreading run
type CheckResult struct {
	Count  int     `json:"total_issues"`
	Issues []Issue `json:"issues"`
}

// NewCheckResult deduplicates issues by key, keeping the first occurrence
func NewCheckResult(issues []Issue) CheckResult {
	unique := DedupeIssues(issues)
	return CheckResult{
		Count:  len(unique),
		Issues: unique,
	}
}

// DedupeIssues removes issues sharing a key, preserving first-seen order
func DedupeIssues(issues []Issue) []Issue {
	seen := make(map[IssueKey]bool, len(issues))
	unique := make([]Issue, 0, len(issues))

	for _, issue := range issues {
		key := issue.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, issue)
	}

	return unique
}
