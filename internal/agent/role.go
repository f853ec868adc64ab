package agent

import (
	"strings"

	"github.com/ppiankov/proofline/internal/model"
)

// Role describes one proofreading specialty. Agents share all control flow
// and differ only by the role they are given.
type Role struct {
	Name          string
	DefaultPrompt string
	Kind          model.IssueKind
	Severity      model.Severity
	Source        model.IssueSource

	override func(model.PromptConfig) string
	enabled  func(model.PromptConfig) bool
}

// Typo checks spelling
var Typo = Role{
	Name:          "typo",
	DefaultPrompt: typoPrompt,
	Kind:          model.KindTypo,
	Severity:      model.SeverityWarning,
	Source:        model.SourceAITypo,
	override:      func(c model.PromptConfig) string { return c.TypoPrompt },
	enabled:       func(c model.PromptConfig) bool { return c.TypoEnabled },
}

// Punctuation checks punctuation semantics
var Punctuation = Role{
	Name:          "punctuation",
	DefaultPrompt: punctuationPrompt,
	Kind:          model.KindPunctuation,
	Severity:      model.SeverityError,
	Source:        model.SourceAIPunctuation,
	override:      func(c model.PromptConfig) string { return c.PunctuationPrompt },
	enabled:       func(c model.PromptConfig) bool { return c.PunctuationEnabled },
}

// Roles lists the roles in launch order
func Roles() []Role {
	return []Role{Typo, Punctuation}
}

// Prompt resolves the active system prompt: a non-blank override wins
func (r Role) Prompt(cfg model.PromptConfig) string {
	if r.override != nil {
		if custom := r.override(cfg); strings.TrimSpace(custom) != "" {
			return custom
		}
	}
	return r.DefaultPrompt
}

// Enabled reports whether the role is switched on in cfg
func (r Role) Enabled(cfg model.PromptConfig) bool {
	if r.enabled == nil {
		return true
	}
	return r.enabled(cfg)
}
