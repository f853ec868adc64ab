// Package config provides the configuration collaborator read by the
// proofreading core. Every call returns the current values so that edits
// take effect on the next check without a restart.
package config

import (
	"context"

	"github.com/ppiankov/proofline/internal/model"
)

// Source supplies rule toggles, prompt overrides and model settings.
// Implementations never fail: a broken backing store yields defaults.
type Source interface {
	RuleConfig(ctx context.Context) model.RuleConfig
	PromptConfig(ctx context.Context) model.PromptConfig
	LLM(ctx context.Context) model.LLMConfig
}

// Static is a fixed Source
type Static struct {
	Rules   model.RuleConfig
	Prompts model.PromptConfig
	Model   model.LLMConfig
}

// NewStatic returns a Static populated from cfg, or defaults when cfg is nil
func NewStatic(cfg *model.Config) *Static {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	return &Static{
		Rules:   cfg.Rules,
		Prompts: cfg.Prompts,
		Model:   cfg.LLM,
	}
}

func (s *Static) RuleConfig(ctx context.Context) model.RuleConfig {
	return s.Rules
}

func (s *Static) PromptConfig(ctx context.Context) model.PromptConfig {
	return s.Prompts
}

func (s *Static) LLM(ctx context.Context) model.LLMConfig {
	return s.Model
}
