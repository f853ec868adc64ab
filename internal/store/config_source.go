package store

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/ppiankov/proofline/internal/config"
	"github.com/ppiankov/proofline/internal/model"
)

// ConfigReader is the read side of Store used by ConfigSource
type ConfigReader interface {
	Config(ctx context.Context, key string) (string, error)
}

// ConfigSource overlays the stored rule and prompt documents on a base
// Source. It re-reads the store on every call so edits apply to the next
// check. Model settings always come from the base.
type ConfigSource struct {
	store  ConfigReader
	base   config.Source
	logger *zap.Logger
}

var _ config.Source = (*ConfigSource)(nil)

// NewConfigSource creates a ConfigSource; logger may be nil
func NewConfigSource(store ConfigReader, base config.Source, logger *zap.Logger) *ConfigSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigSource{store: store, base: base, logger: logger}
}

func (s *ConfigSource) RuleConfig(ctx context.Context) model.RuleConfig {
	cfg := s.base.RuleConfig(ctx)
	if !s.overlay(ctx, KeyRuleConfig, &cfg) {
		return s.base.RuleConfig(ctx)
	}
	return cfg
}

func (s *ConfigSource) PromptConfig(ctx context.Context) model.PromptConfig {
	cfg := s.base.PromptConfig(ctx)
	if !s.overlay(ctx, KeyPromptConfig, &cfg) {
		return s.base.PromptConfig(ctx)
	}
	return cfg
}

func (s *ConfigSource) LLM(ctx context.Context) model.LLMConfig {
	return s.base.LLM(ctx)
}

// overlay decodes the stored document into dst. It returns false when dst
// may have been partially written and must be discarded.
func (s *ConfigSource) overlay(ctx context.Context, key string, dst any) bool {
	raw, err := s.store.Config(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return true
	}
	if err != nil {
		s.logger.Warn("config store unavailable, using defaults", zap.String("key", key), zap.Error(err))
		return true
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Warn("stored config is not valid JSON, using defaults", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}
