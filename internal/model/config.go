package model

import (
	"strings"
	"time"
)

// Config is the complete proofline process configuration
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Rules        RuleConfig         `yaml:"rules" mapstructure:"rules"`
	Prompts      PromptConfig       `yaml:"prompts" mapstructure:"prompts"`
}

// LLMConfig selects and configures the model collaborator
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // deepseek, openai, anthropic, ollama, gemini, "" (disabled)
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds, per model call
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// Credential returns the value that proves the model collaborator is usable.
// Ollama runs locally without a key, so its base URL stands in.
func (c LLMConfig) Credential() string {
	if strings.EqualFold(c.Provider, "ollama") {
		if c.BaseURL != "" {
			return c.BaseURL
		}
		return "http://localhost:11434"
	}
	return strings.TrimSpace(c.APIKey)
}

// HTTPConfig configures report fetching over HTTP
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobot bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ConcurrencyConfig bounds the agent fan-out
type ConcurrencyConfig struct {
	AgentWorkers int `yaml:"agent_workers" mapstructure:"agent_workers"` // 0 = one worker per task
}

// RateLimitingConfig throttles model calls per provider. ProviderRates
// overrides RequestsPerSecond for the named providers or hosts.
type RateLimitingConfig struct {
	RequestsPerSecond float64            `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int                `yaml:"burst_size" mapstructure:"burst_size"`
	ProviderRates     map[string]float64 `yaml:"provider_rates,omitempty" mapstructure:"provider_rates"`
}

// StoreConfig locates the report database
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // SQLite file; empty = in-memory store
}

// RuleConfig toggles the rule scanner families. Keys missing from a stored
// document keep their default (true) when decoded over DefaultRuleConfig.
type RuleConfig struct {
	NumberFormat           bool `json:"check_number_format" yaml:"check_number_format" mapstructure:"check_number_format"`
	NumberSequence         bool `json:"check_number_sequence" yaml:"check_number_sequence" mapstructure:"check_number_sequence"`
	ExtraSpaces            bool `json:"check_extra_spaces" yaml:"check_extra_spaces" mapstructure:"check_extra_spaces"`
	EnglishPunctuation     bool `json:"check_english_punctuation" yaml:"check_english_punctuation" mapstructure:"check_english_punctuation"`
	SlashToSemicolon       bool `json:"check_slash_to_semicolon" yaml:"check_slash_to_semicolon" mapstructure:"check_slash_to_semicolon"`
	ConsecutivePunctuation bool `json:"check_consecutive_punctuation" yaml:"check_consecutive_punctuation" mapstructure:"check_consecutive_punctuation"`
	EnglishBrackets        bool `json:"check_english_brackets" yaml:"check_english_brackets" mapstructure:"check_english_brackets"`
	EndingPunctuation      bool `json:"check_ending_punctuation" yaml:"check_ending_punctuation" mapstructure:"check_ending_punctuation"`
	MidSentencePeriod      bool `json:"check_mid_sentence_period" yaml:"check_mid_sentence_period" mapstructure:"check_mid_sentence_period"`
	MissingNumber          bool `json:"check_missing_number" yaml:"check_missing_number" mapstructure:"check_missing_number"`
}

// DefaultRuleConfig enables every rule family
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		NumberFormat:           true,
		NumberSequence:         true,
		ExtraSpaces:            true,
		EnglishPunctuation:     true,
		SlashToSemicolon:       true,
		ConsecutivePunctuation: true,
		EnglishBrackets:        true,
		EndingPunctuation:      true,
		MidSentencePeriod:      true,
		MissingNumber:          true,
	}
}

// PromptConfig carries per-role prompt overrides and enable flags. The
// daily and weekly prompts drive the composing commands, not proofreading.
type PromptConfig struct {
	TypoPrompt          string `json:"typo_prompt,omitempty" yaml:"typo_prompt" mapstructure:"typo_prompt"`
	PunctuationPrompt   string `json:"punctuation_prompt,omitempty" yaml:"punctuation_prompt" mapstructure:"punctuation_prompt"`
	TypoEnabled         bool   `json:"check_typo" yaml:"check_typo" mapstructure:"check_typo"`
	PunctuationEnabled  bool   `json:"check_punctuation_semantic" yaml:"check_punctuation_semantic" mapstructure:"check_punctuation_semantic"`
	DailyOptimizePrompt string `json:"daily_optimize_prompt,omitempty" yaml:"daily_optimize_prompt" mapstructure:"daily_optimize_prompt"`
	WeeklySummaryPrompt string `json:"weekly_summary_prompt,omitempty" yaml:"weekly_summary_prompt" mapstructure:"weekly_summary_prompt"`
}

// DefaultPromptConfig enables both AI roles with their built-in prompts
func DefaultPromptConfig() PromptConfig {
	return PromptConfig{
		TypoEnabled:        true,
		PunctuationEnabled: true,
	}
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "", // Disabled until a provider and key are configured
			Timeout:     60,
			Temperature: 0.1,
			MaxTokens:   2000,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "proofline/0.1 (+https://github.com/ppiankov/proofline)",
			MaxBodyBytes: 2_000_000,
			RespectRobot: true,
		},
		Concurrency: ConcurrencyConfig{
			AgentWorkers: 0,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 5,
			BurstSize:         4,
		},
		Store: StoreConfig{
			Path: "",
		},
		Rules:   DefaultRuleConfig(),
		Prompts: DefaultPromptConfig(),
	}
}
