package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/proofline/internal/model"
)

// EnvPrefix is the prefix for environment overrides (PROOFLINE_LLM_PROVIDER)
const EnvPrefix = "PROOFLINE"

// providerKeyEnv maps providers to the conventional variable holding their key
var providerKeyEnv = map[string]string{
	"deepseek":  "DEEPSEEK_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"claude":    "ANTHROPIC_API_KEY",
	"gemini":    "GOOGLE_API_KEY",
	"google":    "GOOGLE_API_KEY",
}

// ProviderKeyEnv returns the environment variable consulted for a provider key
func ProviderKeyEnv(provider string) string {
	return providerKeyEnv[strings.ToLower(provider)]
}

// DefaultDir returns ~/.proofline
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".proofline"), nil
}

// Load builds a viper instance seeded with defaults, the config file and
// PROOFLINE_* environment variables. An empty path searches ~/.proofline;
// a missing default file is not an error.
func Load(path string) (*viper.Viper, error) {
	v := viper.New()

	if err := setDefaults(v, model.DefaultConfig()); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := DefaultDir()
		if err != nil {
			return v, nil
		}
		v.AddConfigPath(dir)
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// setDefaults registers every key of cfg so env overrides reach Unmarshal
func setDefaults(v *viper.Viper, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}

	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}

	walkDefaults(v, "", tree)

	// Omitted from the YAML when empty but still overridable
	for _, key := range []string{
		"llm.api_key", "llm.base_url",
		"http.http_proxy", "http.https_proxy", "http.no_proxy",
	} {
		if !v.IsSet(key) {
			v.SetDefault(key, "")
		}
	}
	return nil
}

func walkDefaults(v *viper.Viper, prefix string, tree map[string]interface{}) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			walkDefaults(v, full, nested)
			continue
		}
		v.SetDefault(full, value)
	}
}

// ViperSource reads configuration from viper on every call
type ViperSource struct {
	v      *viper.Viper
	logger *zap.Logger
}

// NewViperSource wraps v. A nil logger discards warnings.
func NewViperSource(v *viper.Viper, logger *zap.Logger) *ViperSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViperSource{v: v, logger: logger}
}

// Config decodes the full configuration, falling back to defaults when the
// stored values cannot be decoded.
func (s *ViperSource) Config() *model.Config {
	cfg := model.DefaultConfig()
	if err := s.v.Unmarshal(cfg); err != nil {
		s.logger.Warn("invalid configuration, using defaults", zap.Error(err))
		cfg = model.DefaultConfig()
	}

	// Conventional provider variables fill a missing key
	if cfg.LLM.APIKey == "" {
		if env := ProviderKeyEnv(cfg.LLM.Provider); env != "" {
			cfg.LLM.APIKey = os.Getenv(env)
		}
	}
	if cfg.LLM.BaseURL == "" && strings.EqualFold(cfg.LLM.Provider, "ollama") {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	return cfg
}

func (s *ViperSource) RuleConfig(ctx context.Context) model.RuleConfig {
	return s.Config().Rules
}

func (s *ViperSource) PromptConfig(ctx context.Context) model.PromptConfig {
	return s.Config().Prompts
}

func (s *ViperSource) LLM(ctx context.Context) model.LLMConfig {
	return s.Config().LLM
}
