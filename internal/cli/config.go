package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/proofline/internal/config"
	"github.com/ppiankov/proofline/internal/llm"
	"github.com/ppiankov/proofline/internal/model"
	"github.com/ppiankov/proofline/internal/store"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Proofline configuration",
	Long: `Manage Proofline configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. Documents stored with 'proofline config set' (rules and prompts only)
2. Environment variables (PROOFLINE_*)
3. Config file (~/.proofline/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, merged from defaults, the config file and environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.NewViperSource(v, logger).Config()
		if cfg.LLM.APIKey != "" {
			cfg.LLM.APIKey = maskKey(cfg.LLM.APIKey)
		}

		if configFile := v.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Current Configuration")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Println(string(yamlData))

		// Stored documents override the rules and prompts sections
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() { _ = st.Close() }()

		for _, key := range []string{store.KeyRuleConfig, store.KeyPromptConfig} {
			value, err := st.Config(cmd.Context(), key)
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			fmt.Printf("Stored %s: %s\n", key, value)
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.proofline/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		configDir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		configPath := filepath.Join(configDir, "config.yaml")

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'proofline config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		defaultCfg := model.DefaultConfig()
		defaultCfg.Store.Path = filepath.Join(configDir, "proofline.db")
		yamlData, err := yaml.Marshal(defaultCfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		// Helper for writing with error checking
		printf := func(format string, a ...interface{}) {
			if err != nil {
				return
			}
			_, err = fmt.Fprintf(f, format, a...)
		}

		printf("# Proofline Configuration File\n")
		printf("#\n")
		printf("# Configuration hierarchy (highest to lowest priority):\n")
		printf("#   1. Documents stored with 'proofline config set'\n")
		printf("#   2. Environment variables (PROOFLINE_*)\n")
		printf("#   3. This config file\n")
		printf("#   4. Built-in defaults\n\n")
		printf("%s", yamlData)
		printf("\n# API Keys (recommended to use environment variables instead):\n")
		printf("#   export DEEPSEEK_API_KEY=sk-...\n")
		printf("#   export OPENAI_API_KEY=sk-...\n")
		printf("#   export ANTHROPIC_API_KEY=sk-ant-...\n")
		printf("#   export GOOGLE_API_KEY=...\n")
		printf("#   export OLLAMA_BASE_URL=http://localhost:11434\n")
		if err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  proofline config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n", configPath)
		fmt.Printf("\n")

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <rule_config|prompt_config> <json>",
	Short: "Store a rule or prompt document",
	Long: `Set stores a JSON document that overrides the rules or prompts section.
Keys left out keep their configured value. Changes apply to the next check.

Example:
  proofline config set rule_config '{"check_slash_to_semicolon": false}'
  proofline config set prompt_config '{"typo_prompt": "..."}'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, raw := args[0], args[1]

		if err := validateDocument(key, raw); err != nil {
			return err
		}

		var compact bytes.Buffer
		if err := json.Compact(&compact, []byte(raw)); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}

		cfg := config.NewViperSource(v, logger).Config()
		if cfg.Store.Path == "" {
			fmt.Fprintln(os.Stderr, "Warning: store.path is not set, the document is kept for this process only")
		}
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() { _ = st.Close() }()

		if err := st.SetConfig(cmd.Context(), key, compact.String(), documentDescriptions[key]); err != nil {
			return err
		}

		fmt.Printf("✓ Stored %s\n", key)
		return nil
	},
}

var configPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the model provider is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.NewViperSource(v, logger).Config()

		provider, err := llm.NewProvider(providerConfig(cfg))
		if err != nil {
			return err
		}
		if provider == nil {
			return fmt.Errorf("no model provider configured (set llm.provider to one of %s)", strings.Join(llm.Providers(), ", "))
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		if !provider.IsAvailable(ctx) {
			return fmt.Errorf("%s is not reachable", provider.Name())
		}
		fmt.Printf("✓ %s is reachable\n", provider.Name())
		return nil
	},
}

var documentDescriptions = map[string]string{
	store.KeyRuleConfig:   "rule scanner toggles",
	store.KeyPromptConfig: "model prompt overrides and role toggles",
}

// validateDocument rejects unknown document keys and unknown fields
func validateDocument(key, raw string) error {
	var target interface{}
	switch key {
	case store.KeyRuleConfig:
		target = &model.RuleConfig{}
	case store.KeyPromptConfig:
		target = &model.PromptConfig{}
	default:
		return fmt.Errorf("unknown document %q (expected %s or %s)", key, store.KeyRuleConfig, store.KeyPromptConfig)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

// maskKey keeps the last four characters of a credential
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd, configSetCmd, configPingCmd)
}
