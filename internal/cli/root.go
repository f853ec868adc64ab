package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ppiankov/proofline/internal/config"
	"github.com/ppiankov/proofline/internal/version"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

// Set up by PersistentPreRunE for every subcommand
var v *viper.Viper

var logger = zap.NewNop()

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "proofline",
	Short: "Proofline - weekly report proofreading",
	Long: `Proofline proofreads office weekly reports written in Chinese.

A deterministic rule scanner checks item numbering and punctuation over the
whole report. When a model provider is configured, two model-backed passes
then look for typos and misused punctuation in each section.

Every issue names the exact text to replace and its suggested replacement.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Proofline.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.proofline/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// setup builds the logger and reads configuration
func setup(cmd *cobra.Command, args []string) error {
	if noColor {
		color.NoColor = true
	}

	l, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	logger = l

	v, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if used := v.ConfigFileUsed(); used != "" && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", used)
	}
	return nil
}

// newLogger writes JSON logs to stderr, at debug level when verbose
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
