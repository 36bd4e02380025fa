package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	outputFormat string
	manifestPath string
	verbose      bool
	quiet        bool

	// logger is replaced in PersistentPreRunE once the flags are known.
	logger = zap.NewNop()

	// appVersion is recorded in backup metadata.
	appVersion = "dev"
)

// Execute runs the wpstack command line.
func Execute(version, commit, date string) error {
	appVersion = version
	return newRootCmd(version, commit, date).Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wpstack",
		Short: "Scaffold local WordPress development environments",
		Long: `wpstack builds local WordPress installs from a declarative manifest.

Describe the site in a vmanifest file, collect proxies and dependencies
interactively, then dump composer.json, .env, nginx and wp-cli config with
wpstack dump.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose, quiet)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "", "Path to the vmanifest (default: $WPSTACK_MANIFEST or ./vmanifest.*)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newProxiesCmd())
	rootCmd.AddCommand(newRequireCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))
	rootCmd.AddCommand(newCompletionCmd())

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd
}

// newLogger builds a console logger on stderr: warnings by default, debug
// with --verbose and errors only with --quiet.
func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true

	level := zapcore.WarnLevel
	switch {
	case quiet:
		level = zapcore.ErrorLevel
	case verbose:
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)

	return config.Build()
}
