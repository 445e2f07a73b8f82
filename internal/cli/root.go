package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/codereview/internal/config"
	"github.com/dshills/codereview/internal/logger"
)

// version is overridden at build time with -ldflags "-X".
var version = "1.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitFindings     = 1
	ExitUsageError   = 2
	ExitUnavailable  = 3
	ExitRuntimeError = 4
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "codereview",
	Short: "Local-first AI code review",
	Long: "codereview reviews your git changes with a model running on your own machine.\n" +
		"No cloud, no API keys. Issues at or above the fail-on severity produce exit code 1.",
	SilenceUsage: true,
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print codereview version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "codereview version %s\n", version)
	},
}

// loadConfig reads the effective configuration for the working directory.
func loadConfig(overrides map[string]string) (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("getting working directory: %w", err)
	}
	return config.Load(wd, overrides)
}

func newLogger(cfg config.Config) *slog.Logger {
	return logger.NewLogger(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Verbose: flagVerbose,
	}, os.Stderr)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging on stderr")
}
