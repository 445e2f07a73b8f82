package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/codereview/internal/providers"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect the local inference server",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List models installed on the inference server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(buildOverrides())
		if err != nil {
			return err
		}
		b, err := newBackend(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		models, err := b.ListModels(ctx)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = inferenceExitCode(err)
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s at %s:\n", b.Name(), b.Host())
		if len(models) == 0 {
			fmt.Fprintln(out, "  (no models installed)")
			return nil
		}
		for _, m := range models {
			marker := " "
			if m.Name == cfg.Model || baseName(m.Name) == baseName(cfg.Model) {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-32s %s\n", marker, m.Name, formatSize(m.Size))
		}
		return nil
	},
}

var modelsDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the inference server is running and the model is installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(buildOverrides())
		if err != nil {
			return err
		}
		b, err := newBackend(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Checking %s at %s...\n", b.Name(), b.Host())

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := providers.HealthCheck(ctx, b, cfg.Model); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %v\n", err)
			exitCode = inferenceExitCode(err)
			return nil
		}

		fmt.Fprintf(out, "OK: %s is running and %s is installed\n", b.Name(), cfg.Model)
		return nil
	},
}

func baseName(model string) string {
	base, _, _ := strings.Cut(model, ":")
	return base
}

func formatSize(n int64) string {
	const gb = 1 << 30
	const mb = 1 << 20
	switch {
	case n >= gb:
		return fmt.Sprintf("%.1f GB", float64(n)/gb)
	case n >= mb:
		return fmt.Sprintf("%.0f MB", float64(n)/mb)
	case n > 0:
		return fmt.Sprintf("%d B", n)
	default:
		return ""
	}
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsDoctorCmd)
	for _, c := range []*cobra.Command{modelsListCmd, modelsDoctorCmd} {
		c.Flags().StringVarP(&flagModel, "model", "m", "", "Model to check")
		c.Flags().StringVar(&flagProvider, "provider", "", "Inference server type (ollama, lmstudio)")
	}
}
