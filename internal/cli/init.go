package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/codereview/internal/config"
	"github.com/dshills/codereview/internal/gitctx"
	"github.com/dshills/codereview/internal/hooks"
)

var flagInitHook bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .codereview.yaml in the current repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		path, created, err := config.Init(wd)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if created {
			fmt.Fprintf(out, "Created %s\n", path)
		} else {
			fmt.Fprintf(out, "%s already exists, leaving it unchanged\n", path)
		}

		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}

		if flagInitHook {
			dir, err := gitctx.HooksDir(wd)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				exitCode = ExitUsageError
				return nil
			}
			hookPath, err := hooks.NewManager(dir).Install(hooks.Options{Type: hooks.PrePush, Mode: hooks.Blocking})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			fmt.Fprintf(out, "Installed pre-push hook at %s\n", hookPath)
		}

		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "  Make sure Ollama is running: ollama serve")
		fmt.Fprintf(out, "  Pull a model if needed: ollama pull %s\n", cfg.Model)
		fmt.Fprintln(out, "  Review your changes: codereview review")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&flagInitHook, "hook", false, "Also install the pre-push git hook")
}
