package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/codereview/internal/gitctx"
	"github.com/dshills/codereview/internal/hooks"
)

var (
	hookPreCommit bool
	hookAdvisory  bool
	hookModel     string
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the git hook that reviews changes before push or commit",
}

func hookType() hooks.Type {
	if hookPreCommit {
		return hooks.PreCommit
	}
	return hooks.PrePush
}

func hookManager() (*hooks.Manager, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	dir, err := gitctx.HooksDir(wd)
	if err != nil {
		return nil, err
	}
	return hooks.NewManager(dir), nil
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install codereview as a pre-push (default) or pre-commit hook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := hookManager()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		mode := hooks.Blocking
		if hookAdvisory {
			mode = hooks.Advisory
		}
		path, err := m.Install(hooks.Options{Type: hookType(), Mode: mode, Model: hookModel})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Installed %s %s hook at %s\n", mode, hookType(), path)
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the codereview hook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := hookManager()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		found, err := m.Uninstall(hookType())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if !found {
			fmt.Fprintf(cmd.OutOrStdout(), "No codereview %s hook found.\n", hookType())
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed codereview %s hook from %s\n", hookType(), m.Path(hookType()))
		return nil
	},
}

var hookStatusCmd = &cobra.Command{
	Use:   "status [pre-push|pre-commit]",
	Short: "Show which codereview hooks are installed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := hookManager()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		types := []hooks.Type{hooks.PrePush, hooks.PreCommit}
		if len(args) == 1 {
			t, err := hooks.ParseType(args[0])
			if err != nil {
				return err
			}
			types = []hooks.Type{t}
		}

		out := cmd.OutOrStdout()
		for _, t := range types {
			st, err := m.Status(t)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			if !st.Installed {
				fmt.Fprintf(out, "%-10s not installed\n", t)
				continue
			}
			line := fmt.Sprintf("%-10s installed (%s)", t, st.Mode)
			if st.Model != "" {
				line += ", model " + st.Model
			}
			fmt.Fprintf(out, "%s at %s\n", line, st.Path)
		}
		return nil
	},
}

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookCmd.AddCommand(hookStatusCmd)

	for _, c := range []*cobra.Command{hookInstallCmd, hookUninstallCmd} {
		c.Flags().BoolVar(&hookPreCommit, "pre-commit", false, "Use the pre-commit hook instead of pre-push")
	}
	hookInstallCmd.Flags().BoolVar(&hookAdvisory, "advisory", false, "Warn about issues without blocking")
	hookInstallCmd.Flags().StringVar(&hookModel, "model", "", "Model the hook should review with")
}
