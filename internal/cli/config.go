package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/codereview/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage codereview configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default .codereview.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		path, created, err := config.Init(wd)
		if err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		if !created {
			fmt.Fprintf(cmd.ErrOrStderr(), "Config file already exists at %s\n", path)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config file created at %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value, e.g. review.max_issues 20",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		if err := config.Set(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if path, _ := config.Find(wd); path != "" {
			fmt.Fprintf(out, "# source: %s\n", path)
		} else {
			fmt.Fprintln(out, "# source: defaults (no .codereview.yaml found)")
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	},
}

// configPath returns the config file in use, or the default location in
// the working directory when none exists yet.
func configPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	path, err := config.Find(wd)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = filepath.Join(wd, config.FileName)
	}
	return path, nil
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}
