package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/codereview/internal/gitctx"
	"github.com/dshills/codereview/internal/history"
	"github.com/dshills/codereview/internal/output"
	"github.com/dshills/codereview/internal/review"
)

var (
	historyCount  int
	historyLatest bool
	historyClear  bool
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past review runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		root := wd
		if meta, err := gitctx.GetRepoMeta(wd); err == nil && meta.Root != "" {
			root = meta.Root
		}
		store := history.New(root, cfg.History.Dir)
		out := cmd.OutOrStdout()

		switch {
		case historyClear:
			n, err := store.Clear()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			fmt.Fprintf(out, "Removed %d review(s) from %s\n", n, store.Dir())
			return nil

		case historyLatest:
			entry, err := store.Latest()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			if entry == nil {
				fmt.Fprintln(out, "No review history yet.")
				return nil
			}
			if historyJSON {
				return writeIndented(out, entry)
			}
			fmt.Fprintf(out, "%s  %s  %s\n", entry.ID, entry.Model, entry.Mode)
			return output.WriteReview(out, review.ParsedReview{Issues: entry.Issues, LGTM: entry.LGTM}, !color.NoColor)
		}

		entries, err := store.List(historyCount)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if historyJSON {
			return writeIndented(out, entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No review history yet.")
			return nil
		}
		for _, e := range entries {
			s := review.ComputeSummary(e.Issues)
			fmt.Fprintf(out, "%s  %-20s %-16s %d issue(s)", e.ID, e.Model, e.Mode, e.IssueCount)
			if s.HighestSeverity != "" {
				fmt.Fprintf(out, ", highest %s", s.HighestSeverity)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func writeIndented(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func init() {
	historyCmd.Flags().IntVarP(&historyCount, "count", "n", 10, "Number of runs to list (0 for all)")
	historyCmd.Flags().BoolVar(&historyLatest, "latest", false, "Show the most recent review in full")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all stored reviews")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print entries as JSON")
}
