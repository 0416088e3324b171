package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"score-tracker/internal/app"
	"score-tracker/internal/format"
	"score-tracker/internal/service"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Record, remove and list scores",
}

var scoreAddCmd = &cobra.Command{
	Use:   "add CATEGORY ITEM SCORE...",
	Short: "Append one or more scores to an item",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.SelectItem(args[0], args[1]); err != nil {
				return err
			}
			if err := a.AddScores(ctx, args[2:]); err != nil {
				return err
			}
			it, _ := a.Store().Item(args[0], args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s: %s\n", args[0], args[1], service.NewSummaryService().ItemLine(it))
			return nil
		})
	},
}

var scoreRemoveCmd = &cobra.Command{
	Use:     "rm CATEGORY ITEM #N",
	Aliases: []string{"remove"},
	Short:   "Delete the score shown as #N in the history",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[2])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.SelectItem(args[0], args[1]); err != nil {
				return err
			}
			it, _ := a.Store().Item(args[0], args[1])
			var removed string
			if index >= 0 && index < len(it.Scores) {
				removed = format.Int(it.Scores[index].Score)
			}
			if err := a.DeleteScore(ctx, index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed #%d (%s)\n", index+1, removed)
			return nil
		})
	},
}

var scoreHistoryCmd = &cobra.Command{
	Use:   "history CATEGORY ITEM",
	Short: "Show scores newest first",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app.App) error {
			it, err := a.Store().Item(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.NewSummaryService().History(it, time.Now()))
			return nil
		})
	},
}

// parsePosition turns a history label such as "#3" or "3" into the
// zero-based score index.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil {
		return 0, fmt.Errorf("invalid score position %q", s)
	}
	return n - 1, nil
}

func init() {
	scoreCmd.AddCommand(scoreAddCmd, scoreRemoveCmd, scoreHistoryCmd)
	rootCmd.AddCommand(scoreCmd)
}
