package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"score-tracker/internal/app"
	"score-tracker/internal/format"
	"score-tracker/internal/service"
)

var (
	itemDecayFlag string

	itemEditCategory string
	itemEditName     string
	itemEditDecay    string
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage items inside a category",
}

var itemAddCmd = &cobra.Command{
	Use:   "add CATEGORY NAME",
	Short: "Create an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.AddItem(ctx, args[0], args[1], itemDecayFlag); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "item %q added to %q\n", args[1], args[0])
			return nil
		})
	},
}

var itemRemoveCmd = &cobra.Command{
	Use:     "rm CATEGORY NAME",
	Aliases: []string{"remove"},
	Short:   "Delete an item and its scores",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.DeleteItem(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "item %q deleted from %q\n", args[1], args[0])
			return nil
		})
	},
}

var itemEditCmd = &cobra.Command{
	Use:   "edit CATEGORY NAME",
	Short: "Move, rename or re-rate an item in one step",
	Long: `Applies --to, --name and --decay together. If any part fails (for example
the new name is taken in the destination) nothing is changed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.OpenEditItem(args[0], args[1]); err != nil {
				return err
			}
			m := a.Modal.(*app.EditItemModal)
			if cmd.Flags().Changed("to") {
				m.NewCategory = itemEditCategory
			}
			if cmd.Flags().Changed("name") {
				m.NewName = itemEditName
			}
			if cmd.Flags().Changed("decay") {
				m.Decay = itemEditDecay
			}
			if err := a.Submit(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "item now %s/%s (decay %s)\n", m.NewCategory, m.NewName, m.Decay)
			return nil
		})
	},
}

var itemListCmd = &cobra.Command{
	Use:     "ls CATEGORY",
	Aliases: []string{"list"},
	Short:   "List items, most recently updated first",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app.App) error {
			out := cmd.OutOrStdout()
			names, err := a.Store().ItemNames(args[0])
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(out, "no items")
				return nil
			}
			summary := service.NewSummaryService()
			for _, name := range names {
				it, _ := a.Store().Item(args[0], name)
				fmt.Fprintf(out, "%s\t%s\t%s\n", name, summary.ItemLine(it), format.Timestamp(it.UpdatedAt))
			}
			return nil
		})
	},
}

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Inspect or change decay rates",
}

var decaySetCmd = &cobra.Command{
	Use:   "set CATEGORY ITEM RATE",
	Short: "Set an item's decay rate (0.01 - 1.00)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.SelectItem(args[0], args[1]); err != nil {
				return err
			}
			if err := a.UpdateDecayRate(ctx, args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "decay of %s/%s set to %s\n", args[0], args[1], args[2])
			return nil
		})
	},
}

func init() {
	itemAddCmd.Flags().StringVar(&itemDecayFlag, "decay", "", "decay rate (default from config)")

	itemEditCmd.Flags().StringVar(&itemEditCategory, "to", "", "destination category")
	itemEditCmd.Flags().StringVar(&itemEditName, "name", "", "new item name")
	itemEditCmd.Flags().StringVar(&itemEditDecay, "decay", "", "new decay rate")

	itemCmd.AddCommand(itemAddCmd, itemRemoveCmd, itemEditCmd, itemListCmd)
	decayCmd.AddCommand(decaySetCmd)
	rootCmd.AddCommand(itemCmd, decayCmd)
}
