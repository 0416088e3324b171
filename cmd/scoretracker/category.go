package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"score-tracker/internal/app"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.AddCategory(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "category %q added\n", args[0])
			return nil
		})
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename OLD NEW",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.RenameCategory(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "category %q renamed to %q\n", args[0], args[1])
			return nil
		})
	},
}

var categoryRemoveCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"remove"},
	Short:   "Delete a category with all its items and scores",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.DeleteCategory(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "category %q deleted\n", args[0])
			return nil
		})
	},
}

var categoryListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List categories, newest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app.App) error {
			out := cmd.OutOrStdout()
			s := a.Store()
			names := s.CategoryNames()
			if len(names) == 0 {
				fmt.Fprintln(out, "no categories")
				return nil
			}
			for _, name := range names {
				items, _ := s.ItemNames(name)
				fmt.Fprintf(out, "%s\t%d items\n", name, len(items))
			}
			return nil
		})
	},
}

func init() {
	categoryCmd.AddCommand(categoryAddCmd, categoryRenameCmd, categoryRemoveCmd, categoryListCmd)
	rootCmd.AddCommand(categoryCmd)
}
