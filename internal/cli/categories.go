package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *App) categoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List and change categories",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authed()
			if err != nil {
				return err
			}
			categories, err := c.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(categories) == 0 {
				fmt.Fprintln(w, mutedStyle.Render("No categories."))
				return nil
			}
			for _, cat := range categories {
				fmt.Fprintf(w, "#%-4d %s\n", cat.ID, cat.Name)
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authed()
			if err != nil {
				return err
			}
			cat, err := c.CreateCategory(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Added category #%d %s", cat.ID, cat.Name)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id|name> <new name>",
		Short: "Rename a category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authed()
			if err != nil {
				return err
			}
			id, err := resolveCategory(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			cat, err := c.UpdateCategory(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Renamed category #%d to %s", cat.ID, cat.Name)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:     "rm <id|name>",
		Aliases: []string{"delete"},
		Short:   "Delete a category and its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authed()
			if err != nil {
				return err
			}
			id, err := resolveCategory(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			if err := c.DeleteCategory(cmd.Context(), id); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deleted category #%d", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, rename, remove)
	return cmd
}
