package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskplanner/internal/today"
	"taskplanner/internal/view"
)

func (a *App) todayCommand() *cobra.Command {
	var sectionName string
	var page int
	var all bool

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's tasks by section",
		Long: `Show today's tasks in three sections: current, passed due date and complete.
Only one section is listed at a time, five tasks per page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			section, ok := today.ParseSection(sectionName)
			if !ok {
				return usageError("unknown section %q (use current, overdue or completed)", sectionName)
			}

			c, err := a.authed()
			if err != nil {
				return err
			}
			tasks, err := c.ListTasks(cmd.Context(), 0)
			if err != nil {
				return err
			}
			categories, err := c.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			names := categoryNames(categories)

			now := a.now().In(a.loc)
			buckets := today.Categorize(tasks, now)
			counts := buckets.Counts()

			state := view.Next(view.Initial(), view.Expand{Section: section})
			state.Pages[section] = page
			state = view.Next(state, view.Loaded{Counts: counts})

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, headingStyle.Render("Today · "+now.Format("Mon, 02 Jan 2006")))
			for _, s := range today.Sections {
				fmt.Fprintln(w)
				fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%s (%d)", s.Title(), counts[s])))
				if s != state.Expanded && !all {
					continue
				}
				number := 1
				if s == state.Expanded {
					number = state.Pages[s]
				}
				p := today.Paginate(buckets.Section(s), number, today.PageSize)
				if all {
					p = today.Paginate(buckets.Section(s), 1, len(buckets.Section(s)))
				}
				if len(p.Items) == 0 {
					fmt.Fprintln(w, mutedStyle.Render("  "+s.EmptyMessage()))
					continue
				}
				for _, task := range p.Items {
					printTask(w, task, today.TimeLabel(task, a.loc), names[task.CategoryID])
				}
				if p.Pages > 1 {
					fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("  page %d/%d", p.Number, p.Pages)))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&sectionName, "section", "s", "current", "section to list: current, overdue or completed")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page of the section")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every section in full")
	return cmd
}
