package cli

import (
	"github.com/spf13/cobra"

	"taskplanner/internal/tui"
)

func (a *App) uiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive planner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authed()
			if err != nil {
				return err
			}
			return tui.Run(c, a.loc)
		},
	}
}
