package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/oncomark/internal/tui"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Enter a panel interactively and see the ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		return tui.Run(env.engine, env.settings.Top)
	},
}
