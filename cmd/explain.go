package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/oncomark/internal/config"
	"github.com/abhisek/oncomark/internal/registry"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Break one class's score down by marker",
	Long: "explain shows, for one class, which marker was scored against the class's\n" +
		"signal distribution and which against the healthy baseline, with each term's\n" +
		"log density. Without --class it explains the predicted class.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		rec, err := recordFromFlags(cmd)
		if err != nil {
			return err
		}

		id, _ := cmd.Flags().GetString("class")
		classID := registry.ClassID(id)
		if classID == "" {
			best, err := env.engine.Classify(rec.Panel)
			if err != nil {
				return err
			}
			classID = best.Class
		}

		ex, err := env.engine.Explain(rec.Panel, classID)
		if err != nil {
			if panelError(err) {
				return err
			}
			return fmt.Errorf("explain: %w", err)
		}

		if env.settings.Format == config.FormatJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(ex)
		}
		return env.out.Explanation(ex)
	},
}

func init() {
	addPanelFlags(explainCmd)
	explainCmd.Flags().String("class", "", "Class id to explain (default: the predicted class)")
}
