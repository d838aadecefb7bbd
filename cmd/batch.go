package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/oncomark/internal/batch"
	"github.com/abhisek/oncomark/internal/config"
	"github.com/abhisek/oncomark/internal/panelsrc"
	"github.com/abhisek/oncomark/internal/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Classify every panel in a CSV, JSON, JSON-lines or SQLite file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		table, _ := cmd.Flags().GetString("table")
		records, err := panelsrc.Open(ctx, args[0], panelsrc.Options{Table: table})
		if err != nil {
			return fmt.Errorf("read panels: %w", err)
		}
		env.log.Debug("panels read", "path", args[0], "count", len(records))

		results, err := batch.Run(ctx, env.engine, records, env.settings.Workers)
		if err != nil {
			return err
		}

		runID := report.NewRunID()
		for _, res := range results {
			if res.Err != nil {
				env.log.Warn("panel skipped", "record", res.Record.Name(), "err", res.Err)
			}
			if err := env.emit(report.FromResult(runID, res, env.settings.Top)); err != nil {
				return err
			}
		}

		summary := batch.Summarize(results)
		if env.settings.Format == config.FormatTable {
			if err := env.out.Summary(summary, env.model.Registry); err != nil {
				return err
			}
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d panels could not be classified", summary.Failed, summary.Total)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().String("table", panelsrc.DefaultTable, "Table to read when the input is a SQLite database")
	batchCmd.Flags().Int("workers", 0, "Parallel workers (overrides ONCOMARK_WORKERS env var; default GOMAXPROCS)")
}
