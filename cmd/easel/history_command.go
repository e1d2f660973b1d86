package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"easel/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var showSteps bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent bootstrap runs from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Journal.Enabled {
				return fmt.Errorf("run journal is disabled in the configuration")
			}

			store, err := journal.Open(cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("load runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No bootstrap runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format(time.DateTime),
					runDuration(run),
					run.Outcome,
					run.FatalStep,
					strconv.Itoa(run.Warnings),
				})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				{header: "Run"},
				{header: "Started"},
				{header: "Duration", right: true},
				{header: "Outcome"},
				{header: "Failed Step"},
				{header: "Warnings", right: true},
			}, rows))

			if !showSteps {
				return nil
			}
			for _, run := range runs {
				steps, err := store.RunSteps(cmd.Context(), run.ID)
				if err != nil {
					return fmt.Errorf("load steps for run %s: %w", shortID(run.ID), err)
				}
				fmt.Fprintln(out)
				fmt.Fprintf(out, "Run %s:\n", shortID(run.ID))
				stepRows := make([][]string, 0, len(steps))
				for _, step := range steps {
					stepRows = append(stepRows, []string{
						strconv.Itoa(step.Position),
						step.Name,
						step.Status,
						step.Detail,
					})
				}
				fmt.Fprintln(out, renderTable([]tableColumn{
					{header: "#", right: true},
					{header: "Step"},
					{header: "Status"},
					{header: "Detail"},
				}, stepRows))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&showSteps, "steps", false, "Show per-step outcomes for each run")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runDuration(run journal.Run) string {
	if run.FinishedAt == nil {
		return "-"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}
