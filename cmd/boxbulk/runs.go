package main

import (
	"errors"
	"fmt"

	"github.com/funktionslust/boxbulk"

	"github.com/spf13/cobra"
)

var errNoHistory = errors.New("run history is not configured, set tracker.host")

func runsCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{Use: "runs", Short: "Inspect the history of runs"}
	runsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt(flagLimit)
			a, err := env.app(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.history == nil {
				return errNoHistory
			}
			runs, err := a.history.LastRuns(limit)
			if err != nil {
				return err
			}
			console := a.runner.Console()
			if a.cfg.Settings.OutputJSON {
				return console.WriteJSON(runs)
			}
			for _, run := range runs {
				console.WriteData(formatRun(run))
			}
			return nil
		},
	}
	runsListCmd.Flags().Int(flagLimit, defaultRunsLimit, "maximum number of runs")
	runsIssuesCmd := &cobra.Command{
		Use:   "issues <run-id>",
		Short: "List the record failures of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.app(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.history == nil {
				return errNoHistory
			}
			issues, err := a.history.RunIssues(args[0])
			if err != nil {
				return err
			}
			console := a.runner.Console()
			if a.cfg.Settings.OutputJSON {
				return console.WriteJSON(issues)
			}
			for _, issue := range issues {
				console.WriteError(formatIssue(issue))
			}
			return nil
		},
	}
	cmd.AddCommand(runsListCmd, runsIssuesCmd)
	return cmd
}

// formatRun renders e.g. "2021-04-01T10:00:00Z 6f1c... folders create finished: 3 records, 2 succeeded, 1 failed".
func formatRun(run *boxbulk.Run) string {
	line := fmt.Sprintf("%s %s %s %s %s: %d records, %d succeeded, %d failed",
		run.Started.Format("2006-01-02T15:04:05Z07:00"), run.ID, run.Command, run.SubCommand, run.State,
		run.Total, run.Succeeded, run.Failed)
	if run.ReportPath != "" {
		line += ", report " + run.ReportPath
	}
	if run.Error != "" {
		line += ", error: " + run.Error
	}
	return line
}

func formatIssue(issue *boxbulk.Issue) string {
	return fmt.Sprintf("%s %s (record %d, %s): %s", issue.Kind.Label(), issue.RecordID, issue.Line, issue.Type, issue.Message())
}
