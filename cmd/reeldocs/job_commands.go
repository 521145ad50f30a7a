package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newJobCommand(cliCtx *commandContext) *cobra.Command {
	jobCmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect and retry processing jobs",
	}
	jobCmd.AddCommand(newJobListCommand(cliCtx))
	jobCmd.AddCommand(newJobShowCommand(cliCtx))
	jobCmd.AddCommand(newJobRetryCommand(cliCtx))
	return jobCmd
}

func newJobListCommand(cliCtx *commandContext) *cobra.Command {
	var projectID string
	var active bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectID) == "" {
				return fmt.Errorf("--project is required")
			}
			client, err := cliCtx.client()
			if err != nil {
				return err
			}
			docs, err := client.projectJobs(cmd.Context(), projectID, active, limit)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs.")
				return nil
			}

			rows := make([][]string, len(docs))
			for i, doc := range docs {
				rows[i] = []string{
					doc.ID,
					doc.Status,
					doc.Step,
					formatProgress(doc.Progress),
					strings.Join(doc.Languages, ","),
					truncate(firstNonEmpty(doc.ErrorMessage, doc.StepMessage), 48),
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "STATUS", "STEP", "PROGRESS", "LANGUAGES", "MESSAGE"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	cmd.Flags().BoolVar(&active, "active", false, "Only pending and processing jobs")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of recent jobs")
	return cmd
}

func newJobShowCommand(cliCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cliCtx.client()
			if err != nil {
				return err
			}
			doc, err := client.job(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job:       %s\n", doc.ID)
			fmt.Fprintf(out, "Video:     %s\n", doc.VideoID)
			fmt.Fprintf(out, "Project:   %s\n", doc.ProjectID)
			fmt.Fprintf(out, "Status:    %s\n", doc.Status)
			fmt.Fprintf(out, "Step:      %s\n", doc.Step)
			fmt.Fprintf(out, "Progress:  %s\n", formatProgress(doc.Progress))
			fmt.Fprintf(out, "Languages: %s\n", strings.Join(describeLanguages(doc.Languages), ", "))
			if doc.StepMessage != "" {
				fmt.Fprintf(out, "Message:   %s\n", doc.StepMessage)
			}
			if doc.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:     %s\n", doc.ErrorMessage)
			}
			fmt.Fprintf(out, "Created:   %s\n", doc.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			if doc.CompletedAt != nil {
				fmt.Fprintf(out, "Completed: %s\n", doc.CompletedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func newJobRetryCommand(cliCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <job-id>",
		Short: "Retry a failed job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cliCtx.client()
			if err != nil {
				return err
			}
			newID, err := client.retryJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued retry job %s\n", newID)
			return nil
		},
	}
}
