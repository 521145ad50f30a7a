package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProjectCommand(cliCtx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cliCtx.client()
			if err != nil {
				return err
			}
			doc, err := client.createProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", doc.ID, doc.Slug)
			return nil
		},
	}

	projectCmd.AddCommand(createCmd)
	return projectCmd
}
