package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatusCommand(cliCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon job counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cliCtx.client()
			if err != nil {
				return err
			}
			doc, err := client.status(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{}
			for _, key := range []string{"pending", "processing", "completed", "failed", "retried", "total"} {
				rows = append(rows, []string{key, strconv.Itoa(doc.Jobs[key])})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"STATUS", "JOBS"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}
