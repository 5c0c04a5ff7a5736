package main

import (
	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/xerrion/scraper-app/internal/infra"
)

func newDownCmd() *cobra.Command {
	var stateFile string

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Tear down everything recorded in the state file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := clog.FromContext(ctx)

			st, err := infra.LoadState(stateFile)
			if err != nil {
				return err
			}

			client, err := infra.NewEC2Client(ctx, st.Region)
			if err != nil {
				return err
			}

			if err := infra.Down(ctx, client, st); err != nil {
				// Keep the state file so a retry can finish the job.
				return err
			}
			log.Info("deployment torn down", "name", st.Name)
			return infra.RemoveState(stateFile)
		},
	}

	cmd.Flags().StringVar(&stateFile, "state-file", infra.DefaultStateFile, "state file written by 'scraperctl up'")
	return cmd
}
