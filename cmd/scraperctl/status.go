package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xerrion/scraper-app/internal/infra"
)

func newStatusCmd() *cobra.Command {
	var stateFile string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report the scraper container's state on the deployed instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := infra.LoadState(stateFile)
			if err != nil {
				return err
			}

			status, err := infra.Status(cmd.Context(), st)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "instance:  %s (%s)\n", st.InstanceID, st.InstanceIP)
			fmt.Fprintf(out, "container: %.12s  image=%s\n", status.ID, status.Image)
			fmt.Fprintf(out, "state:     %s (%s), started %s\n", status.State, status.Status, status.Started)
			if status.Logs != "" {
				fmt.Fprintf(out, "--- recent logs ---\n%s", status.Logs)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&stateFile, "state-file", infra.DefaultStateFile, "state file written by 'scraperctl up'")
	return cmd
}
