package main

import (
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/xerrion/scraper-app/internal/infra"
)

func newUpCmd() *cobra.Command {
	var stateFile string

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Provision the key pair, security group and instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := clog.FromContext(ctx)

			if _, err := infra.LoadState(stateFile); err == nil {
				return fmt.Errorf("%s already exists; run 'scraperctl down' first", stateFile)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			client, err := infra.NewEC2Client(ctx, cfg.Region)
			if err != nil {
				return err
			}

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			st, err := infra.Up(ctx, client, cfg, cwd)
			if err != nil {
				return err
			}
			if err := st.Save(stateFile); err != nil {
				// The deployment is alive but untracked; leave it up and
				// make the operator aware instead of tearing it down.
				log.Error("deployment is up but its state could not be saved", "instance", st.InstanceID)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "instance_ip = %s\n", st.InstanceIP)
			fmt.Fprintf(cmd.OutOrStdout(), "ssh -i %s ec2-user@%s\n", st.KeyPath, st.InstanceIP)
			return nil
		},
	}

	addConfigFlags(cmd)
	cmd.Flags().StringVar(&stateFile, "state-file", infra.DefaultStateFile, "where to record created resources")
	return cmd
}
