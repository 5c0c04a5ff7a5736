package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xerrion/scraper-app/internal/infra"
)

func newRenderCmd() *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the user_data boot script that would be attached to the instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			render := infra.RenderUserDataRedacted
			if showSecrets {
				if err := cfg.Validate(); err != nil {
					return err
				}
				render = infra.RenderUserData
			}
			script, err := render(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), script)
			return nil
		},
	}

	addConfigFlags(cmd)
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "render the real credential values instead of placeholders")
	return cmd
}
