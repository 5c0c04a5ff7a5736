package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xerrion/scraper-app/internal/infra"
)

// loadConfig assembles the deployment config from three layers, strongest
// last: an optional scraperctl.yaml in the working directory, SCRAPER_*
// environment variables, and command-line flags.
func loadConfig(cmd *cobra.Command) (infra.Config, error) {
	v := viper.New()
	v.SetConfigName("scraperctl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return infra.Config{}, err
		}
	}

	for _, key := range []string{
		"image", "base-api-url", "client-id", "client-secret",
		"region", "instance-type", "allow-http", "name",
	} {
		if flag := cmd.Flags().Lookup(key); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return infra.Config{}, err
			}
		}
	}

	cfg := infra.Config{
		Image:        v.GetString("image"),
		BaseAPIURL:   v.GetString("base-api-url"),
		ClientID:     v.GetString("client-id"),
		ClientSecret: v.GetString("client-secret"),
		Region:       v.GetString("region"),
		InstanceType: v.GetString("instance-type"),
		AllowHTTP:    v.GetBool("allow-http"),
		Name:         v.GetString("name"),
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// addConfigFlags registers the deployment configuration flags shared by the
// up and render subcommands. Defaults live in infra.Config.ApplyDefaults so
// config file and environment values are not shadowed by flag defaults.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("image", "", `docker image to run (default "xerrion/scraper-app:latest")`)
	cmd.Flags().String("base-api-url", "", `base URL of the price API (default "http://127.0.0.1")`)
	cmd.Flags().String("client-id", "", "API client ID (required, sensitive)")
	cmd.Flags().String("client-secret", "", "API client secret (required, sensitive)")
	cmd.Flags().String("region", "", `AWS region (default "us-east-1")`)
	cmd.Flags().String("instance-type", "", `EC2 instance type (default "t2.micro")`)
	cmd.Flags().Bool("allow-http", false, "also open inbound TCP/80 on the security group")
	cmd.Flags().String("name", "", `resource name prefix (default "scraper-app")`)
}
