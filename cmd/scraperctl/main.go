// scraperctl provisions and tears down the scraper's single-instance AWS
// deployment: a key pair, a security group, and an EC2 instance whose boot
// script launches the scraper container.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		clog.FromContext(ctx).Error("scraperctl failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logFile string

	root := &cobra.Command{
		Use:           "scraperctl",
		Short:         "Provision the scraper's EC2 deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			handler := slog.Handler(slog.NewTextHandler(os.Stderr, nil))
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return err
				}
				handler = slogmulti.Fanout(handler, slog.NewJSONHandler(f, nil))
			}
			ctx := clog.WithLogger(cmd.Context(), clog.New(handler))
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs (JSON) to this file")

	root.AddCommand(
		newUpCmd(),
		newDownCmd(),
		newStatusCmd(),
		newRenderCmd(),
	)
	return root
}
