// scraper is the container entrypoint: it runs a scraping run against the
// configured price API immediately and then once an hour until signalled.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/xerrion/scraper-app/internal/scrape"
)

const scrapeInterval = time.Hour

func main() {
	var (
		baseAPIURL   string
		clientID     string
		clientSecret string
	)

	cmd := &cobra.Command{
		Use:           "scraper",
		Short:         "Scrape oil provider prices and report them to the price API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseAPIURL == "" {
				return fmt.Errorf("--base-api-url (or BASE_API_URL) is required")
			}
			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("--client-id and --client-secret (or CLIENT_ID and CLIENT_SECRET) are required")
			}
			return run(cmd.Context(), baseAPIURL, scrape.Credentials{
				ClientID:     clientID,
				ClientSecret: clientSecret,
			})
		},
	}

	// Flags mirror the container entrypoint; the environment variables are
	// what the instance user_data injects via 'docker run -e'.
	cmd.Flags().StringVar(&baseAPIURL, "base-api-url", os.Getenv("BASE_API_URL"), "base URL of the price API")
	cmd.Flags().StringVar(&clientID, "client-id", os.Getenv("CLIENT_ID"), "API client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", os.Getenv("CLIENT_SECRET"), "API client secret")

	log := clog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := clog.WithLogger(context.Background(), log)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Error("scraper exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, baseAPIURL string, creds scrape.Credentials) error {
	log := clog.FromContext(ctx)
	scraper := scrape.New(baseAPIURL, creds)

	ticker := time.NewTicker(scrapeInterval)
	defer ticker.Stop()

	for {
		log.Info("starting scraping run")
		// A failed run is logged, not fatal; the next tick retries.
		if err := scraper.Run(ctx); err != nil {
			log.Error("scraping run failed", "error", err)
		} else {
			log.Info("scraping run finished", "next_run_in", scrapeInterval)
		}

		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		case <-ticker.C:
		}
	}
}
