// Package scrape implements the oil-price scraper: it authenticates against
// the price API, pulls the provider roster, scrapes each provider's website
// for its current price, and reports prices and the run window back to the
// API.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrParseDocument  = fmt.Errorf("failed to parse provider page")
	ErrNoPriceElement = fmt.Errorf("no element matched the provider's price selector")
)

// maxConcurrentProviders bounds the per-provider scrape fan-out so a large
// roster cannot exhaust sockets on the small instances this runs on.
const maxConcurrentProviders = 8

// Scraper drives one or more scraping runs against a price API.
type Scraper struct {
	baseURL string
	creds   Credentials
}

func New(baseURL string, creds Credentials) *Scraper {
	return &Scraper{
		baseURL: baseURL,
		creds:   creds,
	}
}

// Run performs a single scraping run: login, fetch the roster, scrape every
// provider concurrently, then record the run window.
//
// A provider that fails to scrape is logged and skipped; only roster-level
// failures (login, listing, posting the run) abort the run.
func (s *Scraper) Run(ctx context.Context) error {
	log := clog.FromContext(ctx)
	start := time.Now()

	client := NewClient(s.baseURL, s.creds)
	if err := client.Login(ctx); err != nil {
		return err
	}
	log.Debug("authenticated against price API")

	ids, err := client.Providers(ctx)
	if err != nil {
		return err
	}
	log.Info("fetched provider roster", "providers", len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProviders)
	for _, id := range ids {
		g.Go(func() error {
			if err := s.scrapeProvider(gctx, client, id); err != nil {
				// Scrape failures are per-provider; log and move on.
				log.Warn("provider scrape failed", "provider", id, "error", err)
			}
			return nil
		})
	}
	// The only error an errgroup worker can surface here is context
	// cancellation, which PostRun below will also observe.
	_ = g.Wait()

	if err := client.PostRun(ctx, start, time.Now()); err != nil {
		return err
	}
	log.Info("scraping run recorded", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *Scraper) scrapeProvider(ctx context.Context, client *Client, id int64) error {
	log := clog.FromContext(ctx)

	provider, err := client.Provider(ctx, id)
	if err != nil {
		return err
	}
	log = log.With("provider", provider.Name)

	body, err := client.FetchPage(ctx, provider.URL)
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrParseDocument, provider.URL, err)
	}

	node := doc.Find(provider.HTMLElement).First()
	if node.Length() == 0 {
		return fmt.Errorf("%w: %q", ErrNoPriceElement, provider.HTMLElement)
	}

	price, err := ParsePrice(node.Text())
	if err != nil {
		return err
	}
	if price <= 0 {
		log.Warn("ignoring non-positive price", "price", price)
		return nil
	}

	if err := client.AddPrice(ctx, provider.ID, price); err != nil {
		return err
	}
	if err := client.TouchLastAccessed(ctx, provider.ID); err != nil {
		return err
	}
	log.Info("price recorded", "price", price)
	return nil
}
