package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Well-known errors returned by the API client. All errors returned by
// methods on 'Client' wrap one of these.
var (
	ErrLogin          = fmt.Errorf("failed to authenticate against the price API")
	ErrFetchProviders = fmt.Errorf("failed to fetch the provider listing")
	ErrFetchProvider  = fmt.Errorf("failed to fetch provider")
	ErrAddPrice       = fmt.Errorf("failed to record provider price")
	ErrTouchProvider  = fmt.Errorf("failed to update provider last_accessed")
	ErrPostRun        = fmt.Errorf("failed to record scraping run")
	ErrFetchPage      = fmt.Errorf("failed to fetch provider page")
)

// Client wraps the price API. It is not safe to share a Client across
// concurrent runs; the bearer token set by Login is connection state.
type Client struct {
	http  *resty.Client
	creds Credentials
}

// NewClient constructs an unauthenticated API client rooted at baseURL.
// Call Login before any of the authenticated endpoints.
func NewClient(baseURL string, creds Credentials) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)
	return &Client{
		http:  rc,
		creds: creds,
	}
}

// Login exchanges the client credentials for a bearer token and installs it
// as the Authorization header on all subsequent requests.
func (c *Client) Login(ctx context.Context) error {
	var token Token
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"client_id":     c.creds.ClientID,
			"client_secret": c.creds.ClientSecret,
		}).
		SetResult(&token).
		Post("/auth/login")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLogin, err)
	}
	if res.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d: %s", ErrLogin, res.StatusCode(), res.String())
	}
	if token.TokenType == "" {
		token.TokenType = "Bearer"
	}
	c.http.SetHeader("Authorization", token.TokenType+" "+token.AccessToken)
	return nil
}

// Providers returns the IDs of all providers registered with the API.
func (c *Client) Providers(ctx context.Context) ([]int64, error) {
	var refs []providerRef
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&refs).
		Get("/scraping_runs/providers")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchProviders, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrFetchProviders, res.StatusCode())
	}
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids, nil
}

// Provider fetches the full record for a single provider.
func (c *Client) Provider(ctx context.Context, id int64) (Provider, error) {
	var provider Provider
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&provider).
		Get(fmt.Sprintf("/providers/%d", id))
	if err != nil {
		return Provider{}, fmt.Errorf("%w %d: %w", ErrFetchProvider, id, err)
	}
	if res.StatusCode() != http.StatusOK {
		return Provider{}, fmt.Errorf("%w %d: HTTP %d", ErrFetchProvider, id, res.StatusCode())
	}
	return provider, nil
}

// AddPrice records a scraped price for the provider. The API answers 200 or
// 201 on acceptance; anything else is an error.
func (c *Client) AddPrice(ctx context.Context, id int64, price float64) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]float64{"price": price}).
		Post(fmt.Sprintf("/providers/%d/prices", id))
	if err != nil {
		return fmt.Errorf("%w for provider %d: %w", ErrAddPrice, id, err)
	}
	if res.StatusCode() != http.StatusOK && res.StatusCode() != http.StatusCreated {
		return fmt.Errorf("%w for provider %d: HTTP %d", ErrAddPrice, id, res.StatusCode())
	}
	return nil
}

// TouchLastAccessed bumps the provider's last_accessed timestamp after a
// successful price submission.
func (c *Client) TouchLastAccessed(ctx context.Context, id int64) error {
	res, err := c.http.R().
		SetContext(ctx).
		Put(fmt.Sprintf("/providers/%d/last_accessed", id))
	if err != nil {
		return fmt.Errorf("%w %d: %w", ErrTouchProvider, id, err)
	}
	if res.IsError() {
		return fmt.Errorf("%w %d: HTTP %d", ErrTouchProvider, id, res.StatusCode())
	}
	return nil
}

// PostRun records a completed scraping run window with the API.
func (c *Client) PostRun(ctx context.Context, start, end time.Time) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"start_time": start.Format(time.RFC3339),
			"end_time":   end.Format(time.RFC3339),
		}).
		Post("/scraping_runs")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPostRun, err)
	}
	if res.IsError() {
		return fmt.Errorf("%w: HTTP %d", ErrPostRun, res.StatusCode())
	}
	return nil
}

// FetchPage retrieves the raw HTML of a provider's website. The URL is
// absolute and outside the API, so the base URL is bypassed.
func (c *Client) FetchPage(ctx context.Context, url string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFetchPage, url, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w %s: HTTP %d", ErrFetchPage, url, res.StatusCode())
	}
	return res.Body(), nil
}
