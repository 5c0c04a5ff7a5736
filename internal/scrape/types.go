package scrape

// Credentials holds the client credential pair used to authenticate against
// the price API's /auth/login endpoint.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Token is the bearer token minted by /auth/login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Provider is an oil provider as served by GET /providers/{id}.
//
// HTMLElement is a CSS selector pointing at the price node on the provider's
// own website.
type Provider struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	HTMLElement  string `json:"html_element"`
	LastAccessed string `json:"last_accessed"`
}

// providerRef is the shape returned by the provider listing endpoint. Only
// the ID is needed; the full record is fetched per provider.
type providerRef struct {
	ID int64 `json:"id"`
}
