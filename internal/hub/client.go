package hub

import (
	"net/http"
	"time"
)

// DefaultBaseURL is the public Hugging Face endpoint. Tests point BaseURL at
// an httptest server instead.
const DefaultBaseURL = "https://huggingface.co"

// Config carries Client construction knobs. Zero values select working
// defaults.
type Config struct {
	// BaseURL is the hub root, without trailing slash.
	BaseURL string
	// ModelsDir is where artifacts land, one owner/name directory per repo.
	ModelsDir string
	// Token, when set, is sent as a bearer credential on listing and
	// download requests so gated repos resolve.
	Token string
	// HTTPClient serves the listing API. Downloads go through go-getter
	// and are not bounded by this client's timeout.
	HTTPClient *http.Client
	// RetryWait is the first backoff interval between download attempts.
	RetryWait time.Duration
}

// Client resolves references to artifact files and fetches them.
type Client struct {
	baseURL   string
	modelsDir string
	token     string
	http      *http.Client
	retryWait time.Duration
}

// New constructs a Client from cfg, applying defaults for unset fields.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:   cfg.BaseURL,
		modelsDir: cfg.ModelsDir,
		token:     cfg.Token,
		http:      cfg.HTTPClient,
		retryWait: cfg.RetryWait,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.retryWait <= 0 {
		c.retryWait = 2 * time.Second
	}
	return c
}

// ModelsDir returns the artifact root this client writes into.
func (c *Client) ModelsDir() string { return c.modelsDir }
