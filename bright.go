// Package bright is the Go client for the Bright search server. It manages
// indexes, documents, searches and ingresses over Bright's HTTP API and
// reports server failures as typed errors.
package bright

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

// Doer executes a single HTTP request. *http.Client satisfies it; supply a
// custom implementation to intercept or replace the transport.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to one Bright server. All configuration is fixed at
// construction; a Client is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    Doer
	logger  *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithAPIKey authenticates every request with a Bearer token
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the default HTTP transport
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithTimeout sets the request timeout of the default HTTP transport.
// Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger enables structured request logging
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the Bright server at baseURL. A trailing slash
// on the URL is stripped.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 10 * time.Second,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return c, nil
}

// Config holds client configuration read from environment variables
type Config struct {
	URL     string        `env:"BRIGHT_URL" envDefault:"http://localhost:3000"`
	APIKey  string        `env:"BRIGHT_API_KEY"`
	Timeout time.Duration `env:"BRIGHT_TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads client configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewFromEnv creates a client configured from BRIGHT_URL, BRIGHT_API_KEY
// and BRIGHT_TIMEOUT. Explicit options override the environment.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	merged := make([]Option, 0, len(opts)+2)
	merged = append(merged, WithTimeout(cfg.Timeout))
	if cfg.APIKey != "" {
		merged = append(merged, WithAPIKey(cfg.APIKey))
	}
	merged = append(merged, opts...)

	return New(cfg.URL, merged...)
}

// BaseURL returns the configured server URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Index returns a handle binding indexID to all per-index operations.
// The handle is stateless; creating one does not touch the server.
func (c *Client) Index(indexID string) *Index {
	return &Index{client: c, id: indexID}
}
