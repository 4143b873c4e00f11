package pqchat

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pqchat/e2ee-go/internal/api"
)

// HTTPDirectory is a Directory backed by a hosted REST backend. Records are
// fetched with GET and merged with PATCH; the backend owns the merge
// semantics, so concurrent writers to different fields never clobber each
// other.
type HTTPDirectory struct {
	client *api.Client
}

// httpDirectoryConfig holds configuration for HTTP directory construction.
type httpDirectoryConfig struct {
	timeout    time.Duration
	httpClient *http.Client
	retry      *api.RetryConfig
}

// HTTPDirectoryOption configures an HTTPDirectory.
type HTTPDirectoryOption func(*httpDirectoryConfig)

// WithDirectoryTimeout sets the per-request timeout.
func WithDirectoryTimeout(timeout time.Duration) HTTPDirectoryOption {
	return func(c *httpDirectoryConfig) {
		c.timeout = timeout
	}
}

// WithDirectoryHTTPClient sets a custom HTTP client.
func WithDirectoryHTTPClient(client *http.Client) HTTPDirectoryOption {
	return func(c *httpDirectoryConfig) {
		c.httpClient = client
	}
}

// WithDirectoryRetries sets the maximum number of retries for transient
// failures.
func WithDirectoryRetries(retries int) HTTPDirectoryOption {
	return func(c *httpDirectoryConfig) {
		cfg := api.DefaultRetryConfig()
		cfg.MaxRetries = retries
		c.retry = cfg
	}
}

// NewHTTPDirectory creates a Directory client for the backend at baseURL.
// apiKey may be empty when the backend does not require bearer auth.
func NewHTTPDirectory(baseURL, apiKey string, opts ...HTTPDirectoryOption) (*HTTPDirectory, error) {
	cfg := &httpDirectoryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	apiOpts := []api.Option{}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}
	if cfg.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(cfg.httpClient))
	}
	if cfg.retry != nil {
		apiOpts = append(apiOpts, api.WithRetryConfig(cfg.retry))
	}

	client, err := api.New(baseURL, apiKey, apiOpts...)
	if err != nil {
		return nil, err
	}

	return &HTTPDirectory{client: client}, nil
}

// Upsert merges fields into the identity's backend record.
func (d *HTTPDirectory) Upsert(ctx context.Context, identity string, fields map[string]string) error {
	return d.client.UpsertDirectoryEntry(ctx, identity, fields)
}

// Get fetches the identity's record. A backend 404 maps to
// ErrIdentityNotFound.
func (d *HTTPDirectory) Get(ctx context.Context, identity string) (map[string]string, error) {
	fields, err := d.client.GetDirectoryEntry(ctx, identity)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return fields, nil
}
