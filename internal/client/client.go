package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Belphemur/TVApi/internal/apperrors"
	"github.com/Belphemur/TVApi/internal/config"
	"github.com/Belphemur/TVApi/internal/models"
)

// ErrNoEndpoints is returned by NewClient when no catalog endpoint is configured.
var ErrNoEndpoints = errors.New("at least one catalog endpoint is required")

// Client defines the interface for querying the show catalog mirrors
type Client interface {
	GetShows(ctx context.Context, filters models.Filters) ([]models.RawShow, error)
	GetShow(ctx context.Context, id string) (*models.RawShow, error)
	GetRandomShow(ctx context.Context) (*models.RawShow, error)

	// Endpoints returns the ordered endpoint list the client falls back across.
	Endpoints() []string

	// Close releases idle connections held by the client.
	Close() error
}

// client implements the Client interface
type client struct {
	httpClient *http.Client
	endpoints  []string
	userAgent  string
}

// NewClient creates a new client instance with proxy configuration if provided
func NewClient(cfg *config.Config) (Client, error) {
	logger := config.GetLogger()

	endpoints := normalizeEndpoints(cfg.APIURLs)
	if len(endpoints) == 0 {
		return nil, ErrNoEndpoints
	}

	// Parse timeout duration
	timeout := 30 * time.Second // default
	if cfg.ClientTimeout != "" {
		if parsedTimeout, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			timeout = parsedTimeout
		}
	}

	// Clone DefaultTransport to preserve all its settings (timeouts, connection pooling, HTTP/2, etc.)
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}

	for i, endpoint := range endpoints {
		logger.Debug().Int("index", i).Str("endpoint", endpoint).Bool("tunnel", hasTunnel(endpoint)).Msg("Catalog endpoint registered")
	}

	return &client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newCompressionTransport(baseTransport),
		},
		endpoints: endpoints,
		userAgent: userAgent,
	}, nil
}

// normalizeEndpoints drops blank entries and makes sure each base ends with a
// slash so that paths can be appended directly.
func normalizeEndpoints(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		out = append(out, u)
	}
	return out
}

// GetShows fetches one page of the shows listing.
func (c *client) GetShows(ctx context.Context, filters models.Filters) ([]models.RawShow, error) {
	body, err := c.fetchWithFallback(ctx, showsPath(filters))
	if err != nil {
		return nil, err
	}

	var shows []models.RawShow
	if err := json.Unmarshal(body, &shows); err != nil {
		return nil, apperrors.NewRemoteError(fmt.Sprintf("malformed shows payload: %v", err))
	}
	return shows, nil
}

// GetShow fetches the detail record of a single show.
func (c *client) GetShow(ctx context.Context, id string) (*models.RawShow, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewInvalidRequestError("id", "must not be empty")
	}
	return c.getSingle(ctx, showPath(id))
}

// GetRandomShow fetches the detail record of a random show.
func (c *client) GetRandomShow(ctx context.Context) (*models.RawShow, error) {
	return c.getSingle(ctx, randomShowPath)
}

func (c *client) getSingle(ctx context.Context, path string) (*models.RawShow, error) {
	body, err := c.fetchWithFallback(ctx, path)
	if err != nil {
		return nil, err
	}

	var show models.RawShow
	if err := json.Unmarshal(body, &show); err != nil {
		return nil, apperrors.NewRemoteError(fmt.Sprintf("malformed show payload: %v", err))
	}
	return &show, nil
}

func (c *client) Endpoints() []string {
	return append([]string(nil), c.endpoints...)
}

// Close releases idle connections held by the underlying transport.
func (c *client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
