package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/avast/retry-go/v4"

	"github.com/Belphemur/TVApi/internal/apperrors"
	"github.com/Belphemur/TVApi/internal/config"
	"github.com/Belphemur/TVApi/internal/metrics"
	"github.com/Belphemur/TVApi/internal/models"
	"github.com/Belphemur/TVApi/internal/parser"
)

// fetchWithFallback GETs path against every endpoint in order until one answers.
// Transport errors and status codes >= 400 move on to the next endpoint. An
// application error from a reachable endpoint stops the chain immediately.
// The returned body is UTF-8 JSON.
func (c *client) fetchWithFallback(ctx context.Context, path string) ([]byte, error) {
	logger := config.GetLogger()

	attempt := 0
	body, err := retry.DoWithData(
		func() ([]byte, error) {
			endpoint := c.endpoints[attempt]
			attempt++
			return c.fetchOnce(ctx, endpoint, path)
		},
		retry.Context(ctx),
		retry.Attempts(uint(len(c.endpoints))),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn().Err(err).Str("endpoint", c.endpoints[n]).Msg("Catalog endpoint failed")
		}),
	)
	if err == nil {
		return body, nil
	}

	if errors.Is(err, &apperrors.ErrRemote{}) || ctx.Err() != nil {
		return nil, err
	}

	metrics.FallbackExhaustedTotal.Inc()
	return nil, &apperrors.ErrEndpointsExhausted{Attempts: attempt, Err: err}
}

// fetchOnce issues a single GET against endpoint+path.
func (c *client) fetchOnce(ctx context.Context, endpoint, path string) ([]byte, error) {
	logger := config.GetLogger()

	opts := applyTunnel(newRequestOptions(endpoint+path, c.userAgent), endpoint)
	logger.Info().Str("url", opts.URL).Str("host", opts.Host).Msg("Request to catalog")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		metrics.EndpointRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeTransportError).Inc()
		return nil, &apperrors.ErrTransport{URL: opts.URL, Err: err}
	}
	req.Header = opts.Header
	if opts.Host != "" {
		req.Host = opts.Host
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.EndpointRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeTransportError).Inc()
		return nil, &apperrors.ErrTransport{URL: opts.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		metrics.EndpointRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeHTTPError).Inc()
		return nil, &apperrors.ErrHTTPStatus{URL: opts.URL, StatusCode: resp.StatusCode}
	}

	reader, err := parser.NewUTF8Reader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		metrics.EndpointRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeTransportError).Inc()
		return nil, &apperrors.ErrTransport{URL: opts.URL, Err: fmt.Errorf("failed to decode charset: %w", err)}
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		metrics.EndpointRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeTransportError).Inc()
		return nil, &apperrors.ErrTransport{URL: opts.URL, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	if remoteErr := checkRemoteError(body); remoteErr != nil {
		metrics.EndpointRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeRemoteError).Inc()
		logger.Error().Str("url", opts.URL).Str("message", remoteErr.Message).Msg("Catalog returned an error")
		return nil, retry.Unrecoverable(remoteErr)
	}

	metrics.EndpointRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeSuccess).Inc()
	return body, nil
}

// checkRemoteError inspects a successful body for the catalog's error marker.
// A missing body or a JSON null count as "No data returned".
func checkRemoteError(body []byte) *apperrors.ErrRemote {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return apperrors.NewRemoteError("No data returned")
	}
	if trimmed[0] != '{' {
		return nil
	}

	var status models.RemoteStatus
	if err := json.Unmarshal(trimmed, &status); err != nil {
		return nil
	}
	if !status.Failed() {
		return nil
	}
	if status.StatusMessage != "" {
		return apperrors.NewRemoteError(status.StatusMessage)
	}
	var message string
	if err := json.Unmarshal(status.Error, &message); err != nil || message == "" {
		message = string(status.Error)
	}
	return apperrors.NewRemoteError(message)
}
