// Package upstream holds the adapters for the third-party HTTP APIs the bot
// queries. Each adapter performs one GET per call, without retries or caching.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/m3rciful/utilbot/core/logger"
)

const (
	component    = "upstream"
	maxBodyBytes = 1 << 20
)

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "utilbot_upstream_request_duration_seconds",
	Help:    "Duration of upstream API requests by upstream and HTTP status",
	Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
}, []string{"upstream", "status"})

// Doer is the subset of *http.Client used by the adapters.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs JSON GET requests on behalf of the adapters.
type Client struct {
	http Doer
}

// NewClient wraps an HTTP client; nil selects http.DefaultClient.
func NewClient(hc Doer) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{http: hc}
}

// getJSON issues GET endpoint?query and decodes the body into dst whatever the
// status, because the APIs describe their errors in JSON. It returns the HTTP status.
func (c *Client) getJSON(ctx context.Context, name, endpoint string, query url.Values, dst any) (int, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return 0, fmt.Errorf("%s: bad endpoint: %w", name, err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("%s: build request: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// the query carries API keys
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = endpoint
		}
		c.observe(ctx, name, "error", start, err)
		return 0, fmt.Errorf("%s: request failed: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	status := strconv.Itoa(resp.StatusCode)
	if err != nil {
		c.observe(ctx, name, status, start, err)
		return resp.StatusCode, fmt.Errorf("%s: read body: %w", name, err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		c.observe(ctx, name, status, start, err)
		return resp.StatusCode, &Error{
			Upstream: name,
			Status:   resp.StatusCode,
			Code:     status,
			Message:  "unexpected response body",
		}
	}
	c.observe(ctx, name, status, start, nil)
	return resp.StatusCode, nil
}

func (c *Client) observe(ctx context.Context, name, status string, start time.Time, err error) {
	took := time.Since(start)
	requestDuration.WithLabelValues(name, status).Observe(took.Seconds())

	attrs := []slog.Attr{
		slog.String("upstream", name),
		slog.String("http_code", status),
		slog.Duration("duration", logger.RoundMS(took)),
		slog.String("status", logger.Status(err)),
	}
	if err != nil {
		logger.Warn(ctx, component, "upstream.request", append(attrs, slog.String("err", err.Error()))...)
		return
	}
	logger.Debug(ctx, component, "upstream.request", attrs...)
}
