// Package api is the HTTP client for the external inventory REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"kitbox/internal/adapters/http/perf"
	"kitbox/internal/metrics"
)

// DefaultTimeout bounds every upstream call.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is kept in Error.Raw.
const maxErrorBody = 64 << 10

// Credentials gives the client access to one browser session's bearer token.
type Credentials interface {
	Token(ctx context.Context) (string, bool)
	Clear(ctx context.Context) error
}

// Client is shared by all requests; it holds no per-user state.
type Client struct {
	baseURL   string
	http      *http.Client
	collector *perf.Collector
}

// NewClient creates a client for the API rooted at baseURL (e.g. http://localhost:5000/api).
// PRE: baseURL is an absolute URL; timeout > 0 (non-positive uses DefaultTimeout)
// POST: Returns a client safe for concurrent use
func NewClient(baseURL string, timeout time.Duration, collector *perf.Collector) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		collector: collector,
	}
}

// Session binds the client to one request's credentials.
func (c *Client) Session(creds Credentials) *Session {
	return &Session{client: c, creds: creds}
}

// Session issues calls on behalf of a single browser session.
type Session struct {
	client *Client
	creds  Credentials
}

// Call performs one API request.
// PRE: endpoint starts with "/"; out is nil or a pointer
// POST: On 2xx with a body, the JSON is decoded into out; 204 or an empty body leaves out untouched.
// On 401 the stored credential is cleared and an Error of KindUnauthorized is returned.
// Any other failure is returned as a normalized *Error.
func (s *Session) Call(ctx context.Context, method, endpoint string, body any, requiresAuth bool, out any) error {
	c := s.client
	start := time.Now()
	label := routeTemplate(endpoint)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, label, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, label, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if requiresAuth && s.creds != nil {
		if token, ok := s.creds.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(ctx, method, label, 0, start)
		return &Error{Kind: KindTransport, Message: "Could not reach the inventory service.", Err: err}
	}
	defer resp.Body.Close()
	c.observe(ctx, method, label, resp.StatusCode, start)

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		if s.creds != nil {
			if err := s.creds.Clear(ctx); err != nil {
				slog.ErrorContext(ctx, "credential_clear_failed", "error", err)
			}
		}
		return &Error{Kind: KindUnauthorized, Status: resp.StatusCode, Message: "Unauthorized"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newResponseError(resp.StatusCode, raw)
	}

	if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 || out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Status: resp.StatusCode, Message: "Could not read the inventory service response.", Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "Unexpected response from the inventory service.", Raw: data, Err: err}
	}
	return nil
}

// observe logs, counts and records one upstream call. status 0 means no response.
func (c *Client) observe(ctx context.Context, method, endpoint string, status int, start time.Time) {
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000.0

	statusLabel := metrics.StatusTransportError
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	metrics.APIRequestsTotal.WithLabelValues(method, endpoint, statusLabel).Inc()
	metrics.APIRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())

	level := slog.LevelDebug
	if status == 0 || status >= 500 {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "api_request",
		"method", method,
		"endpoint", endpoint,
		"status", status,
		"duration_ms", durationMs,
	)

	if c.collector != nil {
		c.collector.Record(perf.Entry{
			Kind:       perf.KindUpstream,
			Path:       method + " " + endpoint,
			StatusCode: status,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// routeTemplate strips the query and replaces numeric path segments with {id}.
func routeTemplate(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	for numericSegment.MatchString(endpoint) {
		endpoint = numericSegment.ReplaceAllString(endpoint, "/{id}$1")
	}
	return endpoint
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
