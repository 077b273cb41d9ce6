package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/dms-portal/internal/core/domain"
	"github.com/yndnr/dms-portal/internal/infra/buildinfo"
	"github.com/yndnr/dms-portal/internal/telemetry/logger"
)

// ContentType is sent on every backend request.
const ContentType = "application/json; charset=UTF-8"

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 30 * time.Second

// Recorder receives one observation per backend call.
type Recorder interface {
	RecordGatewayCall(method, endpoint, status string, seconds float64)
}

// Config configures a Client.
type Config struct {
	// BaseURL is the backend API root, e.g. "http://dms-api:5000".
	BaseURL string
	// AuthScheme is prepended to the token in the Authorization header.
	// Empty sends the raw token; the Flask backend expects "Bearer ".
	AuthScheme string
	// Timeout bounds each call. Zero uses DefaultTimeout.
	Timeout time.Duration
	// UserAgent overrides the default User-Agent.
	UserAgent string
}

// Client sends requests to the DMS backend.
type Client struct {
	baseURL    string
	authScheme string
	userAgent  string
	client     *http.Client
	recorder   Recorder
	logger     logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithLogger sets the logger for call tracing.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a backend client.
func New(cfg Config, opts ...Option) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = buildinfo.UserAgent()
	}

	c := &Client{
		baseURL:    baseURL,
		authScheme: cfg.AuthScheme,
		userAgent:  userAgent,
		client:     &http.Client{Timeout: timeout},
		logger:     logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call sends one request to base_url+path.
//
// The token, when present, is sent as the Authorization header. body is
// JSON-encoded unless nil. A 2xx response is returned with its body open;
// the caller must close it. Any other status is returned as *RequestError
// with the body consumed. Transport failures wrap domain.ErrBackendUnavailable,
// except cancellation which is returned as the context error.
func (c *Client) Call(ctx context.Context, method, path string, token domain.Token, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.addHeaders(req, token)

	endpoint := endpointLabel(path)
	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		c.record(method, endpoint, "error", elapsed)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.ForContext(c.logger, ctx).Warn("backend unreachable", "method", method, "endpoint", endpoint, "error", err)
		return nil, domain.ErrBackendUnavailable.WithDetails(method + " " + endpoint).WithCause(err)
	}

	c.record(method, endpoint, strconv.Itoa(resp.StatusCode), elapsed)
	logger.ForContext(c.logger, ctx).Debug("backend call",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newRequestError(method, path, resp)
	}
	return resp, nil
}

// Do runs Call and decodes a JSON reply into out. A nil out discards the body.
func (c *Client) Do(ctx context.Context, method, path string, token domain.Token, body, out any) error {
	resp, err := c.Call(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *Client) addHeaders(req *http.Request, token domain.Token) {
	if token.Present() {
		req.Header.Set("Authorization", c.authScheme+token.String())
	}
	req.Header.Set("Content-type", ContentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
}

func (c *Client) record(method, endpoint, status string, d time.Duration) {
	if c.recorder != nil {
		c.recorder.RecordGatewayCall(method, endpoint, status, d.Seconds())
	}
}

// endpointLabel strips the query and replaces numeric path segments so
// metric labels stay bounded.
func endpointLabel(path string) string {
	path = stripQuery(path)
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}
