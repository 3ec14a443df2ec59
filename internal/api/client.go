package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the default number of retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the default base delay between retries.
	DefaultRetryDelay = time.Second
)

// RequestIDHeader carries the server-assigned request ID.
const RequestIDHeader = "X-Request-ID"

// Config holds the settings for [NewClient].
type Config struct {
	// BaseURL is the service root, e.g. "http://localhost:8000". Required.
	BaseURL string
	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
	// Timeout is the per-request timeout. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt.
	// Zero means DefaultMaxRetries; negative disables retries.
	MaxRetries int
	// RetryDelay is the base backoff delay. Zero means DefaultRetryDelay.
	RetryDelay time.Duration
	// RetryOn lists status codes that trigger a retry. Nil keeps the
	// defaults (408, 429, 500, 502, 503, 504).
	RetryOn []int
}

// Client is the HTTP client for the ChessPerm service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *RetryConfig
}

// NewClient creates a client from an explicit configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		retry:      DefaultRetryConfig(),
	}

	if c.httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}

	switch {
	case cfg.MaxRetries < 0:
		c.retry.MaxRetries = 0
	case cfg.MaxRetries > 0:
		c.retry.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		c.retry.BaseDelay = cfg.RetryDelay
	}
	if cfg.RetryOn != nil {
		c.retry.RetryableOn = statusIn(cfg.RetryOn)
	}

	return c, nil
}

// Option configures the API client.
type Option func(*Config)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetries sets the number of retries.
func WithRetries(retries int) Option {
	return func(c *Config) {
		if retries == 0 {
			retries = -1
		}
		c.MaxRetries = retries
	}
}

// WithRetryDelay sets the base backoff delay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Config) {
		c.RetryDelay = d
	}
}

// WithRetryOn sets the status codes that trigger a retry.
func WithRetryOn(statusCodes []int) Option {
	return func(c *Config) {
		c.RetryOn = statusCodes
	}
}

// New creates a client using functional options.
func New(opts ...Option) (*Client, error) {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewClient(cfg)
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a JSON request and decodes a JSON response into result.
// body and result may be nil.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, "application/json", data)
	if err != nil {
		return err
	}

	if result != nil {
		return decodeJSON(resp, result)
	}
	return nil
}

func decodeJSON(data []byte, result any) error {
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// send performs the request with retries. The body is replayed on every
// attempt.
func (c *Client) send(ctx context.Context, method, path, contentType string, body []byte) ([]byte, error) {
	url := c.baseURL + path

	for attempt := 0; ; attempt++ {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < c.retry.MaxRetries {
				if werr := c.retry.Wait(ctx, attempt); werr != nil {
					return nil, werr
				}
				continue
			}
			return nil, &NetworkError{Err: err, URL: url, Attempt: attempt + 1}
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if c.retry.ShouldRetry(attempt, resp.StatusCode) {
			if werr := c.retry.WaitAtLeast(ctx, attempt, retryAfter(resp.Header)); werr != nil {
				return nil, werr
			}
			continue
		}
		if readErr != nil {
			return nil, &NetworkError{Err: readErr, URL: url, Attempt: attempt + 1}
		}
		if resp.StatusCode >= 400 {
			return nil, parseErrorResponse(resp.StatusCode, resp.Header, data)
		}
		return data, nil
	}
}

func parseErrorResponse(status int, header http.Header, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		id := errResp.RequestID
		if id == "" {
			id = header.Get(RequestIDHeader)
		}
		return &APIError{
			StatusCode: status,
			Message:    errResp.Error,
			RequestID:  id,
		}
	}

	return &APIError{
		StatusCode: status,
		Message:    strings.TrimSpace(string(body)),
		RequestID:  header.Get(RequestIDHeader),
	}
}

func statusIn(codes []int) func(int) bool {
	set := make(map[int]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return func(status int) bool { return set[status] }
}
