package chessperm

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/chessperm/chessperm-go/internal/api"
)

// Client talks to a ChessPerm service over HTTP. Local derivation and
// sealing need no client; use it when the service holds the cover images
// or runs closer to the data.
type Client struct {
	apiClient *api.Client
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(cfg *clientConfig) (*api.Client, error) {
	apiOpts := []api.Option{
		api.WithBaseURL(cfg.baseURL),
	}
	if cfg.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(cfg.httpClient))
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}
	if cfg.retries > 0 {
		apiOpts = append(apiOpts, api.WithRetries(cfg.retries))
	}
	if len(cfg.retryOn) > 0 {
		apiOpts = append(apiOpts, api.WithRetryOn(cfg.retryOn))
	}
	return api.New(apiOpts...)
}

// NewClient creates a client for the service at the configured base URL,
// http://localhost:8000 by default.
func NewClient(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := buildAPIClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{apiClient: apiClient}, nil
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// Health checks that the service is reachable and healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.apiClient.Health(ctx)
}

// Derive asks the service to derive a master key. Only WithSalt, WithPlies,
// WithIterations, WithEngine and WithRobust are sent; other options apply to
// local derivation only.
func (c *Client) Derive(ctx context.Context, mode Mode, input string, opts ...DeriveOption) (MasterKey, error) {
	cfg := newDeriveConfig(opts)
	req := api.DeriveRequest{
		Input:  input,
		Mode:   mode.String(),
		Engine: string(cfg.engine),
		Robust: cfg.robust,
	}
	if len(cfg.salt) > 0 {
		req.SaltHex = hex.EncodeToString(cfg.salt)
	}
	if cfg.plies != DefaultPlies {
		req.Plies = cfg.plies
	}
	if cfg.robust {
		req.Iterations = cfg.iterations
	}

	resp, err := c.apiClient.Derive(ctx, req)
	if err != nil {
		return MasterKey{}, err
	}
	key, err := ParseMasterKey(resp.Key)
	if err != nil {
		return MasterKey{}, fmt.Errorf("invalid key in response: %w", err)
	}
	return key, nil
}

// Encrypt seals message on the service. cover may be nil to use the
// service's default cover image.
func (c *Client) Encrypt(ctx context.Context, transcript, message string, cover []byte) (*Envelope, error) {
	archive, err := c.apiClient.Encrypt(ctx, api.EncryptRequest{
		Transcript: transcript,
		Message:    message,
		Cover:      cover,
	})
	if err != nil {
		return nil, err
	}
	return ParseArchive(archive)
}

// Decrypt opens an archive or stego PNG on the service. filename is sent
// with the upload; an empty name defaults to stego.png.
func (c *Client) Decrypt(ctx context.Context, file []byte, filename, secretKeyHex, transcript string) (string, error) {
	resp, err := c.apiClient.Decrypt(ctx, api.DecryptRequest{
		File:       file,
		Filename:   filename,
		PrivateKey: secretKeyHex,
		Transcript: transcript,
	})
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}
