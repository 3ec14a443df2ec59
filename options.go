package chessperm

import (
	"fmt"
	"net/http"
	"time"

	"github.com/chessperm/chessperm-go/internal/game"
	"github.com/chessperm/chessperm-go/internal/rules"
)

// Engine selects the derivation strategy.
type Engine string

const (
	// EngineSPN runs the 16-round substitution-permutation network over
	// 256-bit blocks and XOR-folds the result.
	EngineSPN Engine = "spn"
	// EngineGame plays a bit-driven legal chess game and serializes the
	// final position.
	EngineGame Engine = "game"
)

// ParseEngine maps "spn" or "game" to an Engine. The empty string is EngineSPN.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case "", EngineSPN:
		return EngineSPN, nil
	case EngineGame:
		return EngineGame, nil
	}
	return "", fmt.Errorf("unknown engine %q (want %q or %q)", s, EngineSPN, EngineGame)
}

// Mode selects how the input string is encoded.
type Mode int

const (
	// ModeTranscript replays the input as chess moves, falling back to the
	// raw bytes when none is accepted.
	ModeTranscript Mode = iota
	// ModePassword always encodes the raw input bytes.
	ModePassword
)

// String returns "transcript" or "password".
func (m Mode) String() string {
	if m == ModePassword {
		return "password"
	}
	return "transcript"
}

// ParseMode maps "transcript" or "password" to a Mode. The empty string is
// ModeTranscript.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "transcript":
		return ModeTranscript, nil
	case "password":
		return ModePassword, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want \"transcript\" or \"password\")", s)
}

const (
	// DefaultPlies is the Engine B ply budget.
	DefaultPlies = game.DefaultPlies
	// DefaultIterations is the robust derivation iteration count.
	DefaultIterations = 1000
	defaultBaseURL    = "http://localhost:8000"
)

// deriveConfig holds configuration for one derivation.
type deriveConfig struct {
	salt       []byte
	plies      int
	iterations int
	engine     Engine
	robust     bool
	rules      rules.Factory
	workers    int
	onSkip     func(token string, err error)
}

func newDeriveConfig(opts []DeriveOption) *deriveConfig {
	cfg := &deriveConfig{
		plies:      DefaultPlies,
		iterations: DefaultIterations,
		engine:     EngineSPN,
		rules:      rules.NewStandard,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// DeriveOption configures a derivation.
type DeriveOption func(*deriveConfig)

// WithSalt appends salt to the input bits. Robust derivation also mixes it
// into every iteration.
func WithSalt(salt []byte) DeriveOption {
	return func(c *deriveConfig) {
		c.salt = salt
	}
}

// WithPlies sets the Engine B ply budget. Values below 1 keep the default.
func WithPlies(plies int) DeriveOption {
	return func(c *deriveConfig) {
		if plies > 0 {
			c.plies = plies
		}
	}
}

// WithIterations sets the robust iteration count. Negative values are
// treated as zero.
func WithIterations(n int) DeriveOption {
	return func(c *deriveConfig) {
		c.iterations = max(n, 0)
	}
}

// WithEngine selects the derivation engine. Robust derivation always uses
// EngineSPN.
func WithEngine(e Engine) DeriveOption {
	return func(c *deriveConfig) {
		c.engine = e
	}
}

// WithRobust switches to salted iterative derivation with a final SHA-256
// compression.
func WithRobust() DeriveOption {
	return func(c *deriveConfig) {
		c.robust = true
	}
}

// WithRules replaces the chess rules used for transcript replay and game
// simulation.
func WithRules(f RulesFactory) DeriveOption {
	return func(c *deriveConfig) {
		if f != nil {
			c.rules = f
		}
	}
}

// WithWorkers bounds how many blocks are processed in parallel. Zero or
// negative means GOMAXPROCS.
func WithWorkers(n int) DeriveOption {
	return func(c *deriveConfig) {
		c.workers = n
	}
}

// WithSkippedTokenHook installs a callback for transcript tokens that were
// skipped because they did not parse as legal moves.
func WithSkippedTokenHook(fn func(token string, err error)) DeriveOption {
	return func(c *deriveConfig) {
		c.onSkip = fn
	}
}

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	retryOn    []int
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the service base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of retries for failed requests.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
func WithRetryOn(statusCodes []int) Option {
	return func(c *clientConfig) {
		c.retryOn = statusCodes
	}
}
