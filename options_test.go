package chessperm

import (
	"net/http"
	"testing"
	"time"
)

func TestEngine_Parse(t *testing.T) {
	tests := []struct {
		in      string
		want    Engine
		wantErr bool
	}{
		{"", EngineSPN, false},
		{"spn", EngineSPN, false},
		{"game", EngineGame, false},
		{"SPN", "", true},
		{"chess", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEngine(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEngine(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEngine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMode_ParseAndString(t *testing.T) {
	for _, m := range []Mode{ModeTranscript, ModePassword} {
		got, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q) error = %v", m.String(), err)
		}
		if got != m {
			t.Errorf("ParseMode(%q) = %v, want %v", m.String(), got, m)
		}
	}
	if m, err := ParseMode(""); err != nil || m != ModeTranscript {
		t.Errorf("ParseMode(\"\") = %v, %v", m, err)
	}
	if _, err := ParseMode("pgn"); err == nil {
		t.Error("ParseMode(\"pgn\") error = nil")
	}
}

func TestDeriveConfig_Defaults(t *testing.T) {
	cfg := newDeriveConfig(nil)

	if cfg.plies != DefaultPlies {
		t.Errorf("plies = %d, want %d", cfg.plies, DefaultPlies)
	}
	if cfg.iterations != DefaultIterations {
		t.Errorf("iterations = %d, want %d", cfg.iterations, DefaultIterations)
	}
	if cfg.engine != EngineSPN {
		t.Errorf("engine = %q, want spn", cfg.engine)
	}
	if cfg.robust {
		t.Error("robust = true by default")
	}
	if cfg.rules == nil {
		t.Error("rules factory is nil")
	}
}

func TestDeriveOptions(t *testing.T) {
	var hooked bool
	custom := func() Rules { return NewStandardRules() }
	cfg := newDeriveConfig([]DeriveOption{
		WithSalt([]byte("s")),
		WithPlies(7),
		WithIterations(-1),
		WithEngine(EngineGame),
		WithRobust(),
		WithRules(custom),
		WithWorkers(2),
		WithSkippedTokenHook(func(string, error) { hooked = true }),
	})

	if string(cfg.salt) != "s" {
		t.Errorf("salt = %q", cfg.salt)
	}
	if cfg.plies != 7 {
		t.Errorf("plies = %d, want 7", cfg.plies)
	}
	if cfg.iterations != 0 {
		t.Errorf("iterations = %d, want 0", cfg.iterations)
	}
	if cfg.engine != EngineGame || !cfg.robust || cfg.workers != 2 {
		t.Errorf("engine = %q robust = %v workers = %d", cfg.engine, cfg.robust, cfg.workers)
	}
	cfg.onSkip("x", nil)
	if !hooked {
		t.Error("skip hook not installed")
	}

	cfg = newDeriveConfig([]DeriveOption{WithPlies(-3), WithRules(nil)})
	if cfg.plies != DefaultPlies {
		t.Errorf("WithPlies(-3) plies = %d, want default", cfg.plies)
	}
	if cfg.rules == nil {
		t.Error("WithRules(nil) cleared the factory")
	}
}

func TestClientOptions(t *testing.T) {
	hc := &http.Client{}
	cfg := &clientConfig{}
	for _, opt := range []Option{
		WithBaseURL("http://chess.example"),
		WithHTTPClient(hc),
		WithTimeout(5 * time.Second),
		WithRetries(2),
		WithRetryOn([]int{503}),
	} {
		opt(cfg)
	}

	if cfg.baseURL != "http://chess.example" {
		t.Errorf("baseURL = %q", cfg.baseURL)
	}
	if cfg.httpClient != hc {
		t.Error("httpClient not set")
	}
	if cfg.timeout != 5*time.Second || cfg.retries != 2 {
		t.Errorf("timeout = %v retries = %d", cfg.timeout, cfg.retries)
	}
	if len(cfg.retryOn) != 1 || cfg.retryOn[0] != 503 {
		t.Errorf("retryOn = %v", cfg.retryOn)
	}
}

func TestDefaultConstants(t *testing.T) {
	if defaultBaseURL != "http://localhost:8000" {
		t.Errorf("defaultBaseURL = %s", defaultBaseURL)
	}
	if DefaultPlies != 100 {
		t.Errorf("DefaultPlies = %d, want 100", DefaultPlies)
	}
	if KeySize != 32 {
		t.Errorf("KeySize = %d, want 32", KeySize)
	}
}
