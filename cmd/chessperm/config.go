package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"

	chessperm "github.com/chessperm/chessperm-go"
	"github.com/chessperm/chessperm-go/internal/server"
)

var (
	dumpConfigCommand = cli.Command{
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[file]",
		Description: "The dumpconfig command writes the effective configuration as TOML.",
	}

	configFileFlag = cli.StringFlag{
		Name:   "config",
		Usage:  "TOML configuration file",
		EnvVar: "CHESSPERM_CONFIG",
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

type deriveSettings struct {
	Engine     string
	Plies      int
	Iterations int
	Robust     bool
	SaltHex    string `toml:",omitempty"`
	Workers    int
}

type serverSettings struct {
	Addr           string
	Cover          string `toml:",omitempty"`
	MaxUploadBytes int64
	MaxIterations  int
	MaxPlies       int
	MaxInputBytes  int
	MaxWork        int
	RateLimit      float64
	RateBurst      int
	AllowedOrigins []string `toml:",omitempty"`
	Workers        int
}

func (s serverSettings) config(logger *slog.Logger) server.Config {
	return server.Config{
		Addr:           s.Addr,
		CoverPath:      s.Cover,
		MaxUploadBytes: s.MaxUploadBytes,
		MaxIterations:  s.MaxIterations,
		MaxPlies:       s.MaxPlies,
		MaxInputBytes:  s.MaxInputBytes,
		MaxWork:        s.MaxWork,
		RateLimit:      s.RateLimit,
		RateBurst:      s.RateBurst,
		AllowedOrigins: s.AllowedOrigins,
		Workers:        s.Workers,
		Logger:         logger,
	}
}

type clientSettings struct {
	URL     string
	Timeout string // e.g. "30s"
	Retries int
}

type logSettings struct {
	Level  string
	Format string // "text" or "json"
}

type chesspermConfig struct {
	Derive deriveSettings
	Server serverSettings
	Client clientSettings
	Log    logSettings
}

func defaultConfig() chesspermConfig {
	return chesspermConfig{
		Derive: deriveSettings{
			Engine:     string(chessperm.EngineSPN),
			Plies:      chessperm.DefaultPlies,
			Iterations: chessperm.DefaultIterations,
		},
		Server: serverSettings{
			Addr:           server.DefaultAddr,
			MaxUploadBytes: server.DefaultMaxUploadBytes,
			MaxIterations:  server.DefaultMaxIterations,
			MaxPlies:       server.DefaultMaxPlies,
			MaxInputBytes:  server.DefaultMaxInputBytes,
			MaxWork:        server.DefaultMaxWork,
			RateBurst:      server.DefaultRateBurst,
		},
		Client: clientSettings{
			URL:     "http://localhost:8000",
			Timeout: "60s",
		},
		Log: logSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

func loadConfig(file string, cfg *chesspermConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads defaults, then the config file, then global flags.
func makeConfig(ctx *cli.Context) (chesspermConfig, error) {
	cfg := defaultConfig()

	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := ctx.GlobalString(urlFlag.Name); v != "" {
		cfg.Client.URL = v
	}
	if v := ctx.GlobalString(logLevelFlag.Name); v != "" {
		cfg.Log.Level = v
	}
	if v := ctx.GlobalString(logFormatFlag.Name); v != "" {
		cfg.Log.Format = v
	}
	return cfg, nil
}

func newLogger(s logSettings, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(s.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", s.Format)
}

func (cfg *Config) dumpConfig(ctx *cli.Context) error {
	c, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&c)
	if err != nil {
		return err
	}

	dump := cfg.Stdout
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	_, err = dump.Write(out)
	return err
}
