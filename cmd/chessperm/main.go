// Command chessperm derives ChessPerm keys, seals and opens messages, and
// serves the HTTP API.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/urfave/cli.v1"
)

const version = "0.3.0"

// Config holds the process streams so tests can capture them.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// EnvFile is loaded into the environment before flags are parsed.
	// Missing files are ignored. Empty disables loading.
	EnvFile string
}

// DefaultConfig returns a Config wired to the process streams.
func DefaultConfig() *Config {
	return &Config{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		EnvFile: ".env",
	}
}

var (
	urlFlag = cli.StringFlag{
		Name:   "url",
		Usage:  "ChessPerm service URL for --remote operations",
		EnvVar: "CHESSPERM_URL",
	}
	logLevelFlag = cli.StringFlag{
		Name:   "log-level",
		Usage:  "Log level (debug, info, warn, error)",
		EnvVar: "CHESSPERM_LOG_LEVEL",
	}
	logFormatFlag = cli.StringFlag{
		Name:   "log-format",
		Usage:  "Log format (text, json)",
		EnvVar: "CHESSPERM_LOG_FORMAT",
	}
)

func run(args []string, cfg *Config) error {
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", cfg.EnvFile, err)
		}
	}
	return cfg.newApp().Run(args)
}

func (cfg *Config) newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "chessperm"
	app.Usage = "derive keys from chess games and hide messages in images"
	app.Version = version
	app.Writer = cfg.Stdout
	app.ErrWriter = cfg.Stderr
	app.Flags = []cli.Flag{configFileFlag, urlFlag, logLevelFlag, logFormatFlag}

	dump := dumpConfigCommand
	dump.Action = cfg.dumpConfig

	app.Commands = []cli.Command{
		cfg.deriveCommand(),
		cfg.encryptCommand(),
		cfg.decryptCommand(),
		cfg.serveCommand(),
		cfg.statsCommand(),
		dump,
	}
	app.Action = func(ctx *cli.Context) error {
		if ctx.NArg() > 0 {
			return fmt.Errorf("unknown command %q", ctx.Args().First())
		}
		return cli.ShowAppHelp(ctx)
	}
	return app
}

// readInput joins the positional arguments, or reads stdin when there are
// none or the only argument is "-".
func (cfg *Config) readInput(ctx *cli.Context) (string, error) {
	args := ctx.Args()
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cfg.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
