package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gopkg.in/urfave/cli.v1"

	chessperm "github.com/chessperm/chessperm-go"
	"github.com/chessperm/chessperm-go/internal/server"
)

var (
	modeFlag = cli.StringFlag{
		Name:  "mode",
		Usage: "Input encoding: transcript or password",
		Value: "transcript",
	}
	engineFlag = cli.StringFlag{
		Name:  "engine",
		Usage: "Derivation engine: spn or game",
	}
	pliesFlag = cli.IntFlag{
		Name:  "plies",
		Usage: "Ply budget for the game engine",
	}
	saltFlag = cli.StringFlag{
		Name:  "salt",
		Usage: "Hex-encoded salt appended to the input",
	}
	robustFlag = cli.BoolFlag{
		Name:  "robust",
		Usage: "Salted iterative derivation with SHA-256 compression",
	}
	iterationsFlag = cli.IntFlag{
		Name:  "iterations",
		Usage: "Iteration count for --robust",
	}
	remoteFlag = cli.BoolFlag{
		Name:  "remote",
		Usage: "Run the operation on the service at --url",
	}
	transcriptFlag = cli.StringFlag{
		Name:  "transcript, t",
		Usage: "Chess move transcript the key is derived from",
	}
	messageFlag = cli.StringFlag{
		Name:  "message, m",
		Usage: "Message to seal (read from stdin when empty)",
	}
	coverFlag = cli.StringFlag{
		Name:  "cover",
		Usage: "PNG or JPEG cover image (built-in cover when empty)",
	}
	outFlag = cli.StringFlag{
		Name:  "out, o",
		Usage: "Archive path, or - for stdout",
		Value: "chessperm_package.zip",
	}
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "Hex-encoded secret key",
	}
	keyFileFlag = cli.StringFlag{
		Name:  "key-file",
		Usage: "File holding the hex-encoded secret key",
	}
	addrFlag = cli.StringFlag{
		Name:   "addr",
		Usage:  "Listen address",
		EnvVar: "CHESSPERM_ADDR",
	}
	serveCoverFlag = cli.StringFlag{
		Name:   "cover",
		Usage:  "Default cover image for encrypt requests without one",
		EnvVar: "CHESSPERM_COVER",
	}
	rateLimitFlag = cli.Float64Flag{
		Name:   "rate-limit",
		Usage:  "Requests per second across all clients (0 disables)",
		EnvVar: "CHESSPERM_RATE_LIMIT",
	}
	originsFlag = cli.StringFlag{
		Name:   "allowed-origins",
		Usage:  "Comma-separated CORS origins (all when empty)",
		EnvVar: "CHESSPERM_ALLOWED_ORIGINS",
	}
)

// deriveOptions merges config file settings with command flags.
func deriveOptions(ctx *cli.Context, s deriveSettings) ([]chessperm.DeriveOption, error) {
	if ctx.IsSet(engineFlag.Name) {
		s.Engine = ctx.String(engineFlag.Name)
	}
	if ctx.IsSet(pliesFlag.Name) {
		s.Plies = ctx.Int(pliesFlag.Name)
	}
	if ctx.IsSet(saltFlag.Name) {
		s.SaltHex = ctx.String(saltFlag.Name)
	}
	if ctx.IsSet(robustFlag.Name) {
		s.Robust = ctx.Bool(robustFlag.Name)
	}
	if ctx.IsSet(iterationsFlag.Name) {
		s.Iterations = ctx.Int(iterationsFlag.Name)
	}

	engine, err := chessperm.ParseEngine(s.Engine)
	if err != nil {
		return nil, err
	}
	opts := []chessperm.DeriveOption{
		chessperm.WithEngine(engine),
		chessperm.WithPlies(s.Plies),
		chessperm.WithIterations(s.Iterations),
		chessperm.WithWorkers(s.Workers),
	}
	if s.SaltHex != "" {
		salt, err := hex.DecodeString(s.SaltHex)
		if err != nil {
			return nil, fmt.Errorf("salt: %w", err)
		}
		opts = append(opts, chessperm.WithSalt(salt))
	}
	if s.Robust {
		opts = append(opts, chessperm.WithRobust())
	}
	return opts, nil
}

func newClient(c chesspermConfig) (*chessperm.Client, error) {
	opts := []chessperm.Option{
		chessperm.WithBaseURL(strings.TrimRight(c.Client.URL, "/")),
	}
	if c.Client.Timeout != "" {
		timeout, err := time.ParseDuration(c.Client.Timeout)
		if err != nil {
			return nil, fmt.Errorf("client timeout: %w", err)
		}
		opts = append(opts, chessperm.WithTimeout(timeout))
	}
	if c.Client.Retries > 0 {
		opts = append(opts, chessperm.WithRetries(c.Client.Retries))
	}
	return chessperm.NewClient(opts...)
}

func (cfg *Config) deriveCommand() cli.Command {
	return cli.Command{
		Name:      "derive",
		Usage:     "Derive a 256-bit key and print it as hex",
		ArgsUsage: "<transcript or password | ->",
		Flags:     []cli.Flag{modeFlag, engineFlag, pliesFlag, saltFlag, robustFlag, iterationsFlag, remoteFlag},
		Action:    cfg.derive,
	}
}

func (cfg *Config) derive(ctx *cli.Context) error {
	c, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	mode, err := chessperm.ParseMode(ctx.String(modeFlag.Name))
	if err != nil {
		return err
	}
	opts, err := deriveOptions(ctx, c.Derive)
	if err != nil {
		return err
	}
	input, err := cfg.readInput(ctx)
	if err != nil {
		return err
	}

	var key chessperm.MasterKey
	if ctx.Bool(remoteFlag.Name) {
		client, err := newClient(c)
		if err != nil {
			return err
		}
		key, err = client.Derive(context.Background(), mode, input, opts...)
		if err != nil {
			return err
		}
	} else {
		key, err = chessperm.DeriveContext(context.Background(), mode, input, opts...)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(cfg.Stdout, key.Hex())
	return nil
}

func (cfg *Config) encryptCommand() cli.Command {
	return cli.Command{
		Name:   "encrypt",
		Usage:  "Seal a message into a cover image and write the archive",
		Flags:  []cli.Flag{transcriptFlag, messageFlag, coverFlag, outFlag, remoteFlag},
		Action: cfg.encrypt,
	}
}

func (cfg *Config) encrypt(ctx *cli.Context) error {
	c, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	transcript := ctx.String("transcript")
	if strings.TrimSpace(transcript) == "" {
		return errors.New("--transcript is required")
	}
	message := ctx.String("message")
	if message == "" {
		b, err := readAll(cfg)
		if err != nil {
			return err
		}
		message = b
	}

	var cover []byte
	if path := ctx.String(coverFlag.Name); path != "" {
		cover, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read cover: %w", err)
		}
	}

	var env *chessperm.Envelope
	if ctx.Bool(remoteFlag.Name) {
		client, err := newClient(c)
		if err != nil {
			return err
		}
		env, err = client.Encrypt(context.Background(), transcript, message, cover)
		if err != nil {
			return err
		}
	} else {
		if cover == nil {
			if cover, err = server.DefaultCover(); err != nil {
				return err
			}
		}
		env, err = chessperm.Seal(transcript, message, cover, chessperm.WithWorkers(c.Derive.Workers))
		if err != nil {
			return err
		}
	}

	archive, err := env.Archive()
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if out == "-" {
		_, err = cfg.Stdout.Write(archive)
		return err
	}
	if err := os.WriteFile(out, archive, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(cfg.Stderr, "wrote %s (%d bytes)\n", out, len(archive))
	return nil
}

func (cfg *Config) decryptCommand() cli.Command {
	return cli.Command{
		Name:      "decrypt",
		Usage:     "Open an archive or stego PNG and print the message",
		ArgsUsage: "<archive.zip | stego.png>",
		Flags:     []cli.Flag{transcriptFlag, keyFlag, keyFileFlag, remoteFlag},
		Action:    cfg.decrypt,
	}
}

func (cfg *Config) decrypt(ctx *cli.Context) error {
	c, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	if ctx.NArg() != 1 {
		return errors.New("decrypt takes exactly one file")
	}
	name := ctx.Args().First()
	file, err := os.ReadFile(name)
	if err != nil {
		return err
	}

	key, err := secretKey(ctx, file)
	if err != nil {
		return err
	}
	transcript := ctx.String("transcript")

	var msg string
	if ctx.Bool(remoteFlag.Name) {
		client, err := newClient(c)
		if err != nil {
			return err
		}
		msg, err = client.Decrypt(context.Background(), file, filepath.Base(name), key, transcript)
		if err != nil {
			return err
		}
	} else {
		msg, err = chessperm.Open(file, key, transcript, chessperm.WithWorkers(c.Derive.Workers))
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(cfg.Stdout, msg)
	return nil
}

// secretKey resolves the key from --key, --key-file or the archive itself.
func secretKey(ctx *cli.Context, file []byte) (string, error) {
	if k := ctx.String(keyFlag.Name); k != "" {
		return strings.TrimSpace(k), nil
	}
	if path := ctx.String(keyFileFlag.Name); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	env, err := chessperm.ParseArchive(file)
	if err != nil {
		return "", errors.New("no key given: use --key, --key-file or an archive holding private_key.txt")
	}
	return env.SecretKeyHex, nil
}

func (cfg *Config) serveCommand() cli.Command {
	return cli.Command{
		Name:   "serve",
		Usage:  "Serve the HTTP API",
		Flags:  []cli.Flag{addrFlag, serveCoverFlag, rateLimitFlag, originsFlag},
		Action: cfg.serve,
	}
}

func (cfg *Config) serve(ctx *cli.Context) error {
	c, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	applyServeFlags(ctx, &c.Server)

	logger, err := newLogger(c.Log, cfg.Stderr)
	if err != nil {
		return err
	}
	srv, err := server.New(c.Server.config(logger))
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(sigCtx)
}

// applyServeFlags overrides config file values with flags or their
// environment variables.
func applyServeFlags(ctx *cli.Context, s *serverSettings) {
	if v := ctx.String(addrFlag.Name); v != "" {
		s.Addr = v
	}
	if v := ctx.String(serveCoverFlag.Name); v != "" {
		s.Cover = v
	}
	if v := ctx.Float64(rateLimitFlag.Name); v > 0 {
		s.RateLimit = v
	}
	if v := ctx.String(originsFlag.Name); v != "" {
		s.AllowedOrigins = splitList(v)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func readAll(cfg *Config) (string, error) {
	var sb strings.Builder
	if _, err := io.Copy(&sb, cfg.Stdin); err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return sb.String(), nil
}
