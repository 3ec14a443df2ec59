package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/chessperm/chessperm-go/internal/api"
)

// Defaults applied by New for zero Config fields.
const (
	DefaultAddr           = ":8000"
	DefaultMaxUploadBytes = 20 << 20
	DefaultMaxIterations  = 100_000
	DefaultMaxPlies       = 10_000
	DefaultMaxInputBytes  = 64 << 10
	DefaultMaxWork        = 200_000
	DefaultRateBurst      = 20

	multipartMemory = 8 << 20
	archiveName     = "chessperm_package.zip"
	apiCSP          = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address for ListenAndServe.
	Addr string
	// CoverPath names a PNG or JPEG used when an encrypt request has no
	// cover upload. A generated cover is used when empty.
	CoverPath string
	// MaxUploadBytes bounds request bodies.
	MaxUploadBytes int64
	// MaxIterations and MaxPlies bound /api/derive work per request.
	MaxIterations int
	MaxPlies      int
	// MaxInputBytes bounds the input and transcript fields.
	MaxInputBytes int
	// MaxWork bounds the block passes one derivation may run: the number of
	// 256-bit blocks times one plus the iteration count.
	MaxWork int
	// RateLimit is the sustained request rate per second across all
	// clients. Zero disables limiting.
	RateLimit float64
	RateBurst int
	// AllowedOrigins lists CORS origins. Empty allows all.
	AllowedOrigins []string
	// Workers bounds block parallelism for each derivation.
	Workers int
	// Logger receives request and lifecycle logs. Defaults to slog.Default.
	Logger *slog.Logger
}

// Server serves the ChessPerm HTTP API.
type Server struct {
	cfg     Config
	log     *slog.Logger
	cover   []byte
	limiter *rate.Limiter

	srvMu sync.Mutex
	srv   *http.Server
}

// New validates cfg, loads the default cover and builds a Server.
func New(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.MaxPlies <= 0 {
		cfg.MaxPlies = DefaultMaxPlies
	}
	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = DefaultMaxInputBytes
	}
	if cfg.MaxWork <= 0 {
		cfg.MaxWork = DefaultMaxWork
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = DefaultRateBurst
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		log:     cfg.Logger,
		limiter: rate.NewLimiter(rate.Inf, cfg.RateBurst),
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	if cfg.CoverPath != "" {
		b, err := os.ReadFile(cfg.CoverPath)
		if err != nil {
			return nil, fmt.Errorf("read cover: %w", err)
		}
		s.cover = b
	} else {
		b, err := DefaultCover()
		if err != nil {
			return nil, err
		}
		s.cover = b
	}
	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{api.RequestIDHeader, "Content-Disposition"},
	})
	if len(s.cfg.AllowedOrigins) == 0 {
		c = cors.AllowAll()
	}

	var h http.Handler = s.routes()
	h = s.rateLimit(h)
	h = c.Handler(h)
	h = s.logRequests(h)
	h = s.requestID(h)
	return h
}

// routes configures the router with the JSON and multipart APIs.
func (s *Server) routes() *httprouter.Router {
	router := httprouter.New()
	router.HandlerFunc(http.MethodPost, api.PathEncrypt, s.withAPI(s.handleEncrypt))
	router.HandlerFunc(http.MethodPost, api.PathDecrypt, s.withAPI(s.handleDecrypt))
	router.HandlerFunc(http.MethodPost, api.PathDerive, s.withAPI(s.handleDerive))
	router.HandlerFunc(http.MethodGet, api.PathHealth, s.withAPI(s.handleHealth))

	router.NotFound = s.withAPI(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowed = s.withAPI(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		s.log.Error("handler panic", "path", r.URL.Path, "panic", v, "request_id", requestIDFrom(r.Context()))
		s.writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
	return router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return nil
}

// Close attempts a graceful shutdown of a running server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
