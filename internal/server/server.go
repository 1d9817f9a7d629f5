// Package server exposes macro resolution over HTTP: a JSON API, datastar
// SSE endpoints, a websocket editor loop and an embedded playground page.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/macroscope/internal/resolve"
	"github.com/leapstack-labs/macroscope/internal/server/notifier"
	"github.com/leapstack-labs/macroscope/internal/state"
	"github.com/leapstack-labs/macroscope/internal/watch"
	"golang.org/x/sync/errgroup"
)

// Server is the HTTP front end of the resolver.
type Server struct {
	resolver     *resolve.Resolver
	store        state.Store
	sessionStore *sessions.CookieStore
	port         int
	watchFile    string
	recursive    bool
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the server.
type Config struct {
	Resolver *resolve.Resolver

	// Store records runs submitted through the API. Nil disables history.
	Store state.Store

	Port int

	// WatchFile is resolved on start and again whenever it changes; the
	// results are pushed to /api/updates subscribers.
	WatchFile string

	// Recursive is the default when neither the request nor the session
	// says otherwise.
	Recursive bool

	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = resolve.New(resolve.WithLogger(logger))
	}

	return &Server{
		resolver:     resolver,
		store:        cfg.Store,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watchFile:    cfg.WatchFile,
		recursive:    cfg.Recursive,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// Handler returns the router with middleware and all routes installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.routes(r)
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watchFile != "" {
		s.refresh(s.watchFile)
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the notifier feeding /api/updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

func (s *Server) watchFiles(ctx context.Context) error {
	w, err := watch.New([]string{s.watchFile}, watch.Options{Logger: s.logger})
	if err != nil {
		return err
	}
	if err := w.Run(ctx, s.refresh); err != nil {
		// Keep serving without live updates.
		s.logger.Error("failed to watch file", "file", s.watchFile, "error", err)
	}
	return nil
}

// refresh resolves the watched file and publishes the result.
func (s *Server) refresh(path string) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		s.logger.Error("failed to read watched file", "file", path, "error", err)
		s.notifier.Publish(notifier.Update{Path: path, Err: err.Error()})
		return
	}

	res, err := s.resolver.Resolve(string(data), s.recursive)
	if err != nil {
		s.notifier.Publish(notifier.Update{Path: path, Err: err.Error()})
		return
	}
	v := s.notifier.Publish(notifier.Update{Path: path, Result: res})
	s.logger.Debug("published update", "file", path, "version", v, "calls", res.CallCount())
}
