// Package server implements the redirect listener:
// - Binds the configured socket address
// - Serves every connection concurrently through the redirect handler
// - Shuts down gracefully when its context is cancelled
package server

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/flrossetto/httpsredirect/config"
	"github.com/flrossetto/httpsredirect/internal/redirecterr"
	"github.com/flrossetto/httpsredirect/server/handler"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Server accepts plaintext HTTP connections and redirects them to HTTPS.
//
// Fields:
// - logger: Logger shared by all connection handlers
// - config: Immutable configuration
type Server struct {
	logger *logrus.Logger
	config config.Config

	mu   sync.Mutex
	addr net.Addr
}

// NewServer creates a new server instance.
func NewServer(logger *logrus.Logger, cfg config.Config) *Server {
	logger.WithFields(logrus.Fields{
		"addr":           cfg.BindAddr(),
		"redirectStatus": cfg.RedirectStatus,
	}).Debug("Creating new server instance")

	return &Server{
		logger: logger,
		config: cfg,
	}
}

// Handler returns the full request pipeline: redirect decision wrapped in
// request logging.
func (s *Server) Handler() http.Handler {
	return handler.LogRequests(s.logger, handler.NewHTTPHandler(s.config.RedirectStatus))
}

// Start binds the configured address and serves until ctx is cancelled.
// A bind failure is returned as a CodeBindError error.
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.BindAddr()

	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return redirecterr.New(redirecterr.CodeBindError, "failed to bind listener",
			redirecterr.WithError(err),
			redirecterr.WithDetails(redirecterr.Details{"addr": addr}))
	}

	return s.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is cancelled, then shuts down within
// config.ShutdownTimeout. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	// OPTIONS * must reach the handler like any other request.
	server := &http.Server{
		Handler:                      s.Handler(),
		ReadHeaderTimeout:            s.config.ReadHeaderTimeout,
		ErrorLog:                     newErrorLog(s.logger),
		DisableGeneralOptionsHandler: true,
	}

	s.logger.Infof("Listening on %s", ln.Addr())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !redirecterr.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("HTTP server failed")

			return redirecterr.New(redirecterr.CodeServerError, "HTTP server failed", redirecterr.WithError(err))
		}

		s.logger.Info("HTTP server stopped")

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return redirecterr.New(redirecterr.CodeShutdownError, "HTTP server shutdown failed", redirecterr.WithError(err))
		}

		return nil
	})

	return g.Wait()
}

// Addr returns the address being served, or nil before Serve is called.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addr
}
