// Package server runs the HTTP listener with graceful shutdown
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ncastell/classtrack/internal/bootstrap"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	deps *bootstrap.Dependencies
	http *http.Server
}

// New builds the server from wired dependencies.
func New(deps *bootstrap.Dependencies) *Server {
	return &Server{
		deps: deps,
		http: &http.Server{
			Addr:         deps.Config.ServerAddress(),
			Handler:      deps.Router,
			ReadTimeout:  deps.Config.Server.ReadTimeout,
			WriteTimeout: deps.Config.Server.WriteTimeout,
		},
	}
}

// Run serves until the context is cancelled, then shuts down gracefully
// and releases the database and cache connections.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.deps.Config.Server.ShutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(shutdownCtx)
	s.deps.Database.Close()
	if cerr := s.deps.TokenCache.Close(); cerr != nil {
		log.Warn().Err(cerr).Msg("Closing cache connection")
	}
	return err
}
