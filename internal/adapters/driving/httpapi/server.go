package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aldrinstellus/worksearch/internal/core/ports/driving"
	"github.com/aldrinstellus/worksearch/internal/logger"
)

// shutdownGrace is how long in-flight requests get to finish.
const shutdownGrace = 10 * time.Second

// Server runs the HTTP API.
type Server struct {
	httpServer *http.Server
}

// NewServer creates the HTTP API server on the given address.
func NewServer(addr string, search driving.FederatedSearch) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewMux(search),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http api listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
