package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/maksimkurb/keen-softap/src/internal/log"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
}

// NewServer creates a new API server listening on bindAddr.
func NewServer(bindAddr string, h *Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         bindAddr,
			Handler:      NewRouter(h),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start serves until Stop is called or the listener fails.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on ln.
func (s *Server) Serve(ln net.Listener) error {
	log.Infof("[API] Starting server on %s", ln.Addr())
	log.Infof("[API] Example: curl http://%s/api/v1/status", ln.Addr())

	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the API server
func (s *Server) Stop(ctx context.Context) error {
	log.Infof("[API] Shutting down server...")
	return s.httpServer.Shutdown(ctx)
}
