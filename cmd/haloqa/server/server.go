// Package server serves the demo contact page.
// Tests start and stop it programmatically; the CLI runs it until signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config holds server configuration options.
type Config struct {
	Addr         string        // Listen address (e.g., ":5000" or ":0" for random port)
	ReadTimeout  time.Duration // HTTP read timeout
	WriteTimeout time.Duration // HTTP write timeout
}

// DefaultConfig returns a configuration suitable for testing.
// Uses ":0" to bind to a random available port.
func DefaultConfig() Config {
	return Config{
		Addr:         ":0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server serves ContactPage over HTTP.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	addr       string
	log        *zap.Logger
	mu         sync.Mutex
	running    bool
	stopped    bool
	done       chan struct{}
}

// ErrStopped is returned by Start once the server has been shut down.
var ErrStopped = errors.New("server already shut down")

// NewServer creates a new server with the given configuration.
// The server is not started until Start() is called.
func NewServer(cfg Config, log *zap.Logger) (*Server, error) {
	if cfg.Addr == "" {
		return nil, errors.New("listen address is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      Handler(log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		httpServer: httpServer,
		log:        log,
	}, nil
}

// Start begins listening and serving HTTP requests.
// A server cannot be restarted after Shutdown.
// Returns the actual address the server is listening on (useful when port is 0).
// This method is non-blocking - the server runs in a goroutine.
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.addr, nil
	}
	if s.stopped {
		return "", ErrStopped
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = ln
	s.addr = ln.Addr().String()
	s.running = true
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server stopped unexpectedly", zap.Error(err))
		}
	}(s.done)

	s.log.Info("Server listening", zap.String("addr", s.addr))
	return s.addr, nil
}

// Shutdown gracefully shuts down the server and waits for the serve loop to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	s.stopped = true
	err := s.httpServer.Shutdown(ctx)
	<-s.done
	s.log.Info("Server stopped", zap.String("addr", s.addr))
	return err
}

// Addr returns the address the server is listening on.
// Returns empty string if server is not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}
