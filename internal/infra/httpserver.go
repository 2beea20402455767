package infra

import (
	"context"
	"net/http"
	"time"
)

// Server runs the API's http.Server with the timeouts from Config and a
// graceful shutdown hook for the signal handler in cmd/api.
type Server struct {
	srv *http.Server
}

func NewHTTPServer(cfg *Config, handler http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}}
}

// Addr is the listen address the server was configured with.
func (s *Server) Addr() string {
	if s == nil || s.srv == nil {
		return ""
	}
	return s.srv.Addr
}

// Start blocks serving requests until Shutdown is called, then returns
// http.ErrServerClosed.
func (s *Server) Start() error {
	if s == nil || s.srv == nil {
		return nil
	}
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
