package server

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"
)

// HTTPServer wraps an http.Server with lifecycle methods.
type HTTPServer struct {
	server *http.Server
	cert   string
	key    string
}

// New creates an HTTPServer for the given handler and address. When cert
// and key are non-empty the server terminates TLS itself.
func New(handler http.Handler, addr string, cert string, key string) *HTTPServer {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if cert != "" && key != "" {
		srv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return &HTTPServer{server: srv, cert: cert, key: key}
}

// Start serves until the server is stopped. A graceful shutdown is not an
// error.
func (s *HTTPServer) Start() error {
	var err error
	if s.cert != "" && s.key != "" {
		err = s.server.ListenAndServeTLS(s.cert, s.key)
	} else {
		err = s.server.ListenAndServe()
	}

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts the server down.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Address returns the configured listen address.
func (s *HTTPServer) Address() string {
	return s.server.Addr
}
