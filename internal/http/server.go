// Package http arma y corre el servidor HTTP del servicio.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
)

// Server envuelve http.Server con arranque y apagado prolijo.
type Server struct {
	srv *http.Server
}

// NewServer crea el servidor con timeouts razonables para una API JSON.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start bloquea sirviendo requests hasta Shutdown o error fatal.
func (s *Server) Start() error {
	logger.L().Info("http server listening", logger.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown apaga el servidor drenando las conexiones en curso.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.L().Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}
