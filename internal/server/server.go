// Package server exposes a client's link health and the process metrics
// over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/smppctl/internal/auth"
	"github.com/danmuck/smppctl/internal/observability"
	"github.com/danmuck/smppctl/internal/protocol/session"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Source reports the live session. *client.Client satisfies it.
type Source interface {
	State() session.State
	Pending() []session.PendingRequest
}

type StatusServer struct {
	name     string
	addr     string
	source   Source
	router   *gin.Engine
	auth     auth.Validator
	appeared time.Time
}

type Option func(*StatusServer)

// WithAuth requires a bearer token on every route except /health.
func WithAuth(v auth.Validator) Option {
	return func(s *StatusServer) { s.auth = v }
}

func New(name, addr string, source Source, opts ...Option) *StatusServer {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		observability.RequestLogger(observability.Component("server")),
		observability.RequestMetrics(),
	)
	s := &StatusServer{
		name:     name,
		addr:     addr,
		source:   source,
		router:   router,
		appeared: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

func (s *StatusServer) Router() *gin.Engine { return s.router }

// ListenAndServe serves until ctx ends, then shuts down gracefully.
func (s *StatusServer) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Msgf("server.ListenAndServe name=%s addr=%s", s.name, s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
