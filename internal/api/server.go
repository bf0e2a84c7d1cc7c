// Package api exposes the planner over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/arveiter/blockplan/internal/block"
	"github.com/arveiter/blockplan/internal/logger"
	"github.com/arveiter/blockplan/internal/planner"
)

// Server wires the planner and repository into an HTTP API.
type Server struct {
	planner *planner.Planner
	repo    block.Repository
	log     logger.Logger
	addr    string
}

// New creates a Server listening on addr.
func New(addr string, p *planner.Planner, repo block.Repository, log logger.Logger) *Server {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Server{
		planner: p,
		repo:    repo,
		log:     log,
		addr:    addr,
	}
}

// Handler builds the route table with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/notes/preview", s.handlePreviewNote)
	mux.HandleFunc("/api/notes/confirm", s.handleConfirmNote)
	mux.HandleFunc("/api/nlp/parse", s.handleParse)
	mux.HandleFunc("/api/nlp/plan", s.handlePlan)
	mux.HandleFunc("/api/blocks", s.handleListBlocks)
	mux.HandleFunc("/api/blocks/adjust", s.handleAdjustBlock)

	return s.withCORS(s.withRequestLog(mux))
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
