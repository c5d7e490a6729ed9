// Package gateway serves an OpenAI-compatible chat completion API on top of
// a single configured completion backend. Responses are normalized before
// they leave the gateway: tool-protocol artifacts are filtered out and, when
// the caller requested json_object output, the JSON payload is extracted from
// whatever prose the model wrapped it in.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fpt/relay/internal/config"
	"github.com/fpt/relay/pkg/backend"
	"github.com/fpt/relay/pkg/catalog"
	"github.com/fpt/relay/pkg/dedup"
	pkgLogger "github.com/fpt/relay/pkg/logger"
)

// Server is the main orchestrator for relay.
type Server struct {
	cfg       *config.Settings
	completer backend.Completer
	cache     *dedup.RequestCache
	catalog   *catalog.Service
	logger    *pkgLogger.Logger
	http      *http.Server
}

// NewServer wires the completion backend, dedup cache and model catalog into
// an HTTP server ready to Run.
func NewServer(cfg *config.Settings, completer backend.Completer, cache *dedup.RequestCache, models *catalog.Service, logger *pkgLogger.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		completer: completer,
		cache:     cache,
		catalog:   models,
		logger:    logger.WithComponent("gateway"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("GET /v1/models", s.handleListModels)
	mux.HandleFunc("GET /v1/cache/stats", s.handleCacheStats)
	mux.HandleFunc("DELETE /v1/cache", s.handleCacheClear)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.http = &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: mux,
	}
	return s
}

// Run serves HTTP and sweeps expired cache entries in the background.
// Blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.janitor(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info("Gateway running", "addr", s.cfg.Server.Addr, "backend", s.cfg.Backend.Backend)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// janitor periodically removes expired cache entries so memory is not held
// hostage by keys that are never looked up again.
func (s *Server) janitor(ctx context.Context) {
	interval := time.Duration(s.cfg.Server.CleanupIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.cache.CleanupExpired(); n > 0 {
				s.logger.Debug("Removed expired cache entries", "count", n)
			}
		}
	}
}
