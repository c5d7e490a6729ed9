// Package catalog maintains the list of models the gateway advertises.
// On startup it asks the Anthropic models endpoint for the live list and
// falls back to a static set when the fetch fails for any reason; fetch
// failure is never fatal.
package catalog

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"

	pkgLogger "github.com/fpt/relay/pkg/logger"
)

const fetchTimeout = 10 * time.Second

// fallbackModels is served whenever the live fetch is unavailable.
// Kept in sync manually with the published Anthropic model IDs.
var fallbackModels = []string{
	"claude-opus-4-20250514",
	"claude-sonnet-4-20250514",
	"claude-3-7-sonnet-latest",
	"claude-3-5-haiku-latest",
}

// Service caches the model list for the process lifetime.
type Service struct {
	mu      sync.RWMutex
	models  []string
	fetched bool

	apiKey  string
	baseURL string
	logger  *pkgLogger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithBaseURL overrides the Anthropic API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(s *Service) { s.baseURL = u }
}

// WithAPIKey overrides the API key read from the environment.
func WithAPIKey(k string) Option {
	return func(s *Service) { s.apiKey = k }
}

// New creates a Service serving the static fallback list until Refresh
// succeeds.
func New(opts ...Option) *Service {
	s := &Service{
		apiKey: os.Getenv("ANTHROPIC_API_KEY"),
		logger: pkgLogger.NewComponentLogger("catalog"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh fetches the live model list. On failure the service keeps serving
// whatever it had before (the fallback list on first call).
func (s *Service) Refresh(ctx context.Context) {
	models, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("Model fetch failed, using fallback list", "error", err)
		return
	}

	s.mu.Lock()
	s.models = models
	s.fetched = true
	s.mu.Unlock()

	s.logger.Info("Fetched models from Anthropic API", "count", len(models))
}

func (s *Service) fetch(ctx context.Context) ([]string, error) {
	if s.apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not set")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(s.apiKey),
		option.WithRequestTimeout(fetchTimeout),
	}
	if s.baseURL != "" {
		opts = append(opts, option.WithBaseURL(s.baseURL))
	}
	client := anthropic.NewClient(opts...)

	page, err := client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, errors.Wrap(err, "model list request failed")
	}

	var ids []string
	for _, m := range page.Data {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 {
		return nil, errors.New("model list was empty")
	}
	return ids, nil
}

// Models returns the current model IDs. The returned slice is a copy.
func (s *Service) Models() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.models
	if !s.fetched {
		src = fallbackModels
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Contains reports whether the given model ID is advertised.
func (s *Service) Contains(model string) bool {
	for _, id := range s.Models() {
		if id == model {
			return true
		}
	}
	return false
}

// Fetched reports whether a live fetch has succeeded this process.
func (s *Service) Fetched() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetched
}
