package client

import (
	"github.com/pkg/errors"

	"github.com/fpt/relay/internal/config"
	"github.com/fpt/relay/pkg/backend"
	"github.com/fpt/relay/pkg/client/anthropic"
	"github.com/fpt/relay/pkg/client/gemini"
	"github.com/fpt/relay/pkg/client/ollama"
	"github.com/fpt/relay/pkg/client/openai"
)

// NewCompleter creates a completion backend from settings.
func NewCompleter(cfg config.BackendSettings) (backend.Completer, error) {
	switch cfg.Backend {
	case "anthropic", "claude":
		c, err := anthropic.New(cfg.Model, cfg.MaxTokens)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create anthropic client")
		}
		return c, nil
	case "openai":
		c, err := openai.New(cfg.Model, cfg.MaxTokens)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create openai client")
		}
		return c, nil
	case "gemini":
		c, err := gemini.New(cfg.Model, cfg.MaxTokens)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create gemini client")
		}
		return c, nil
	default:
		c, err := ollama.New(cfg.Model, cfg.MaxTokens)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create ollama client")
		}
		return c, nil
	}
}
