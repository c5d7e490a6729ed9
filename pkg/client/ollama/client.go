// Package ollama implements the completion backend for local Ollama models.
package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/pkg/errors"

	"github.com/fpt/relay/pkg/backend"
)

const defaultMaxTokens = 4096

// Client talks to a local Ollama server (OLLAMA_HOST respected via the SDK).
type Client struct {
	client    *api.Client
	model     string
	maxTokens int
}

// New creates a Client for the given default model.
// maxTokens = 0 means use the package default.
func New(model string, maxTokens int) (*Client, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Client{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// ModelID returns the configured default model.
func (c *Client) ModelID() string { return c.model }

// Complete runs one chat call. The Ollama API streams chunks even for a
// single-shot request, so content is accumulated until the final chunk.
func (c *Client) Complete(ctx context.Context, req backend.Request) (*backend.Completion, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	var msgs []api.Message
	if req.System != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, api.Message{Role: "user", Content: req.Prompt})

	opts := map[string]any{
		"num_predict": maxTokens, // Max output tokens for Ollama
	}
	if req.Temperature != nil {
		opts["temperature"] = *req.Temperature
	}
	if req.TopP != nil {
		opts["top_p"] = *req.TopP
	}

	chatReq := &api.ChatRequest{
		Model:    model,
		Messages: msgs,
		Options:  opts,
	}

	var contentBuilder strings.Builder
	out := &backend.Completion{FinishReason: backend.FinishStop}

	err := c.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		if resp.Message.Content != "" {
			contentBuilder.WriteString(resp.Message.Content)
		}

		if resp.Done {
			// Ollama exposes prompt_eval_count (input) and eval_count (output)
			// on the final chunk. These may be zero if the backend doesn't
			// supply them.
			out.Usage.InputTokens = int(resp.PromptEvalCount)
			out.Usage.OutputTokens = int(resp.EvalCount)
			out.Usage.TotalTokens = out.Usage.InputTokens + out.Usage.OutputTokens

			if resp.DoneReason == "length" {
				out.FinishReason = backend.FinishLength
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "ollama chat error")
	}

	out.Text = contentBuilder.String()
	return out, nil
}

var _ backend.Completer = (*Client)(nil)
