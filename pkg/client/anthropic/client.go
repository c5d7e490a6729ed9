// Package anthropic implements the completion backend for Claude models.
package anthropic

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"

	"github.com/fpt/relay/pkg/backend"
)

const defaultMaxTokens = 8192

// Client talks to the Anthropic Messages API.
type Client struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// New creates a Client for the given default model.
// maxTokens = 0 means use the package default.
func New(model string, maxTokens int) (*Client, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	// NOTE: Anthropic requires a max_tokens value on every request.
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Client{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// ModelID returns the configured default model.
func (c *Client) ModelID() string { return c.model }

// Complete sends one message and collects the text blocks of the reply.
func (c *Client) Complete(ctx context.Context, req backend.Request) (*backend.Completion, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = anthropic.Float(*req.TopP)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "anthropic message error")
	}

	var text string
	for _, block := range resp.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			text += variant.Text
		}
	}

	finish := backend.FinishStop
	if resp.StopReason == "max_tokens" {
		finish = backend.FinishLength
	}

	return &backend.Completion{
		Text:         text,
		FinishReason: finish,
		Usage: backend.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
			TotalTokens:  int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}, nil
}

var _ backend.Completer = (*Client)(nil)
