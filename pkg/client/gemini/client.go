// Package gemini implements the completion backend for Google Gemini models.
package gemini

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/fpt/relay/pkg/backend"
)

// Client talks to the Gemini API.
type Client struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// New creates a Client for the given default model.
// maxTokens = 0 means let the provider decide.
func New(model string, maxTokens int) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// ModelID returns the configured default model.
func (c *Client) ModelID() string { return c.model }

// Complete runs one content generation call.
func (c *Client) Complete(ctx context.Context, req backend.Request) (*backend.Completion, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	config := &genai.GenerateContentConfig{}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature != nil {
		t := float32(*req.Temperature)
		config.Temperature = &t
	}
	if req.TopP != nil {
		p := float32(*req.TopP)
		config.TopP = &p
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, errors.Wrap(err, "gemini generate content error")
	}
	if len(resp.Candidates) == 0 {
		return nil, errors.New("gemini returned no candidates")
	}

	finish := backend.FinishStop
	if resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		finish = backend.FinishLength
	}

	var usage backend.Usage
	if resp.UsageMetadata != nil {
		usage = backend.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return &backend.Completion{
		Text:         resp.Text(),
		FinishReason: finish,
		Usage:        usage,
	}, nil
}

var _ backend.Completer = (*Client)(nil)
