// Package backend defines the neutral completion interface implemented by
// the provider clients under pkg/client. The gateway hands every backend the
// same flattened prompt; providers differ only in transport and parameter
// spelling.
package backend

import "context"

// Finish reasons normalized to the OpenAI vocabulary.
const (
	FinishStop   = "stop"
	FinishLength = "length"
)

// Request is one completion call. Model overrides the client's configured
// default when set; nil sampling parameters mean "provider default".
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature *float64
	TopP        *float64
	MaxTokens   int
}

// Usage holds token accounting reported by the provider. Zero values mean
// the provider did not report; callers may estimate instead.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Completion is the provider's answer.
type Completion struct {
	Text         string
	FinishReason string
	Usage        Usage
}

// Completer is a synchronous completion backend.
type Completer interface {
	// Complete runs one completion. Implementations must honor ctx
	// cancellation and return a normalized finish reason.
	Complete(ctx context.Context, req Request) (*Completion, error)

	// ModelID returns the default model identifier of this client.
	ModelID() string
}
