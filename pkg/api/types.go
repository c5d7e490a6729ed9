// Package api defines the OpenAI-compatible wire types spoken by the relay
// gateway. The types are deliberately lean: optional sampling parameters are
// pointers so that "absent" survives a decode/encode round trip.
package api

import (
	"encoding/json"

	"github.com/fpt/relay/pkg/message"
)

// ResponseFormat selects the output contract for a completion.
type ResponseFormat struct {
	Type       string            `json:"type"` // "text", "json_object", or "json_schema"
	JSONSchema *JSONSchemaFormat `json:"json_schema,omitempty"`
}

// JSONSchemaFormat carries the caller-supplied schema for "json_schema"
// requests. Schema is kept raw; the gateway echoes it into the prompt rather
// than interpreting it.
type JSONSchemaFormat struct {
	Name   string          `json:"name,omitempty"`
	Strict bool            `json:"strict,omitempty"`
	Schema json.RawMessage `json:"schema,omitempty"`
}

// IsJSON reports whether the caller asked for machine-consumable JSON output.
func (rf *ResponseFormat) IsJSON() bool {
	return rf != nil && (rf.Type == "json_object" || rf.Type == "json_schema")
}

// ChatCompletionRequest is an OpenAI-compatible chat completion request.
type ChatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []message.Message `json:"messages"`
	Temperature    *float64          `json:"temperature,omitempty"`
	MaxTokens      *int              `json:"max_tokens,omitempty"`
	TopP           *float64          `json:"top_p,omitempty"`
	ResponseFormat *ResponseFormat   `json:"response_format,omitempty"`
	Stream         bool              `json:"stream,omitempty"`
	User           string            `json:"user,omitempty"`
	SessionID      string            `json:"session_id,omitempty"`
}

// ChatCompletionResponse is an OpenAI-compatible chat completion response.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice is a single completion choice.
type Choice struct {
	Index        int             `json:"index"`
	Message      message.Message `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// Usage holds token accounting for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Model is one entry of the /v1/models listing.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the /v1/models response envelope.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// Error is the OpenAI-style error payload.
type Error struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// ErrorResponse wraps Error for the wire.
type ErrorResponse struct {
	Error Error `json:"error"`
}
