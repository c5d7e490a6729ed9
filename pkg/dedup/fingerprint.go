package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fpt/relay/pkg/api"
	"github.com/fpt/relay/pkg/message"
)

// canonicalRequest is the exact field subset that participates in the
// fingerprint. Fields are declared in sorted key order so the serialized
// form is stable; encoding/json emits struct fields in declaration order.
// Optional fields are pointers without omitempty: an absent field hashes as
// JSON null rather than disappearing, so "no temperature" is one value, not
// a formatting accident. Stream, user, and session identifiers are excluded
// by construction, so two requests identical in effect hash identically.
type canonicalRequest struct {
	MaxTokens      *int                `json:"max_tokens"`
	Messages       []message.Message   `json:"messages"`
	Model          string              `json:"model"`
	ResponseFormat *api.ResponseFormat `json:"response_format"`
	Temperature    *float64            `json:"temperature"`
	TopP           *float64            `json:"top_p"`
}

// Fingerprint derives the deterministic cache key for a request: SHA-256 hex
// over the canonical JSON of the response-affecting field subset.
func Fingerprint(req *api.ChatCompletionRequest) string {
	c := canonicalRequest{
		MaxTokens:      req.MaxTokens,
		Messages:       req.Messages,
		Model:          req.Model,
		ResponseFormat: req.ResponseFormat,
		Temperature:    req.Temperature,
		TopP:           req.TopP,
	}

	// Marshaling a struct of strings, numbers, and pointers cannot fail.
	data, _ := json.Marshal(c)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
