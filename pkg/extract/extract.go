// Package extract recovers a single well-formed JSON document from free-form
// model output. Generated text frequently wraps the payload in prose,
// markdown fences, or leading filler; the extractor runs an ordered cascade
// of strategies and returns the first candidate that validates as JSON.
// Nothing that fails to parse is ever returned.
package extract

import (
	"encoding/json"
	"strings"
)

// Strategy names the cascade step that produced a result.
type Strategy string

const (
	StrategyDirect   Strategy = "direct"
	StrategyPreamble Strategy = "preamble"
	StrategyFenced   Strategy = "fenced"
	StrategyBalanced Strategy = "balanced"
	StrategySpan     Strategy = "span"
	StrategyNone     Strategy = "none"
)

// Result carries the extraction outcome plus telemetry about how it was
// obtained. JSON is empty unless OK is true.
type Result struct {
	JSON         string
	OK           bool
	Strategy     Strategy
	Preamble     string // filler phrase removed by the preamble strategy
	OriginalLen  int
	ExtractedLen int
}

// Extract returns the best-effort JSON document contained in text, or
// ("", false) when none is found.
func Extract(text string) (string, bool) {
	r := ExtractResult(text)
	return r.JSON, r.OK
}

// ExtractResult runs the strategy cascade and reports which step succeeded.
// The order is fixed: direct parse, preamble stripping, fenced code blocks,
// balanced-structure scan, then a first-to-last bracket span. The first
// strategy that yields validating JSON wins.
func ExtractResult(text string) Result {
	res := Result{Strategy: StrategyNone, OriginalLen: len(text)}
	if text == "" {
		return res
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return res
	}

	if isValidJSON(trimmed) {
		return res.found(trimmed, StrategyDirect)
	}

	if stripped, phrase := stripPreamble(trimmed); phrase != "" && isValidJSON(stripped) {
		r := res.found(stripped, StrategyPreamble)
		r.Preamble = phrase
		return r
	}

	if body, ok := fencedJSON(trimmed); ok {
		return res.found(body, StrategyFenced)
	}

	for _, pair := range bracketPairs {
		if span, ok := balancedSpan(trimmed, pair); ok && isValidJSON(span) {
			return res.found(span, StrategyBalanced)
		}
	}

	for _, pair := range bracketPairs {
		if span, ok := naiveSpan(trimmed, pair); ok && isValidJSON(span) {
			return res.found(span, StrategySpan)
		}
	}

	return res
}

// EnforceFormat wraps Extract for callers that must hand something onward.
// On extraction failure, strict mode substitutes the empty-array literal so
// downstream JSON consumers keep working; non-strict mode preserves the
// original text for human eyes.
func EnforceFormat(text string, strict bool) string {
	if extracted, ok := Extract(text); ok {
		return extracted
	}
	if strict {
		return "[]"
	}
	return text
}

func (r Result) found(jsonText string, s Strategy) Result {
	r.JSON = jsonText
	r.OK = true
	r.Strategy = s
	r.ExtractedLen = len(jsonText)
	return r
}

func isValidJSON(s string) bool {
	return json.Valid([]byte(s))
}
