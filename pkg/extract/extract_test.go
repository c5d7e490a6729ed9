package extract

import "testing"

func TestExtract_DirectObject(t *testing.T) {
	input := `{"name": "test", "value": 42}`
	got, ok := Extract(input)
	if !ok {
		t.Fatalf("Extract: want ok, got failure")
	}
	if got != input {
		t.Fatalf("Extract: want %q, got %q", input, got)
	}
}

func TestExtract_DirectArray(t *testing.T) {
	input := `[1, 2, 3]`
	got, ok := Extract(input)
	if !ok || got != input {
		t.Fatalf("Extract: want %q, got %q (ok=%v)", input, got, ok)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	input := `{"a": [1, {"b": "c"}]}`
	first, ok := Extract(input)
	if !ok {
		t.Fatalf("first Extract failed")
	}
	second, ok := Extract(first)
	if !ok {
		t.Fatalf("second Extract failed")
	}
	if second != first {
		t.Fatalf("Extract not idempotent: %q then %q", first, second)
	}
}

func TestExtract_SurroundingWhitespace(t *testing.T) {
	got, ok := Extract("  \n\t{\"a\": 1}\n  ")
	if !ok || got != `{"a": 1}` {
		t.Fatalf("Extract: want %q, got %q (ok=%v)", `{"a": 1}`, got, ok)
	}
}

func TestExtractResult_Preamble(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"here is the json", `Here is the JSON: {"a": 1}`, `{"a": 1}`},
		{"result", `Result: [1, 2]`, `[1, 2]`},
		{"output", `output: {"ok": true}`, `{"ok": true}`},
		{"bare json", `JSON: {"x": "y"}`, `{"x": "y"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ExtractResult(tt.input)
			if !res.OK {
				t.Fatalf("ExtractResult: want ok, got failure")
			}
			if res.JSON != tt.want {
				t.Fatalf("ExtractResult: want %q, got %q", tt.want, res.JSON)
			}
			if res.Strategy != StrategyPreamble {
				t.Fatalf("Strategy: want %q, got %q", StrategyPreamble, res.Strategy)
			}
			if res.Preamble == "" {
				t.Fatalf("Preamble: want removed phrase recorded, got empty")
			}
		})
	}
}

func TestExtractResult_TaggedFence(t *testing.T) {
	input := "Sure thing!\n```json\n{\"a\": 1}\n```\nHope that helps."
	res := ExtractResult(input)
	if !res.OK || res.JSON != `{"a": 1}` {
		t.Fatalf("ExtractResult: want %q, got %q (ok=%v)", `{"a": 1}`, res.JSON, res.OK)
	}
	if res.Strategy != StrategyFenced {
		t.Fatalf("Strategy: want %q, got %q", StrategyFenced, res.Strategy)
	}
}

func TestExtractResult_BareFence(t *testing.T) {
	input := "```\n[true, false]\n```"
	res := ExtractResult(input)
	if !res.OK || res.JSON != `[true, false]` {
		t.Fatalf("ExtractResult: want %q, got %q (ok=%v)", `[true, false]`, res.JSON, res.OK)
	}
	if res.Strategy != StrategyFenced {
		t.Fatalf("Strategy: want %q, got %q", StrategyFenced, res.Strategy)
	}
}

func TestExtractResult_InvalidFenceSkipped(t *testing.T) {
	input := "```json\nnot actually json\n```\n```json\n{\"b\": 2}\n```"
	res := ExtractResult(input)
	if !res.OK || res.JSON != `{"b": 2}` {
		t.Fatalf("ExtractResult: want %q, got %q (ok=%v)", `{"b": 2}`, res.JSON, res.OK)
	}
}

func TestExtractResult_EmbeddedObject(t *testing.T) {
	input := `The answer is {"status": "done", "count": 3} as requested.`
	res := ExtractResult(input)
	if !res.OK || res.JSON != `{"status": "done", "count": 3}` {
		t.Fatalf("ExtractResult: want embedded object, got %q (ok=%v)", res.JSON, res.OK)
	}
	if res.Strategy != StrategyBalanced {
		t.Fatalf("Strategy: want %q, got %q", StrategyBalanced, res.Strategy)
	}
}

func TestExtractResult_BracesInsideStrings(t *testing.T) {
	input := `prose before {"code": "a{b}c"} prose after`
	res := ExtractResult(input)
	if !res.OK || res.JSON != `{"code": "a{b}c"}` {
		t.Fatalf("ExtractResult: want %q, got %q (ok=%v)", `{"code": "a{b}c"}`, res.JSON, res.OK)
	}
}

func TestExtractResult_EscapedQuotesInsideStrings(t *testing.T) {
	input := `note: {"m": "say \"hi\""} done`
	res := ExtractResult(input)
	if !res.OK || res.JSON != `{"m": "say \"hi\""}` {
		t.Fatalf("ExtractResult: want %q, got %q (ok=%v)", `{"m": "say \"hi\""}`, res.JSON, res.OK)
	}
}

func TestExtractResult_ObjectPreferredOverArray(t *testing.T) {
	input := `list [1, 2] and object {"a": 1} here`
	res := ExtractResult(input)
	if !res.OK || res.JSON != `{"a": 1}` {
		t.Fatalf("ExtractResult: want object preferred, got %q (ok=%v)", res.JSON, res.OK)
	}
}

func TestExtractResult_NoJSON(t *testing.T) {
	for _, input := range []string{
		"",
		"   \n\t  ",
		"This is just plain prose without any structure.",
		"an unclosed { brace in running text",
	} {
		res := ExtractResult(input)
		if res.OK {
			t.Fatalf("ExtractResult(%q): want failure, got %q", input, res.JSON)
		}
		if res.Strategy != StrategyNone {
			t.Fatalf("Strategy: want %q, got %q", StrategyNone, res.Strategy)
		}
	}
}

// The balanced scan only inspects the structure rooted at the first opening
// bracket. A valid object later in the text is not recovered when the first
// brace never closes.
func TestExtractResult_FirstOpenerOnly(t *testing.T) {
	input := `if x { then broken, but also {"a": 1}`
	res := ExtractResult(input)
	if res.OK {
		t.Fatalf("ExtractResult: want failure past unclosed opener, got %q", res.JSON)
	}
}

func TestExtractResult_Telemetry(t *testing.T) {
	input := `Result: {"a": 1}`
	res := ExtractResult(input)
	if res.OriginalLen != len(input) {
		t.Fatalf("OriginalLen: want %d, got %d", len(input), res.OriginalLen)
	}
	if res.ExtractedLen != len(res.JSON) {
		t.Fatalf("ExtractedLen: want %d, got %d", len(res.JSON), res.ExtractedLen)
	}
}

func TestEnforceFormat_PassThrough(t *testing.T) {
	got := EnforceFormat("```json\n{\"a\": 1}\n```", true)
	if got != `{"a": 1}` {
		t.Fatalf("EnforceFormat: want %q, got %q", `{"a": 1}`, got)
	}
}

func TestEnforceFormat_StrictFallback(t *testing.T) {
	got := EnforceFormat("no json here", true)
	if got != "[]" {
		t.Fatalf("EnforceFormat strict: want %q, got %q", "[]", got)
	}
}

func TestEnforceFormat_LenientFallback(t *testing.T) {
	input := "no json here"
	got := EnforceFormat(input, false)
	if got != input {
		t.Fatalf("EnforceFormat lenient: want %q, got %q", input, got)
	}
}
