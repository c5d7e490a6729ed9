package extract

import (
	"regexp"
	"strings"
)

// preamblePhrases are filler openers models prepend to otherwise clean JSON.
// Order matters: more specific phrases are matched before generic ones.
var preamblePhrases = []string{
	"here is the json:",
	"here is the json",
	"here's the json:",
	"here is the result:",
	"the json is:",
	"response:",
	"result:",
	"output:",
	"json:",
}

// stripPreamble removes a recognized filler phrase from the start of text.
// Matching is case-insensitive; the returned phrase is the literal text
// removed. Returns ("", "") equivalent (text, "") when nothing matched.
func stripPreamble(text string) (rest string, phrase string) {
	lower := strings.ToLower(text)
	for _, p := range preamblePhrases {
		if strings.HasPrefix(lower, p) {
			return strings.TrimSpace(text[len(p):]), text[:len(p)]
		}
	}
	return text, ""
}

var (
	taggedFenceRe = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")
	bareFenceRe   = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// fencedJSON scans markdown code fences in document order, language-tagged
// fences first, and returns the inner text of the first fence that validates
// as JSON. Fences whose body fails to parse are skipped.
func fencedJSON(text string) (string, bool) {
	for _, re := range []*regexp.Regexp{taggedFenceRe, bareFenceRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			candidate := strings.TrimSpace(m[1])
			if candidate != "" && isValidJSON(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

// bracketPair describes one JSON container delimiter set.
type bracketPair struct {
	open  byte
	close byte
}

// Objects are tried before arrays throughout the cascade.
var bracketPairs = []bracketPair{
	{'{', '}'},
	{'[', ']'},
}

// balancedSpan locates the substring from the first opening bracket to the
// bracket that closes it, tracking nesting depth with a small state machine
// so that brackets inside quoted strings (and escaped quotes inside them) do
// not perturb the count. If the first opener's structure never closes before
// end of text, the scan yields no match for this bracket type; it does not
// retry from a later opener. That is a known limitation of the cascade, kept
// deliberately.
func balancedSpan(text string, pair bracketPair) (string, bool) {
	start := strings.IndexByte(text, pair.open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}

		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case pair.open:
			depth++
		case pair.close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	// Ran off the end with the structure still open.
	return "", false
}

// naiveSpan takes the aggressive fallback slice from the first opening
// bracket to the last matching closing bracket anywhere in the text.
func naiveSpan(text string, pair bracketPair) (string, bool) {
	start := strings.IndexByte(text, pair.open)
	end := strings.LastIndexByte(text, pair.close)
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
