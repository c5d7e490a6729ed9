package extract

import "strings"

// Diagnostics summarizes the structural shape of text that failed (or is
// about to go through) extraction. It exists for debug logging only and is
// not part of the extraction contract.
type Diagnostics struct {
	ObjectBalance int    // count of '{' minus count of '}'
	ArrayBalance  int    // count of '[' minus count of ']'
	FirstChar     string // first non-whitespace character, "" when empty
	LastChar      string // last non-whitespace character, "" when empty
	HasFence      bool
	Length        int
}

// Diagnose inspects text and reports bracket balance, boundary characters,
// and fence presence.
func Diagnose(text string) Diagnostics {
	d := Diagnostics{Length: len(text)}

	trimmed := strings.TrimSpace(text)
	if trimmed != "" {
		d.FirstChar = string(trimmed[0])
		d.LastChar = string(trimmed[len(trimmed)-1])
	}

	d.ObjectBalance = strings.Count(text, "{") - strings.Count(text, "}")
	d.ArrayBalance = strings.Count(text, "[") - strings.Count(text, "]")
	d.HasFence = strings.Contains(text, "```")

	return d
}
