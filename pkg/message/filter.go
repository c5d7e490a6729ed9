package message

import (
	"regexp"
	"strings"
)

// fallbackReply is returned when filtering removes everything. An empty
// assistant message breaks strict OpenAI clients, so we answer with something.
const fallbackReply = "I understand you're testing the system. How can I help you today?"

var (
	thinkingRe          = regexp.MustCompile(`(?s)<thinking>.*?</thinking>`)
	attemptCompletionRe = regexp.MustCompile(`(?s)<attempt_completion>(.*?)</attempt_completion>`)
	resultRe            = regexp.MustCompile(`(?s)<result>(.*?)</result>`)
	imageRe             = regexp.MustCompile(`\[Image:.*?\]|data:image/.*?;base64,[^\s]*`)
	blankRunRe          = regexp.MustCompile(`\n\s*\n\s*\n`)

	// Tag blocks emitted when the model attempts tool use even though no
	// tools are available on this path.
	toolTagRes = []*regexp.Regexp{
		regexp.MustCompile(`(?s)<read_file>.*?</read_file>`),
		regexp.MustCompile(`(?s)<write_file>.*?</write_file>`),
		regexp.MustCompile(`(?s)<bash>.*?</bash>`),
		regexp.MustCompile(`(?s)<search_files>.*?</search_files>`),
		regexp.MustCompile(`(?s)<str_replace_editor>.*?</str_replace_editor>`),
		regexp.MustCompile(`(?s)<args>.*?</args>`),
		regexp.MustCompile(`(?s)<ask_followup_question>.*?</ask_followup_question>`),
		regexp.MustCompile(`(?s)<attempt_completion>.*?</attempt_completion>`),
		regexp.MustCompile(`(?s)<question>.*?</question>`),
		regexp.MustCompile(`(?s)<follow_up>.*?</follow_up>`),
		regexp.MustCompile(`(?s)<suggest>.*?</suggest>`),
	}
)

// FilterContent strips backend-internal artifacts from generated text:
// thinking blocks, tool-use tag blocks, and inline image payloads. When the
// response is wrapped in <attempt_completion> (optionally with an inner
// <result>), the wrapped content replaces the whole response.
func FilterContent(content string) string {
	if content == "" {
		return content
	}

	content = thinkingRe.ReplaceAllString(content, "")

	if m := attemptCompletionRe.FindStringSubmatch(content); m != nil {
		extracted := strings.TrimSpace(m[1])
		if rm := resultRe.FindStringSubmatch(extracted); rm != nil {
			extracted = strings.TrimSpace(rm[1])
		}
		if extracted != "" {
			content = extracted
		}
	} else {
		for _, re := range toolTagRes {
			content = re.ReplaceAllString(content, "")
		}
	}

	content = imageRe.ReplaceAllString(content, "[Image: Content not supported]")
	content = blankRunRe.ReplaceAllString(content, "\n\n")
	content = strings.TrimSpace(content)

	if content == "" {
		return fallbackReply
	}
	return content
}
