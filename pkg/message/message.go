// Package message converts between the OpenAI chat message format and the
// plain-text prompt format consumed by the completion backends.
package message

import "strings"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message on the wire.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ToPrompt flattens a chat message list into a Human:/Assistant: transcript
// plus a separate system prompt. When several system messages are present the
// last one wins. If the conversation does not end with a user turn, a
// continuation prompt is appended so the backend knows to keep speaking.
func ToPrompt(messages []Message) (prompt string, system string) {
	var parts []string

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			system = msg.Content
		case RoleUser:
			parts = append(parts, "Human: "+msg.Content)
		case RoleAssistant:
			parts = append(parts, "Assistant: "+msg.Content)
		}
	}

	prompt = strings.Join(parts, "\n\n")

	if len(messages) > 0 && messages[len(messages)-1].Role != RoleUser {
		prompt += "\n\nHuman: Please continue."
	}

	return prompt, system
}

// EstimateTokens gives a rough token count for text.
// Rule of thumb: ~4 characters per token for English text.
func EstimateTokens(text string) int {
	return len(text) / 4
}
