package llm

import "strings"

// Role tags who authored a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is a single role-tagged message.
type Turn struct {
	Role Role
	Text string
}

// Conversation is an ordered list of turns. It is treated as immutable:
// With returns a new conversation and never modifies the receiver.
type Conversation []Turn

// NewConversation starts a conversation with one user turn.
func NewConversation(prompt string) Conversation {
	return Conversation{{Role: RoleUser, Text: prompt}}
}

// With returns a copy of c extended by one turn.
func (c Conversation) With(role Role, text string) Conversation {
	next := make(Conversation, len(c), len(c)+1)
	copy(next, c)
	return append(next, Turn{Role: role, Text: text})
}

// Transcript flattens the conversation into a single prompt for models that
// only accept plain text. A single user turn is returned as-is.
func (c Conversation) Transcript() string {
	if len(c) == 1 && c[0].Role == RoleUser {
		return c[0].Text
	}
	var b strings.Builder
	for i, t := range c {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Text)
	}
	return b.String()
}
