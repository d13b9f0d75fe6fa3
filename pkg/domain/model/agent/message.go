package agent

import (
	"strings"

	"github.com/fabric-tools/dataagent/pkg/domain/types"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single message on a thread.
type Message struct {
	ID        types.MessageID `json:"id"`
	Object    string          `json:"object,omitempty"`
	CreatedAt int64           `json:"created_at,omitempty"`
	ThreadID  types.ThreadID  `json:"thread_id,omitempty"`
	RunID     string          `json:"run_id,omitempty"`
	Role      string          `json:"role"`
	Content   []Content       `json:"content"`
}

// Content is one content block of a message. Only text blocks carry a
// value; other block types are passed through untouched.
type Content struct {
	Type string `json:"type"`
	Text Text   `json:"text"`
}

type Text struct {
	Value       string `json:"value"`
	Annotations []any  `json:"annotations,omitempty"`
}

// Text joins all text content blocks of the message.
func (x Message) Text() string {
	var parts []string
	for _, c := range x.Content {
		if c.Text.Value != "" {
			parts = append(parts, c.Text.Value)
		}
	}
	return strings.Join(parts, "\n")
}

// MessageList is a message listing, ordered as requested from the service.
type MessageList struct {
	Object  string    `json:"object,omitempty"`
	Data    []Message `json:"data"`
	FirstID string    `json:"first_id,omitempty"`
	LastID  string    `json:"last_id,omitempty"`
	HasMore bool      `json:"has_more"`
}

// LatestAssistant returns the most recent assistant message, assuming
// the list was fetched in descending creation order.
func (x *MessageList) LatestAssistant() (Message, bool) {
	for _, msg := range x.Data {
		if msg.Role == RoleAssistant {
			return msg, true
		}
	}
	return Message{}, false
}

// FirstUser returns the earliest user message, assuming ascending order.
func (x *MessageList) FirstUser() (Message, bool) {
	for _, msg := range x.Data {
		if msg.Role == RoleUser {
			return msg, true
		}
	}
	return Message{}, false
}
