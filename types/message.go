package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ParseRole validates a raw role string against the closed enum.
// Roles are checked once at construction, not at send time.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", NewError(ErrInvalidRequest, fmt.Sprintf("unknown role %q", s))
	}
	return r, nil
}

// Valid reports whether the role is one of the closed enum values.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// SummaryPrefix marks an assistant message produced by history compression.
// Downstream consumers and tests use it to detect that summarization fired.
const SummaryPrefix = "[Summary]"

// ToolCall represents a function invocation request returned by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Message is one immutable conversation turn.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Timestamp  time.Time  `json:"timestamp,omitempty"`
}

// NewMessage creates a message with the given role and content.
func NewMessage(role Role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewSummaryMessage creates the synthetic assistant turn that replaces
// compressed history. The content is tagged with SummaryPrefix unless the
// model already included it.
func NewSummaryMessage(content string) Message {
	if !strings.HasPrefix(content, SummaryPrefix) {
		content = SummaryPrefix + " " + content
	}
	return NewMessage(RoleAssistant, content)
}

// IsSummary reports whether the message is a compression artifact.
func (m Message) IsSummary() bool {
	return m.Role == RoleAssistant && strings.HasPrefix(m.Content, SummaryPrefix)
}

// WithToolCalls adds tool calls to the message.
func (m Message) WithToolCalls(calls []ToolCall) Message {
	m.ToolCalls = calls
	return m
}

// WithName sets the participant name on the message.
func (m Message) WithName(name string) Message {
	m.Name = name
	return m
}
