// Package llm defines the model gateway contract: a synchronous
// request/response call to a hosted chat-completion API. The gateway is
// opaque to the conversation and extraction layers; they never see HTTP.
package llm

import (
	"context"
	"time"

	"github.com/arnavzz/Conversation-Management/types"
)

// ChatRequest is the outbound payload for one completion call.
type ChatRequest struct {
	Model       string             `json:"model"`
	Messages    []types.Message    `json:"messages"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
	Temperature float32            `json:"temperature,omitempty"`
	TopP        float32            `json:"top_p,omitempty"`
	Stop        []string           `json:"stop,omitempty"`
	Tools       []types.ToolSchema `json:"tools,omitempty"`
	ToolChoice  string             `json:"tool_choice,omitempty"` // auto/none/<tool name>
}

// ChatUsage reports token consumption for one call.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatChoice is one candidate completion.
type ChatChoice struct {
	Index        int           `json:"index"`
	FinishReason string        `json:"finish_reason,omitempty"`
	Message      types.Message `json:"message"`
}

// ChatResponse is the inbound payload for one completion call.
type ChatResponse struct {
	ID        string       `json:"id,omitempty"`
	Provider  string       `json:"provider,omitempty"`
	Model     string       `json:"model"`
	Choices   []ChatChoice `json:"choices"`
	Usage     ChatUsage    `json:"usage,omitempty"`
	CreatedAt time.Time    `json:"created_at,omitempty"`
}

// FirstContent returns the text of the first choice, or "".
func (r *ChatResponse) FirstContent() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// FirstToolCalls returns the tool calls of the first choice, or nil.
func (r *ChatResponse) FirstToolCalls() []types.ToolCall {
	if r == nil || len(r.Choices) == 0 {
		return nil
	}
	return r.Choices[0].Message.ToolCalls
}

// HealthStatus reports a gateway liveness probe result.
type HealthStatus struct {
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
}

// Gateway is the opaque synchronous model API. No retries, no streaming:
// callers own failure handling, and a failed call must be reported, never
// silently retried.
type Gateway interface {
	// Complete performs one blocking chat completion.
	Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// HealthCheck performs a lightweight reachability probe.
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// Name returns the gateway's unique identifier.
	Name() string

	// SupportsNativeFunctionCalling reports whether tool calling is
	// available. The extraction path requires it.
	SupportsNativeFunctionCalling() bool
}
