package conversation

import (
	"context"
	"encoding/json"

	"github.com/fleetline/driver-desk/internal/tools"
)

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleTool      = "tool"
)

// ToolCall is one tool invocation requested by the model. The ID
// correlates the eventual result turn back to this request.
type ToolCall struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// ChatMessage is one role-tagged turn. Assistant turns may carry tool
// calls; tool turns carry the result for exactly one call id. ToolName
// is kept on tool turns because some providers need the function name
// repeated when history is replayed.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	Tools       []tools.Schema
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// LLMResponse is either plain assistant text, or text (possibly empty)
// plus one or more tool calls to execute.
type LLMResponse struct {
	Text       string
	ToolCalls  []ToolCall
	Usage      TokenUsage
	StopReason string
}

type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
