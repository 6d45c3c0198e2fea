package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// StubLLMClient is a deterministic, offline stand-in for a real model.
// It recognizes a few intents well enough to exercise the tool loop end
// to end without credentials: FAQ topics, business hours, roadside
// assistance, and after-hours checks map onto tool calls, everything
// else gets a canned reply. Used by the local console and by deployments
// that have not configured a provider.
type StubLLMClient struct{}

func NewStubLLMClient() *StubLLMClient {
	return &StubLLMClient{}
}

var _ LLMClient = (*StubLLMClient)(nil)

func (c *StubLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	if len(req.Messages) == 0 {
		return LLMResponse{}, fmt.Errorf("conversation: stub requires at least one message")
	}

	last := req.Messages[len(req.Messages)-1]

	// Synthesis pass: no tools offered, last turn is a tool result.
	// Relay the tool output directly; it is already caller-facing text.
	if len(req.Tools) == 0 && last.Role == ChatRoleTool {
		return LLMResponse{Text: last.Content}, nil
	}

	text := strings.ToLower(last.Content)
	if len(req.Tools) > 0 {
		if kind, ok := stubIntent(text); ok {
			args := json.RawMessage("{}")
			if kind == "get_faq_answer" {
				args = json.RawMessage(fmt.Sprintf(`{"topic":%q}`, stubTopic(text)))
			}
			return LLMResponse{
				ToolCalls:  []ToolCall{{ID: fmt.Sprintf("stub-%d", len(req.Messages)), Name: kind, Args: args}},
				StopReason: "tool_use",
			}, nil
		}
	}

	switch {
	case strings.Contains(text, "greet"):
		return LLMResponse{Text: "Hello, you've reached the Fleetline Driver Desk. How can I help you today?"}, nil
	case strings.Contains(text, "goodbye") || strings.Contains(text, "ending the call"):
		return LLMResponse{Text: "Thank you for calling Fleetline. Have a great day!"}, nil
	}
	return LLMResponse{Text: "I can help you book appointments, answer questions about leasing, check our opening hours, or arrange a callback. What would you like to do?"}, nil
}

func stubIntent(text string) (string, bool) {
	switch {
	case strings.Contains(text, "roadside") || strings.Contains(text, "breakdown") || strings.Contains(text, "broken down"):
		return "get_roadside_assistance", true
	case strings.Contains(text, "opening hours") || strings.Contains(text, "business hours") || strings.Contains(text, "open"):
		return "get_business_hours", true
	case strings.Contains(text, "after hours") || strings.Contains(text, "still open"):
		return "check_after_hours", true
	case strings.Contains(text, "faq") || strings.Contains(text, "question about"):
		return "get_faq_answer", true
	}
	return "", false
}

func stubTopic(text string) string {
	for _, topic := range []string{"leasing", "fleet", "ev", "mot", "pricing", "contracts", "careers"} {
		if strings.Contains(text, topic) {
			return topic
		}
	}
	return "general"
}
