package conversation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/fleetline/driver-desk/internal/tools"
)

type fakeConverseAPI struct {
	lastInput *bedrockruntime.ConverseInput
	output    *bedrockruntime.ConverseOutput
	err       error
}

func (f *fakeConverseAPI) Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.lastInput = params
	return f.output, f.err
}

func textOutput(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{
			Value: brtypes.Message{
				Role: brtypes.ConversationRoleAssistant,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: text},
				},
			},
		},
		StopReason: brtypes.StopReasonEndTurn,
	}
}

func TestBedrockCompleteText(t *testing.T) {
	api := &fakeConverseAPI{output: textOutput("Hello from the Driver Desk.")}
	client := NewBedrockLLMClient(api)

	resp, err := client.Complete(context.Background(), LLMRequest{
		Model:       "anthropic.claude-3-5-haiku-20241022-v1:0",
		System:      []string{"You are a helpful agent."},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: "hello"}},
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "Hello from the Driver Desk." {
		t.Errorf("text = %q", resp.Text)
	}
	if len(resp.ToolCalls) != 0 {
		t.Errorf("unexpected tool calls: %+v", resp.ToolCalls)
	}
	if api.lastInput.ToolConfig != nil {
		t.Error("no tools requested, tool config should be nil")
	}
}

func TestBedrockCompleteWithToolsSendsToolConfig(t *testing.T) {
	api := &fakeConverseAPI{output: textOutput("ok")}
	client := NewBedrockLLMClient(api)

	_, err := client.Complete(context.Background(), LLMRequest{
		Model:    "anthropic.claude-3-5-haiku-20241022-v1:0",
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hello"}},
		Tools:    tools.Schemas(),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if api.lastInput.ToolConfig == nil {
		t.Fatal("tool config should be sent")
	}
	if len(api.lastInput.ToolConfig.Tools) != len(tools.Kinds()) {
		t.Errorf("sent %d tool specs, want %d", len(api.lastInput.ToolConfig.Tools), len(tools.Kinds()))
	}
}

func TestBedrockCompleteExtractsToolUse(t *testing.T) {
	api := &fakeConverseAPI{output: &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{
			Value: brtypes.Message{
				Role: brtypes.ConversationRoleAssistant,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberToolUse{
						Value: brtypes.ToolUseBlock{
							ToolUseId: aws.String("tooluse-1"),
							Name:      aws.String("book_appointment"),
							Input: document.NewLazyDocument(map[string]any{
								"customer_name": "Priya Shah",
							}),
						},
					},
				},
			},
		},
		StopReason: brtypes.StopReasonToolUse,
	}}
	client := NewBedrockLLMClient(api)

	resp, err := client.Complete(context.Background(), LLMRequest{
		Model:    "anthropic.claude-3-5-haiku-20241022-v1:0",
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "book an MOT"}},
		Tools:    tools.Schemas(),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(resp.ToolCalls) != 1 {
		t.Fatalf("got %d tool calls, want 1", len(resp.ToolCalls))
	}
	call := resp.ToolCalls[0]
	if call.ID != "tooluse-1" || call.Name != "book_appointment" {
		t.Errorf("call = %+v", call)
	}
	var args map[string]any
	if err := json.Unmarshal(call.Args, &args); err != nil {
		t.Fatalf("decode args: %v", err)
	}
	if args["customer_name"] != "Priya Shah" {
		t.Errorf("args = %v", args)
	}
	if resp.StopReason != string(brtypes.StopReasonToolUse) {
		t.Errorf("stop reason = %q", resp.StopReason)
	}
}

func TestBedrockReplaysToolHistory(t *testing.T) {
	api := &fakeConverseAPI{output: textOutput("All booked.")}
	client := NewBedrockLLMClient(api)

	_, err := client.Complete(context.Background(), LLMRequest{
		Model: "anthropic.claude-3-5-haiku-20241022-v1:0",
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: "book an MOT"},
			{Role: ChatRoleAssistant, ToolCalls: []ToolCall{{
				ID: "tooluse-1", Name: "book_appointment", Args: []byte(`{"customer_name":"Priya Shah"}`),
			}}},
			{Role: ChatRoleTool, Content: "Appointment confirmed", ToolCallID: "tooluse-1", ToolName: "book_appointment"},
		},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	msgs := api.lastInput.Messages
	if len(msgs) != 3 {
		t.Fatalf("sent %d messages, want 3", len(msgs))
	}
	if _, ok := msgs[1].Content[0].(*brtypes.ContentBlockMemberToolUse); !ok {
		t.Error("assistant turn should replay as a tool-use block")
	}
	result, ok := msgs[2].Content[0].(*brtypes.ContentBlockMemberToolResult)
	if !ok {
		t.Fatal("tool turn should replay as a tool-result block")
	}
	if aws.ToString(result.Value.ToolUseId) != "tooluse-1" {
		t.Errorf("tool result correlates to %q", aws.ToString(result.Value.ToolUseId))
	}
	if msgs[2].Role != brtypes.ConversationRoleUser {
		t.Error("tool results must be carried in a user-role message")
	}
}

func TestBedrockRequiresModelID(t *testing.T) {
	client := NewBedrockLLMClient(&fakeConverseAPI{})
	if _, err := client.Complete(context.Background(), LLMRequest{
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}},
	}); err == nil {
		t.Fatal("missing model id should error")
	}
}
