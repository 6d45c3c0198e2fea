package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/fleetline/driver-desk/internal/tools"
)

// GeminiLLMClient implements LLMClient using Google's Gemini API.
// Gemini does not issue tool-call ids, so this client mints one per
// function call; the ToolName carried on result turns lets history be
// replayed as function responses.
type GeminiLLMClient struct {
	client  *genai.Client
	modelID string
}

func NewGeminiLLMClient(ctx context.Context, apiKey, modelID string) (*GeminiLLMClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("conversation: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to create gemini client: %w", err)
	}

	return &GeminiLLMClient{client: client, modelID: modelID}, nil
}

var _ LLMClient = (*GeminiLLMClient)(nil)

func (c *GeminiLLMClient) Close() error {
	return c.client.Close()
}

func (c *GeminiLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	if len(req.Messages) == 0 {
		return LLMResponse{}, errors.New("conversation: gemini requires at least one message")
	}

	model := c.client.GenerativeModel(c.modelID)
	if req.Temperature >= 0 {
		model.SetTemperature(req.Temperature)
	}
	if req.TopP > 0 {
		model.SetTopP(req.TopP)
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}
	if len(req.System) > 0 {
		systemText := strings.Join(req.System, "\n\n")
		if strings.TrimSpace(systemText) != "" {
			model.SystemInstruction = genai.NewUserContent(genai.Text(systemText))
		}
	}
	if len(req.Tools) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: geminiDeclarations(req.Tools)}}
	}

	contents, err := geminiContents(req.Messages)
	if err != nil {
		return LLMResponse{}, err
	}

	cs := model.StartChat()
	last := contents[len(contents)-1]
	cs.History = contents[:len(contents)-1]

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("conversation: gemini completion failed: %w", err)
	}
	return geminiExtractResponse(resp)
}

func geminiContents(msgs []ChatMessage) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case ChatRoleSystem:
			continue
		case ChatRoleUser:
			if strings.TrimSpace(msg.Content) == "" {
				continue
			}
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		case ChatRoleAssistant:
			parts := make([]genai.Part, 0, 1+len(msg.ToolCalls))
			if strings.TrimSpace(msg.Content) != "" {
				parts = append(parts, genai.Text(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				var args map[string]any
				if len(call.Args) > 0 {
					if err := json.Unmarshal(call.Args, &args); err != nil {
						return nil, fmt.Errorf("conversation: tool call %s: %w", call.ID, err)
					}
				}
				parts = append(parts, genai.FunctionCall{Name: call.Name, Args: args})
			}
			if len(parts) == 0 {
				continue
			}
			contents = append(contents, &genai.Content{Role: "model", Parts: parts})
		case ChatRoleTool:
			contents = append(contents, &genai.Content{
				Role: "function",
				Parts: []genai.Part{genai.FunctionResponse{
					Name:     msg.ToolName,
					Response: map[string]any{"result": msg.Content},
				}},
			})
		default:
			return nil, fmt.Errorf("conversation: unsupported role %q", msg.Role)
		}
	}
	if len(contents) == 0 {
		return nil, errors.New("conversation: gemini requires at least one non-empty message")
	}
	return contents, nil
}

func geminiDeclarations(schemas []tools.Schema) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(schemas))
	for _, schema := range schemas {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        schema.Name,
			Description: schema.Description,
			Parameters:  geminiSchema(schema.InputSchema),
		})
	}
	return decls
}

// geminiSchema converts a JSON-schema style map into the genai typed
// schema. Only the subset the tool schemas use is handled.
func geminiSchema(raw map[string]any) *genai.Schema {
	if raw == nil {
		return nil
	}
	out := &genai.Schema{}
	switch raw["type"] {
	case "object":
		out.Type = genai.TypeObject
	case "string":
		out.Type = genai.TypeString
	case "integer":
		out.Type = genai.TypeInteger
	case "boolean":
		out.Type = genai.TypeBoolean
	case "number":
		out.Type = genai.TypeNumber
	}
	if desc, ok := raw["description"].(string); ok {
		out.Description = desc
	}
	if enum, ok := raw["enum"].([]any); ok {
		for _, v := range enum {
			if s, ok := v.(string); ok {
				out.Enum = append(out.Enum, s)
			}
		}
	}
	if props, ok := raw["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if m, ok := prop.(map[string]any); ok {
				out.Properties[name] = geminiSchema(m)
			}
		}
	}
	if required, ok := raw["required"].([]string); ok {
		out.Required = required
	} else if required, ok := raw["required"].([]any); ok {
		for _, v := range required {
			if s, ok := v.(string); ok {
				out.Required = append(out.Required, s)
			}
		}
	}
	return out
}

func geminiExtractResponse(resp *genai.GenerateContentResponse) (LLMResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return LLMResponse{}, errors.New("conversation: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return LLMResponse{}, errors.New("conversation: gemini returned empty content")
	}

	var builder strings.Builder
	var calls []ToolCall
	for _, part := range candidate.Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			builder.WriteString(string(v))
		case genai.FunctionCall:
			args, err := json.Marshal(v.Args)
			if err != nil {
				return LLMResponse{}, fmt.Errorf("conversation: encode function args: %w", err)
			}
			calls = append(calls, ToolCall{
				ID:   uuid.NewString(),
				Name: v.Name,
				Args: args,
			})
		}
	}

	result := LLMResponse{
		Text:       strings.TrimSpace(builder.String()),
		ToolCalls:  calls,
		StopReason: fmt.Sprint(candidate.FinishReason),
	}
	if resp.UsageMetadata != nil {
		result.Usage = TokenUsage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  resp.UsageMetadata.TotalTokenCount,
		}
	}
	if result.Text == "" && len(result.ToolCalls) == 0 {
		return LLMResponse{}, errors.New("conversation: gemini response contained no text or function calls")
	}
	return result, nil
}
