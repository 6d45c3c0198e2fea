package conversation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/fleetline/driver-desk/internal/observability/metrics"
	"github.com/fleetline/driver-desk/internal/tools"
	"github.com/fleetline/driver-desk/pkg/logging"
)

// Apology is spoken when the language model cannot be reached. History
// is left untouched so the same turn can be retried.
const Apology = "I apologize, but I'm experiencing a technical issue. Please try again or call our Driver Desk directly."

const systemPrompt = `You are the official voice agent for Fleetline, a UK vehicle-leasing and fleet-management company.

## Your Role
You serve as the first point of contact for customers calling the Driver Desk, handling a wide variety of queries with warmth and professionalism.

## Key Responsibilities
1. Answer questions about Fleetline services, vehicle leasing, fleet management, and company policies.
2. Book appointments: MOTs, services, vehicle inspections, fleet consultations, sales demos, and driver onboarding sessions.
3. During non-business hours (outside Mon-Fri 9AM-5PM UK time), offer appropriate alternatives and schedule callbacks.
4. Capture information from prospective customers interested in fleet leasing or vehicle services.

## Communication Style
- Be warm, friendly, and helpful. More human than corporate.
- Use natural conversational language, no scripts.
- Always aim for the right outcome for the customer.

## Important Information
- Business Hours: Monday to Friday, 9:00 AM to 5:00 PM UK time.
- Emergency roadside assistance is available 24/7.

If you cannot help with something, offer to connect the customer with the appropriate team or schedule a callback.`

// Orchestrator runs the per-turn loop: model call, tool dispatch, then a
// synthesis model call. It holds no per-session state; the Session is
// passed in and committed to only on success.
type Orchestrator struct {
	llm         LLMClient
	registry    *tools.Registry
	logger      *logging.Logger
	metrics     *metrics.ConversationMetrics
	tracer      trace.Tracer
	model       string
	maxTokens   int32
	temperature float32
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithModel(model string) Option {
	return func(o *Orchestrator) { o.model = model }
}

func WithSampling(maxTokens int32, temperature float32) Option {
	return func(o *Orchestrator) {
		o.maxTokens = maxTokens
		o.temperature = temperature
	}
}

func WithMetrics(m *metrics.ConversationMetrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = tracer }
}

func NewOrchestrator(llm LLMClient, registry *tools.Registry, logger *logging.Logger, opts ...Option) *Orchestrator {
	if llm == nil {
		panic("conversation: llm client is required")
	}
	if registry == nil {
		panic("conversation: tool registry is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	o := &Orchestrator{
		llm:         llm,
		registry:    registry,
		logger:      logger,
		tracer:      otel.Tracer("driverdesk.internal.conversation"),
		maxTokens:   2048,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProcessTurn runs one user utterance through the loop and returns the
// text to speak back. The reply is always usable: on a model failure it
// is the fixed apology, the error carries the cause for the caller's
// logs, and the session is left exactly as it was so the turn can be
// retried. Callers must serialize turns per session.
func (o *Orchestrator) ProcessTurn(ctx context.Context, session *Session, userText string) (string, error) {
	ctx, span := o.tracer.Start(ctx, "conversation.process_turn")
	defer span.End()

	start := time.Now()
	reply, err := o.processTurn(ctx, session, userText)
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
	}
	o.metrics.ObserveTurn(status, time.Since(start).Seconds())
	return reply, err
}

func (o *Orchestrator) processTurn(ctx context.Context, session *Session, userText string) (string, error) {
	// Staged turns are only committed to the session once the whole
	// exchange has succeeded.
	staged := []ChatMessage{{Role: ChatRoleUser, Content: userText}}

	resp, err := o.invoke(ctx, "initial", session.Turns, staged, tools.Schemas())
	if err != nil {
		o.logger.Error("model call failed", "session_id", session.ID, "phase", "initial", "error", err)
		return Apology, fmt.Errorf("conversation: initial model call: %w", err)
	}

	if len(resp.ToolCalls) == 0 {
		staged = append(staged, ChatMessage{Role: ChatRoleAssistant, Content: resp.Text})
		session.append(staged...)
		return resp.Text, nil
	}

	staged = append(staged, ChatMessage{
		Role:      ChatRoleAssistant,
		Content:   resp.Text,
		ToolCalls: resp.ToolCalls,
	})
	staged = append(staged, o.executeTools(ctx, session.ID, resp.ToolCalls)...)

	// Second model call synthesizes a reply from the tool results; no
	// tools are offered this round.
	final, err := o.invoke(ctx, "synthesis", session.Turns, staged, nil)
	if err != nil {
		o.logger.Error("model call failed", "session_id", session.ID, "phase", "synthesis", "error", err)
		return Apology, fmt.Errorf("conversation: synthesis model call: %w", err)
	}

	staged = append(staged, ChatMessage{Role: ChatRoleAssistant, Content: final.Text})
	session.append(staged...)
	return final.Text, nil
}

// executeTools dispatches every call in the batch. Calls are logically
// independent: one failing handler produces an error-text result for its
// call id and the rest proceed.
func (o *Orchestrator) executeTools(ctx context.Context, sessionID string, calls []ToolCall) []ChatMessage {
	results := make([]ChatMessage, 0, len(calls))
	for _, call := range calls {
		results = append(results, ChatMessage{
			Role:       ChatRoleTool,
			Content:    o.executeTool(ctx, sessionID, call),
			ToolCallID: call.ID,
			ToolName:   call.Name,
		})
	}
	return results
}

func (o *Orchestrator) executeTool(ctx context.Context, sessionID string, call ToolCall) string {
	kind, err := tools.ParseKind(call.Name)
	if err != nil {
		o.logger.Error("model requested unknown tool",
			"session_id", sessionID, "tool", call.Name, "call_id", call.ID)
		return fmt.Sprintf("Error: unknown tool %s", call.Name)
	}
	text, err := o.registry.Dispatch(ctx, kind, call.Args)
	if err != nil {
		o.logger.Error("tool execution failed",
			"session_id", sessionID, "tool", call.Name, "call_id", call.ID, "error", err)
		return fmt.Sprintf("Error executing %s", call.Name)
	}
	return text
}

func (o *Orchestrator) invoke(ctx context.Context, phase string, committed, staged []ChatMessage, schemas []tools.Schema) (LLMResponse, error) {
	history := make([]ChatMessage, 0, len(committed)+len(staged))
	history = append(history, committed...)
	history = append(history, staged...)

	resp, err := o.llm.Complete(ctx, LLMRequest{
		Model:       o.model,
		System:      []string{systemPrompt},
		Messages:    history,
		Tools:       schemas,
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	})
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.metrics.ObserveModelCall(phase, status)
	return resp, err
}
