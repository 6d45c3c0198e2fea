package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/calendar"
	"github.com/fleetline/driver-desk/internal/callbacks"
	"github.com/fleetline/driver-desk/internal/leads"
	"github.com/fleetline/driver-desk/internal/store"
	"github.com/fleetline/driver-desk/internal/tools"
)

// scriptedLLM pops one response per Complete call and records requests.
type scriptedLLM struct {
	steps    []func(req LLMRequest) (LLMResponse, error)
	requests []LLMRequest
}

func (s *scriptedLLM) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	s.requests = append(s.requests, req)
	if len(s.steps) == 0 {
		return LLMResponse{}, errors.New("scripted llm: no steps left")
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	return step(req)
}

func testOrchestrator(t *testing.T, llm LLMClient) (*Orchestrator, *store.MemoryStore) {
	t.Helper()
	cal, err := calendar.New()
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	// Wednesday 4 March 2026, 11:00 London time.
	fixed := time.Date(2026, time.March, 4, 11, 0, 0, 0, cal.Location())
	clock := func() time.Time { return fixed }

	mem := store.NewMemoryStore()
	engine := appointments.NewEngine(mem.Appointments(), cal, nil).WithClock(clock)
	leadSvc := leads.NewService(mem.Leads(), nil).WithClock(clock)
	scheduler := callbacks.NewScheduler(mem.Callbacks(), cal, nil).WithClock(clock)
	registry := tools.NewRegistry(engine, leadSvc, scheduler, cal, nil, nil).WithClock(clock)
	return NewOrchestrator(llm, registry, nil), mem
}

// toolResults pulls the tool-result turns out of a request's history.
func toolResults(req LLMRequest) []ChatMessage {
	var out []ChatMessage
	for _, msg := range req.Messages {
		if msg.Role == ChatRoleTool {
			out = append(out, msg)
		}
	}
	return out
}

func TestProcessTurnPlainText(t *testing.T) {
	llm := &scriptedLLM{steps: []func(LLMRequest) (LLMResponse, error){
		func(req LLMRequest) (LLMResponse, error) {
			return LLMResponse{Text: "We're open Monday to Friday, 9 to 5."}, nil
		},
	}}
	o, _ := testOrchestrator(t, llm)
	session := NewSession("sess-1")

	reply, err := o.ProcessTurn(context.Background(), session, "when are you open?")
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if reply != "We're open Monday to Friday, 9 to 5." {
		t.Errorf("reply = %q", reply)
	}
	if len(session.Turns) != 2 {
		t.Fatalf("session has %d turns, want 2", len(session.Turns))
	}
	if session.Turns[0].Role != ChatRoleUser || session.Turns[1].Role != ChatRoleAssistant {
		t.Errorf("turn roles = %s, %s", session.Turns[0].Role, session.Turns[1].Role)
	}
	if len(llm.requests[0].Tools) == 0 {
		t.Error("initial model call should offer the tool schemas")
	}
}

func TestProcessTurnBooksAppointment(t *testing.T) {
	bookArgs, _ := json.Marshal(map[string]any{
		"customer_name":    "Priya Shah",
		"contact_phone":    "07700900123",
		"contact_email":    "priya@example.co.uk",
		"appointment_type": "MOT",
		"preferred_date":   "2026-03-10",
		"preferred_time":   "Morning (9-12)",
	})
	llm := &scriptedLLM{steps: []func(LLMRequest) (LLMResponse, error){
		func(req LLMRequest) (LLMResponse, error) {
			return LLMResponse{
				ToolCalls:  []ToolCall{{ID: "call-1", Name: "book_appointment", Args: bookArgs}},
				StopReason: "tool_use",
			}, nil
		},
		func(req LLMRequest) (LLMResponse, error) {
			// Synthesize from the tool outcome, the way a real model would.
			results := toolResults(req)
			if len(results) != 1 {
				t.Fatalf("synthesis call saw %d tool results, want 1", len(results))
			}
			return LLMResponse{Text: "All booked! " + results[0].Content}, nil
		},
	}}
	o, mem := testOrchestrator(t, llm)
	session := NewSession("sess-1")

	reply, err := o.ProcessTurn(context.Background(), session, "I'd like to book an MOT for next Tuesday morning")
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if !strings.Contains(reply, "APT-") {
		t.Errorf("reply should reference the booking id, got %q", reply)
	}
	if !strings.Contains(reply, "2026-03-10") || !strings.Contains(reply, "Morning (9-12)") {
		t.Errorf("reply should confirm date and slot, got %q", reply)
	}

	all, _ := mem.Appointments().List(context.Background())
	if len(all) != 1 {
		t.Fatalf("persisted %d appointments, want exactly 1", len(all))
	}
	if all[0].Type != appointments.TypeMOT {
		t.Errorf("type = %s, want MOT", all[0].Type)
	}

	// user, assistant intent, tool result, assistant reply
	if len(session.Turns) != 4 {
		t.Fatalf("session has %d turns, want 4", len(session.Turns))
	}
	if session.Turns[2].ToolCallID != "call-1" {
		t.Errorf("tool result correlates to %q, want call-1", session.Turns[2].ToolCallID)
	}
	if len(llm.requests[1].Tools) != 0 {
		t.Error("synthesis call must not offer tools")
	}
}

func TestCollaboratorFailureLeavesSessionUnchanged(t *testing.T) {
	llm := &scriptedLLM{steps: []func(LLMRequest) (LLMResponse, error){
		func(req LLMRequest) (LLMResponse, error) {
			return LLMResponse{}, errors.New("upstream timeout")
		},
	}}
	o, _ := testOrchestrator(t, llm)
	session := NewSession("sess-1")

	reply, err := o.ProcessTurn(context.Background(), session, "hello")
	if err == nil {
		t.Fatal("expected an error for operator logs")
	}
	if reply != Apology {
		t.Errorf("reply = %q, want the apology", reply)
	}
	if len(session.Turns) != 0 {
		t.Errorf("failed turn must not mutate history, have %d turns", len(session.Turns))
	}
}

func TestSynthesisFailureLeavesSessionUnchanged(t *testing.T) {
	llm := &scriptedLLM{steps: []func(LLMRequest) (LLMResponse, error){
		func(req LLMRequest) (LLMResponse, error) {
			return LLMResponse{
				ToolCalls: []ToolCall{{ID: "call-1", Name: "get_business_hours", Args: nil}},
			}, nil
		},
		func(req LLMRequest) (LLMResponse, error) {
			return LLMResponse{}, errors.New("upstream timeout")
		},
	}}
	o, _ := testOrchestrator(t, llm)
	session := NewSession("sess-1")

	reply, err := o.ProcessTurn(context.Background(), session, "when are you open?")
	if err == nil {
		t.Fatal("expected an error for operator logs")
	}
	if reply != Apology {
		t.Errorf("reply = %q, want the apology", reply)
	}
	if len(session.Turns) != 0 {
		t.Errorf("failed turn must not mutate history, have %d turns", len(session.Turns))
	}
}

func TestBatchToolFailureIsIsolated(t *testing.T) {
	llm := &scriptedLLM{steps: []func(LLMRequest) (LLMResponse, error){
		func(req LLMRequest) (LLMResponse, error) {
			return LLMResponse{ToolCalls: []ToolCall{
				{ID: "call-1", Name: "transfer_call", Args: nil},
				{ID: "call-2", Name: "get_business_hours", Args: nil},
			}}, nil
		},
		func(req LLMRequest) (LLMResponse, error) {
			return LLMResponse{Text: "done"}, nil
		},
	}}
	o, _ := testOrchestrator(t, llm)
	session := NewSession("sess-1")

	if _, err := o.ProcessTurn(context.Background(), session, "help"); err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}

	results := toolResults(llm.requests[1])
	if len(results) != 2 {
		t.Fatalf("synthesis call saw %d tool results, want 2", len(results))
	}
	byID := map[string]string{}
	for _, r := range results {
		byID[r.ToolCallID] = r.Content
	}
	if !strings.Contains(byID["call-1"], "unknown tool") {
		t.Errorf("call-1 result = %q, want an error string", byID["call-1"])
	}
	if !strings.Contains(byID["call-2"], "Monday to Friday") {
		t.Errorf("call-2 should have run normally, got %q", byID["call-2"])
	}
}

func TestSessionReset(t *testing.T) {
	llm := &scriptedLLM{steps: []func(LLMRequest) (LLMResponse, error){
		func(req LLMRequest) (LLMResponse, error) {
			return LLMResponse{Text: "hi"}, nil
		},
	}}
	o, _ := testOrchestrator(t, llm)
	session := NewSession("sess-1")

	if _, err := o.ProcessTurn(context.Background(), session, "hello"); err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	session.Reset()
	if len(session.Turns) != 0 {
		t.Errorf("reset should clear history, have %d turns", len(session.Turns))
	}
}

func TestStubClientRoundTrip(t *testing.T) {
	o, _ := testOrchestrator(t, NewStubLLMClient())
	session := NewSession("sess-1")

	reply, err := o.ProcessTurn(context.Background(), session, "what are your business hours?")
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if !strings.Contains(reply, "Monday to Friday") {
		t.Errorf("stub should route to the hours tool, got %q", reply)
	}
}
