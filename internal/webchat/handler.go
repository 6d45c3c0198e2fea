package webchat

import (
	"context"
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/fleetline/driver-desk/internal/conversation"
	"github.com/fleetline/driver-desk/pkg/logging"
)

// DefaultWidgetJS is the embeddable chat widget served when no custom
// script is supplied.
//
//go:embed widget.js
var DefaultWidgetJS []byte

// Agent processes one user turn against a session. Satisfied by
// *conversation.Orchestrator.
type Agent interface {
	ProcessTurn(ctx context.Context, session *conversation.Session, userText string) (string, error)
}

// Handler serves the browser chat channel: a WebSocket endpoint for
// real-time messaging plus plain HTTP fallbacks. Each browser session maps
// to one conversation session, persisted through the session store so a
// page reload resumes the dialogue.
type Handler struct {
	agent    Agent
	sessions conversation.SessionStore
	logger   *logging.Logger
	widgetJS []byte

	mu   sync.Mutex
	turn map[string]*sync.Mutex // session id -> per-session turn lock
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type      string `json:"type"` // "message", "ping"
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string           `json:"type"` // "message", "typing", "history", "session", "pong", "error"
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified turn for history responses. Tool plumbing
// turns are never exposed to the widget.
type HistoryMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// NewHandler creates a web chat handler. A nil widgetJS serves
// DefaultWidgetJS.
func NewHandler(agent Agent, sessions conversation.SessionStore, widgetJS []byte, logger *logging.Logger) *Handler {
	if agent == nil {
		panic("webchat: agent is required")
	}
	if sessions == nil {
		panic("webchat: session store is required")
	}
	if widgetJS == nil {
		widgetJS = DefaultWidgetJS
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		agent:    agent,
		sessions: sessions,
		logger:   logger,
		widgetJS: widgetJS,
		turn:     make(map[string]*sync.Mutex),
	}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// turnLock serializes turns per session. Turns within a session must be
// processed in arrival order; sessions are independent of one another.
func (h *Handler) turnLock(sessionID string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.turn[sessionID]
	if !ok {
		l = &sync.Mutex{}
		h.turn[sessionID] = l
	}
	return l
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sessionID})

	if history := h.history(r.Context(), sessionID); len(history) > 0 {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: history})
	}

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}
		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})

		reply := h.processTurn(r.Context(), sessionID, msg.Text)
		_ = websocket.JSON.Send(conn, OutboundMessage{
			Type:      "message",
			Role:      "assistant",
			Text:      reply,
			SessionID: sessionID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// processTurn loads the session, runs one turn and saves the result. The
// returned text is always speakable; failures inside the turn surface as the
// agent's apology line and leave the stored session unchanged.
func (h *Handler) processTurn(ctx context.Context, sessionID, text string) string {
	lock := h.turnLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := h.sessions.Load(ctx, sessionID)
	if errors.Is(err, conversation.ErrSessionNotFound) {
		session = conversation.NewSession(sessionID)
	} else if err != nil {
		h.logger.Error("webchat: load session", "session_id", sessionID, "error", err)
		return conversation.Apology
	}

	reply, err := h.agent.ProcessTurn(ctx, session, text)
	if err != nil {
		h.logger.Error("webchat: process turn", "session_id", sessionID, "error", err)
		return reply
	}

	if err := h.sessions.Save(ctx, session); err != nil {
		h.logger.Error("webchat: save session", "session_id", sessionID, "error", err)
	}
	return reply
}

func (h *Handler) history(ctx context.Context, sessionID string) []HistoryMessage {
	session, err := h.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil
	}
	history := make([]HistoryMessage, 0, len(session.Turns))
	for _, turn := range session.Turns {
		switch turn.Role {
		case conversation.ChatRoleUser, conversation.ChatRoleAssistant:
			if turn.Content == "" {
				continue // assistant tool-intent turns carry no text
			}
			history = append(history, HistoryMessage{Role: turn.Role, Text: turn.Content})
		}
	}
	return history
}

// HandleMessage is the HTTP fallback for widgets without WebSocket support.
// It runs the turn synchronously and returns the reply.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	reply := h.processTurn(r.Context(), req.SessionID, req.Text)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"session_id": req.SessionID,
		"reply":      reply,
	})
}

// HandleHistory returns chat history for a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	history := h.history(r.Context(), sessionID)
	if history == nil {
		history = []HistoryMessage{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"messages": history})
}

// HandleWidgetJS serves the embeddable widget JavaScript.
func (h *Handler) HandleWidgetJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, _ = w.Write(h.widgetJS)
}
