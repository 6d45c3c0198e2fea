package conversation

import "time"

// Session is the dialogue state for one call leg. The caller owns it:
// one session per leg, turns processed strictly in arrival order, never
// shared across legs. ProcessTurn only mutates it when the whole turn
// succeeds, so a failed turn can simply be retried.
type Session struct {
	ID        string        `json:"id"`
	Turns     []ChatMessage `json:"turns"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{ID: id, CreatedAt: now, UpdatedAt: now}
}

func (s *Session) append(turns ...ChatMessage) {
	s.Turns = append(s.Turns, turns...)
	s.UpdatedAt = time.Now().UTC()
}

// Reset clears the history, for reuse between unrelated calls.
func (s *Session) Reset() {
	s.Turns = nil
	s.UpdatedAt = time.Now().UTC()
}
