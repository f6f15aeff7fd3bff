package narrative

import (
	"sync"
	"time"

	"trading-journal/internal/types"
)

// DefaultSession is used when a caller does not name a chat session.
const DefaultSession = "default"

// History keeps chat turns per session in memory. Each session holds at most
// maxTurns turns; the oldest are evicted first.
type History struct {
	mu       sync.RWMutex
	sessions map[string][]types.ChatTurn
	maxTurns int
	now      func() time.Time
}

// NewHistory creates an empty history; maxTurns <= 0 means 100.
func NewHistory(maxTurns int) *History {
	if maxTurns <= 0 {
		maxTurns = 100
	}
	return &History{
		sessions: make(map[string][]types.ChatTurn),
		maxTurns: maxTurns,
		now:      time.Now,
	}
}

// Append records a turn and returns the session's turns including it.
func (h *History) Append(session string, role types.Role, content string) []types.ChatTurn {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session == "" {
		session = DefaultSession
	}
	turns := append(h.sessions[session], types.ChatTurn{Role: role, Content: content, Timestamp: h.now()})
	if over := len(turns) - h.maxTurns; over > 0 {
		turns = append([]types.ChatTurn(nil), turns[over:]...)
	}
	h.sessions[session] = turns
	return append([]types.ChatTurn(nil), turns...)
}

// Turns returns a copy of the session's history, oldest first.
func (h *History) Turns(session string) []types.ChatTurn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if session == "" {
		session = DefaultSession
	}
	return append([]types.ChatTurn{}, h.sessions[session]...)
}

// Clear drops every turn of the session.
func (h *History) Clear(session string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session == "" {
		session = DefaultSession
	}
	delete(h.sessions, session)
}
