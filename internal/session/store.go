// Package session persists per-session conversational state: the
// appointment collection plus any pending booking draft. The dialogue
// engine itself is stateless; whatever a store hands back is exactly what
// the engine returned on the previous turn.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wolfman30/voicebook/internal/assistant"
)

// ErrSessionIDRequired is returned when a caller passes an empty session id.
var ErrSessionIDRequired = errors.New("session: session id required")

// State is the durable snapshot of one session.
type State struct {
	Appointments []assistant.Appointment   `json:"appointments"`
	Pending      *assistant.PendingBooking `json:"pending,omitempty"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// Store loads and saves session state. Load returns a zero State for
// unknown sessions; a fresh session and a missing one are the same thing.
type Store interface {
	Load(ctx context.Context, sessionID string) (State, error)
	Save(ctx context.Context, sessionID string, state State) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps sessions in process memory. It is the default backend
// and the one used across tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]State
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]State)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (State, error) {
	if sessionID == "" {
		return State{}, ErrSessionIDRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return State{}, nil
	}
	return copyState(state), nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, state State) error {
	if sessionID == "" {
		return ErrSessionIDRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = copyState(state)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionIDRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// copyState detaches the stored snapshot from caller-held slices.
func copyState(state State) State {
	out := State{UpdatedAt: state.UpdatedAt}
	if state.Appointments != nil {
		out.Appointments = make([]assistant.Appointment, len(state.Appointments))
		copy(out.Appointments, state.Appointments)
	}
	if state.Pending != nil {
		pending := *state.Pending
		if state.Pending.Time != nil {
			t := *state.Pending.Time
			pending.Time = &t
		}
		out.Pending = &pending
	}
	return out
}
