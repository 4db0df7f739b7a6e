// Package chat threads conversational state between the dialogue engine
// and the session store on behalf of the transport layers (REST,
// WebSocket, terminal).
package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wolfman30/voicebook/internal/assistant"
	"github.com/wolfman30/voicebook/internal/session"
	"github.com/wolfman30/voicebook/pkg/logging"
)

// Service processes utterances for sessions. Turns within one session are
// strictly serialized: a new utterance waits until the previous one has
// been processed and persisted.
type Service struct {
	engine *assistant.Engine
	store  session.Store
	logger *logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a chat service.
func NewService(engine *assistant.Engine, store session.Store, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		engine: engine,
		store:  store,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Message runs one dialogue turn for the session and persists the
// resulting state.
func (s *Service) Message(ctx context.Context, sessionID, utterance string) (assistant.Outcome, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return assistant.Outcome{}, fmt.Errorf("chat: load session: %w", err)
	}

	out := s.engine.Process(utterance, assistant.Context{
		Appointments: state.Appointments,
		Pending:      state.Pending,
	})

	next := session.State{
		Appointments: out.Appointments,
		Pending:      out.Pending,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.store.Save(ctx, sessionID, next); err != nil {
		return assistant.Outcome{}, fmt.Errorf("chat: save session: %w", err)
	}

	s.logger.Info("utterance handled",
		"session_id", sessionID,
		"intent", string(out.Intent),
		"appointments", len(out.Appointments),
	)
	return out, nil
}

// Appointments returns the session's current calendar.
func (s *Service) Appointments(ctx context.Context, sessionID string) ([]assistant.Appointment, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("chat: load session: %w", err)
	}
	return state.Appointments, nil
}

// Reset deletes all state for the session.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("chat: reset session: %w", err)
	}
	return nil
}

func (s *Service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}
