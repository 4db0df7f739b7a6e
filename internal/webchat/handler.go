// Package webchat serves the browser voice widget. Speech capture and
// synthesis run client-side; the server only sees finalized transcript
// strings and replies with text for the widget to speak.
package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/voicebook/internal/chat"
	"github.com/wolfman30/voicebook/pkg/logging"
)

// Handler manages web chat connections and messages.
type Handler struct {
	service *chat.Service
	logger  *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*wsConn // sessionID -> active connection
}

type wsConn struct {
	conn *websocket.Conn
	done chan struct{}
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type      string `json:"type"` // "utterance", "ping"
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// OutboundMessage is what we send to the widget. Reply text segments are
// newline-joined; the widget renders each as a spoken sentence.
type OutboundMessage struct {
	Type      string `json:"type"` // "reply", "session", "pong", "error"
	Text      string `json:"text,omitempty"`
	Intent    string `json:"intent,omitempty"`
	Awaiting  bool   `json:"awaiting,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// NewHandler creates a web chat handler.
func NewHandler(service *chat.Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:  service,
		logger:   logger,
		sessions: make(map[string]*wsConn),
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

	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:      "session",
		SessionID: sessionID,
	})

	wsc := &wsConn{conn: conn, done: make(chan struct{})}
	h.mu.Lock()
	h.sessions[sessionID] = wsc
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.sessions[sessionID] == wsc {
			delete(h.sessions, sessionID)
		}
		h.mu.Unlock()
		close(wsc.done)
	}()

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

		if msg.Type != "utterance" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		h.processUtterance(r.Context(), sessionID, msg.Text)
	}
}

// processUtterance runs one dialogue turn and pushes the reply back over
// the socket. Turn ordering is guaranteed by the chat service; the read
// loop above never interleaves turns for one connection.
func (h *Handler) processUtterance(ctx context.Context, sessionID, text string) {
	out, err := h.service.Message(ctx, sessionID, text)
	if err != nil {
		h.logger.Error("webchat: turn failed", "session_id", sessionID, "error", err)
		h.SendToSession(sessionID, OutboundMessage{
			Type: "error",
			Text: "Something went wrong on our end. Please try again.",
		})
		return
	}

	h.SendToSession(sessionID, OutboundMessage{
		Type:      "reply",
		Text:      out.Reply,
		Intent:    string(out.Intent),
		Awaiting:  out.Pending != nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// SendToSession pushes a message to the session's active connection, if
// any.
func (h *Handler) SendToSession(sessionID string, msg OutboundMessage) {
	h.mu.RLock()
	wsc, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := websocket.JSON.Send(wsc.conn, msg); err != nil {
		h.logger.Debug("webchat: send failed", "session_id", sessionID, "error", err)
	}
}
