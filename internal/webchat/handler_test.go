package webchat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/voicebook/internal/assistant"
	"github.com/wolfman30/voicebook/internal/chat"
	"github.com/wolfman30/voicebook/internal/session"
	"github.com/wolfman30/voicebook/pkg/logging"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	base := time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC)
	engine := assistant.New(
		assistant.WithClock(func() time.Time { return base }),
		assistant.WithLogger(logging.New("error")),
	)
	service := chat.NewService(engine, session.NewMemoryStore(), logging.New("error"))
	return NewHandler(service, logging.New("error"))
}

func dialWS(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + query
	conn, err := websocket.Dial(url, "", "http://localhost/")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func receive(t *testing.T, conn *websocket.Conn) OutboundMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	return msg
}

func TestWebSocketAssignsSession(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	conn := dialWS(t, srv, "")
	msg := receive(t, conn)
	assert.Equal(t, "session", msg.Type)
	assert.NotEmpty(t, msg.SessionID)
}

func TestWebSocketHonorsProvidedSession(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	conn := dialWS(t, srv, "?session=widget-1")
	msg := receive(t, conn)
	assert.Equal(t, "session", msg.Type)
	assert.Equal(t, "widget-1", msg.SessionID)
}

func TestWebSocketUtteranceRoundTrip(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	conn := dialWS(t, srv, "?session=widget-1")
	receive(t, conn) // session assignment

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{
		Type: "utterance", Text: "Book a call with Sam",
	}))
	msg := receive(t, conn)
	assert.Equal(t, "reply", msg.Type)
	assert.Contains(t, msg.Text, "What date and time")
	assert.True(t, msg.Awaiting)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{
		Type: "utterance", Text: "Friday at 3pm",
	}))
	msg = receive(t, conn)
	assert.Equal(t, "reply", msg.Type)
	assert.Contains(t, msg.Text, "scheduled a call with Sam")
	assert.False(t, msg.Awaiting)
}

func TestWebSocketPing(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	conn := dialWS(t, srv, "")
	receive(t, conn) // session assignment

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "ping"}))
	msg := receive(t, conn)
	assert.Equal(t, "pong", msg.Type)
}

func TestSendToUnknownSessionIsNoop(t *testing.T) {
	h := newTestHandler(t)
	h.SendToSession("nobody", OutboundMessage{Type: "reply", Text: "hi"})
}

func TestGenerateSessionID(t *testing.T) {
	a := generateSessionID()
	b := generateSessionID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
