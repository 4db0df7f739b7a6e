package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/voicebook/internal/assistant"
	"github.com/wolfman30/voicebook/internal/chat"
	"github.com/wolfman30/voicebook/pkg/logging"
)

// ChatHandler wires HTTP requests to the chat service.
type ChatHandler struct {
	service *chat.Service
	logger  *logging.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(service *chat.Service, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{service: service, logger: logger}
}

// MessageRequest is one utterance from the client.
type MessageRequest struct {
	Text string `json:"text"`
}

// MessageResponse carries the reply and the resulting calendar. Awaiting
// tells clients a follow-up is expected before the draft completes.
type MessageResponse struct {
	Reply        string                  `json:"reply"`
	Intent       string                  `json:"intent"`
	Awaiting     bool                    `json:"awaiting"`
	Appointments []assistant.Appointment `json:"appointments"`
}

// Message handles POST /v1/sessions/{sessionID}/messages.
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session id required", http.StatusBadRequest)
		return
	}

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode message request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	out, err := h.service.Message(r.Context(), sessionID, req.Text)
	if err != nil {
		h.logger.Error("failed to process message", "session_id", sessionID, "error", err)
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, MessageResponse{
		Reply:        out.Reply,
		Intent:       string(out.Intent),
		Awaiting:     out.Pending != nil,
		Appointments: out.Appointments,
	})
}

// AppointmentsResponse lists the session's calendar.
type AppointmentsResponse struct {
	Appointments []assistant.Appointment `json:"appointments"`
	Count        int                     `json:"count"`
}

// Appointments handles GET /v1/sessions/{sessionID}/appointments.
func (h *ChatHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session id required", http.StatusBadRequest)
		return
	}

	appointments, err := h.service.Appointments(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to list appointments", "session_id", sessionID, "error", err)
		http.Error(w, "Failed to list appointments", http.StatusInternalServerError)
		return
	}
	if appointments == nil {
		appointments = []assistant.Appointment{}
	}

	h.writeJSON(w, http.StatusOK, AppointmentsResponse{
		Appointments: appointments,
		Count:        len(appointments),
	})
}

// Reset handles DELETE /v1/sessions/{sessionID}.
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session id required", http.StatusBadRequest)
		return
	}

	if err := h.service.Reset(r.Context(), sessionID); err != nil {
		h.logger.Error("failed to reset session", "session_id", sessionID, "error", err)
		http.Error(w, "Failed to reset session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (h *ChatHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *ChatHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
