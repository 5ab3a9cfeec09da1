package devstub

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	emailmodels "intake/internal/email/models"
)

// handleSendEmail accepts the message and records it in the history log.
// Nothing is actually delivered; this is a development stub.
func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var msg emailmodels.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}
	if msg.To == "" || msg.Subject == "" {
		s.writeError(w, http.StatusBadRequest, "recipient and subject are required")
		return
	}

	entry := emailmodels.HistoryEntry{
		ID:      "hist_" + uuid.NewString(),
		To:      msg.To,
		Subject: msg.Subject,
		SentAt:  s.now().UTC(),
		Status:  "sent",
	}
	s.mu.Lock()
	s.history = append(s.history, entry)
	s.mu.Unlock()

	s.logger.Info("email recorded", "to", msg.To, "subject", msg.Subject)
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "email recorded"})
}

func (s *Server) handleEmailHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	history := make([]emailmodels.HistoryEntry, len(s.history))
	copy(history, s.history)
	s.mu.RUnlock()

	// Newest first.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "history": history})
}
