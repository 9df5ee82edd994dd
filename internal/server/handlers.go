package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/futureppo/groupexport/internal/onebot"
	"go.uber.org/zap"
)

// handleEvent acknowledges an event push immediately and runs any command it
// carries in the background. OneBot implementations expect a fast ack; the
// bot's own replies go out through the API, not the push response.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev onebot.MessageEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid event body")
		return
	}
	if !ev.IsMessage() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.logger.Debug("message event",
		zap.String("message_type", ev.MessageType),
		zap.Int64("user_id", ev.UserID),
		zap.Int64("group_id", ev.GroupID))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		s.Dispatch(ctx, &ev)
	}()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
