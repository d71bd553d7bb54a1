package handlers

import (
	"net/http"

	"moaqeb-backend/internal/realtime"
)

type RealtimeHandler struct {
	Hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{Hub: hub}
}

// Subscribe upgrades to a websocket scoped to the caller's office
func (h *RealtimeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	h.Hub.Serve(w, r, currentUser(r).OfficeID())
}
