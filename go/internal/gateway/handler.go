package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handler exposes the WebSocket endpoints.
type Handler struct {
	manager *ConnectionManager
}

func NewHandler(manager *ConnectionManager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes mounts the gateway endpoints on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/draft", h.HandleDraftConnection)
	mux.HandleFunc("/ws/stats", h.HandleStats)
}

// HandleDraftConnection upgrades the request to a WebSocket watching the
// draft named by the draft_id query parameter.
func (h *Handler) HandleDraftConnection(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("draft_id")
	if raw == "" {
		http.Error(w, "draft_id query parameter required", http.StatusBadRequest)
		return
	}
	draftID, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "invalid draft_id", http.StatusBadRequest)
		return
	}

	if err := h.manager.UpgradeConnection(w, r, draftID); err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Error().Err(err).Str("draft_id", raw).Msg("websocket upgrade failed")
	}
}

// HandleStats reports active connection counts.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.manager.GetStats()); err != nil {
		log.Error().Err(err).Msg("failed to encode gateway stats")
	}
}
