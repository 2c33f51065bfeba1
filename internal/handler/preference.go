package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/addreeh/ph-shopping-list/internal/auth"
	"github.com/addreeh/ph-shopping-list/internal/store"
)

// PreferenceHandler exposes the per-user key-value store the client uses
// for UI state such as which supermarket groups are expanded.
type PreferenceHandler struct {
	prefs  *store.PreferenceStore
	logger *slog.Logger
}

func NewPreferenceHandler(prefs *store.PreferenceStore, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs, logger: logger}
}

func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	value, err := h.prefs.Get(auth.UserID(r.Context()), key)
	if err != nil {
		h.logger.Error("get preference", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get preference")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

func (h *PreferenceHandler) Set(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.prefs.Set(auth.UserID(r.Context()), key, req.Value); err != nil {
		h.logger.Error("set preference", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to set preference")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

func (h *PreferenceHandler) Remove(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := h.prefs.Remove(auth.UserID(r.Context()), key); err != nil {
		h.logger.Error("remove preference", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to remove preference")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
