package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/addreeh/ph-shopping-list/internal/auth"
	"github.com/addreeh/ph-shopping-list/internal/push"
	"github.com/addreeh/ph-shopping-list/internal/store"
)

type PushHandler struct {
	subs   *store.PushStore
	pusher *push.Service // nil when push is not configured
	logger *slog.Logger
}

func NewPushHandler(subs *store.PushStore, pusher *push.Service, logger *slog.Logger) *PushHandler {
	return &PushHandler{subs: subs, pusher: pusher, logger: logger}
}

// VAPIDKey returns the public key the browser needs to subscribe. 404 when
// push is not configured; the client then skips the permission prompt.
func (h *PushHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	if h.pusher == nil {
		writeError(w, http.StatusNotFound, "push not configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"public_key": h.pusher.VAPIDPublicKey()})
}

// Subscribe registers the browser's push subscription for the current user.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Endpoint string `json:"endpoint"`
		Keys     struct {
			P256dh string `json:"p256dh"`
			Auth   string `json:"auth"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Endpoint = strings.TrimSpace(req.Endpoint)
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		writeError(w, http.StatusBadRequest, "endpoint and keys are required")
		return
	}

	sub, err := h.subs.Create(auth.UserID(r.Context()), req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		h.logger.Error("create push subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

// Unsubscribe removes the subscription matching the given endpoint.
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	subs, err := h.subs.ListAll()
	if err != nil {
		h.logger.Error("list push subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to unsubscribe")
		return
	}
	for _, sub := range subs {
		if sub.Endpoint == req.Endpoint {
			if err := h.subs.Delete(sub.ID); err != nil {
				h.logger.Error("delete push subscription", "id", sub.ID, "error", err)
				writeError(w, http.StatusInternalServerError, "failed to unsubscribe")
				return
			}
			break
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
