package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/addreeh/ph-shopping-list/internal/auth"
	"github.com/addreeh/ph-shopping-list/internal/model"
	"github.com/addreeh/ph-shopping-list/internal/template"
)

type TemplateHandler struct {
	svc    *template.Service
	logger *slog.Logger
}

func NewTemplateHandler(svc *template.Service, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{svc: svc, logger: logger}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.List()
	if err != nil {
		h.logger.Error("list templates", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list templates")
		return
	}
	if templates == nil {
		templates = []template.Template{}
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string            `json:"name"`
		Items []model.ItemDraft `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user := auth.CurrentUser(r.Context())
	tmpl, err := h.svc.Create(user, req.Name, req.Items)
	if err != nil {
		if errors.Is(err, template.ErrEmptyName) || errors.Is(err, template.ErrNoItems) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("create template", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create template")
		return
	}

	writeJSON(w, http.StatusCreated, tmpl)
}

// Use instantiates the template as the new active list.
func (h *TemplateHandler) Use(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	user := auth.CurrentUser(r.Context())
	l, err := h.svc.Use(user, id)
	if err != nil {
		if errors.Is(err, template.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("use template", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to use template")
		return
	}

	writeJSON(w, http.StatusCreated, l)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(id); err != nil {
		if errors.Is(err, template.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("delete template", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete template")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
