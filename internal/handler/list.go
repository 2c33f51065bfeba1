package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/addreeh/ph-shopping-list/internal/auth"
	"github.com/addreeh/ph-shopping-list/internal/list"
	"github.com/addreeh/ph-shopping-list/internal/model"
	"github.com/addreeh/ph-shopping-list/internal/store"
)

type ListHandler struct {
	lists    *list.Service
	sections *store.SectionStore
	frequent *store.FrequentItemStore
	logger   *slog.Logger
}

func NewListHandler(lists *list.Service, sections *store.SectionStore, frequent *store.FrequentItemStore, logger *slog.Logger) *ListHandler {
	return &ListHandler{lists: lists, sections: sections, frequent: frequent, logger: logger}
}

// open resolves the active list (creating one when missing) and loads its
// items for the requesting user.
func (h *ListHandler) open(r *http.Request) (*list.Mutator, error) {
	user := auth.CurrentUser(r.Context())
	l, err := h.lists.ActiveList(user.ID)
	if err != nil {
		return nil, err
	}
	return h.lists.Open(l, user)
}

type listResponse struct {
	List      *model.ShoppingList     `json:"list"`
	Groups    []list.SupermarketGroup `json:"groups"`
	Purchased int                     `json:"purchased"`
	Total     int                     `json:"total"`
}

func (h *ListHandler) respond(w http.ResponseWriter, status int, m *list.Mutator) {
	purchased, total := m.Mirror().Progress()
	groups := m.Mirror().Grouped()
	if groups == nil {
		groups = []list.SupermarketGroup{}
	}
	writeJSON(w, status, listResponse{
		List:      m.List(),
		Groups:    groups,
		Purchased: purchased,
		Total:     total,
	})
}

// GetActive returns the active list grouped by supermarket and section.
func (h *ListHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	m, err := h.open(r)
	if err != nil {
		h.logger.Error("load active list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load list")
		return
	}
	h.respond(w, http.StatusOK, m)
}

// AddItem adds one item to the active list and returns the updated view.
func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var draft model.ItemDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	m, err := h.open(r)
	if err != nil {
		h.logger.Error("load active list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load list")
		return
	}

	item, err := m.AddItem(r.Context(), draft)
	if err != nil {
		if errors.Is(err, list.ErrEmptyName) || errors.Is(err, list.ErrInvalidUnit) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("add item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// TogglePurchased flips an item's purchase state. Toggling an item another
// device already deleted answers 404; the client drops it from view.
func (h *ListHandler) TogglePurchased(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Purchased bool `json:"purchased"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	m, err := h.open(r)
	if err != nil {
		h.logger.Error("load active list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load list")
		return
	}

	item, err := m.TogglePurchased(r.Context(), id, req.Purchased)
	if err != nil {
		h.logger.Error("toggle purchased", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// DeleteItem removes an item. Deleting an id that is already gone still
// answers 204.
func (h *ListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	m, err := h.open(r)
	if err != nil {
		h.logger.Error("load active list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load list")
		return
	}

	if err := m.DeleteItem(id); err != nil {
		h.logger.Error("delete item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reset clears purchase state on every item of the active list.
func (h *ListHandler) Reset(w http.ResponseWriter, r *http.Request) {
	m, err := h.open(r)
	if err != nil {
		h.logger.Error("load active list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load list")
		return
	}

	count, err := m.Reset()
	if err != nil {
		h.logger.Error("reset list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset list")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"reset": count})
}

// SaveAsTemplate captures the active list's items into a new template.
func (h *ListHandler) SaveAsTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	m, err := h.open(r)
	if err != nil {
		h.logger.Error("load active list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load list")
		return
	}

	tmpl, err := m.SaveAsTemplate(req.Name)
	if err != nil {
		if errors.Is(err, list.ErrEmptyList) || errors.Is(err, list.ErrEmptyTemplateName) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("save as template", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save template")
		return
	}

	writeJSON(w, http.StatusCreated, tmpl)
}

// Sections returns the fixed supermarket section catalogue.
func (h *ListHandler) Sections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.sections.List()
	if err != nil {
		h.logger.Error("list sections", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list sections")
		return
	}
	if sections == nil {
		sections = []model.Section{}
	}
	writeJSON(w, http.StatusOK, sections)
}

// SuggestSection guesses a section from the item name the user is typing.
// An empty result means no guess; the client leaves the picker untouched.
func (h *ListHandler) SuggestSection(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	suggestion := list.SuggestSection(name)
	if suggestion == "" {
		writeJSON(w, http.StatusOK, map[string]any{"section": nil})
		return
	}

	sections, err := h.sections.List()
	if err != nil {
		h.logger.Error("list sections", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to suggest section")
		return
	}
	for _, sec := range sections {
		if sec.Name == suggestion {
			writeJSON(w, http.StatusOK, map[string]any{"section": sec})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"section": nil})
}

// FrequentItems returns the top suggestions ranked by usage.
func (h *ListHandler) FrequentItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.frequent.ListTop(20)
	if err != nil {
		h.logger.Error("list frequent items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list frequent items")
		return
	}
	if items == nil {
		items = []model.FrequentItem{}
	}
	writeJSON(w, http.StatusOK, items)
}
