package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/addreeh/ph-shopping-list/internal/backup"
	"github.com/addreeh/ph-shopping-list/internal/model"
	"github.com/addreeh/ph-shopping-list/internal/store"
)

// BackupHandler exposes the backup manager: status, history, on-demand
// runs, and restores.
type BackupHandler struct {
	mgr     *backup.Manager
	records *store.BackupStore
	logger  *slog.Logger
}

func NewBackupHandler(mgr *backup.Manager, records *store.BackupStore, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{mgr: mgr, records: records, logger: logger}
}

// Status handles GET /api/backups/status.
func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"enabled": h.mgr.Enabled(),
		"status":  h.mgr.Status(),
	})
}

// History handles GET /api/backups.
func (h *BackupHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.List(20)
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load backups")
		return
	}
	if records == nil {
		records = []model.BackupRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"backups": records})
}

// Run handles POST /api/backups/run.
func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !h.mgr.Enabled() {
		writeError(w, http.StatusConflict, "backup not configured")
		return
	}

	id, err := h.mgr.RunNow(r.Context())
	if err != nil {
		h.logger.Error("run backup", "error", err)
		writeError(w, http.StatusInternalServerError, "backup failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"backup_id": id})
}

// Restore handles POST /api/backups/{id}/restore. The response is sent
// before the restore starts: on success the manager replaces the database
// file and exits the process, so there is no later chance to answer.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid backup id")
		return
	}
	if !h.mgr.Enabled() {
		writeError(w, http.StatusConflict, "backup not configured")
		return
	}

	record, err := h.records.GetByID(id)
	if err != nil {
		h.logger.Error("get backup", "backup_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load backup")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "backup not found")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "restoring"})

	go func() {
		// Give the response a moment to flush before the process exits.
		time.Sleep(time.Second)
		if err := h.mgr.Restore(context.Background(), id); err != nil {
			h.logger.Error("restore backup", "backup_id", id, "error", err)
		}
	}()
}
