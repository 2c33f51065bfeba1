package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/addreeh/ph-shopping-list/internal/backup"
	"github.com/addreeh/ph-shopping-list/internal/database"
	"github.com/addreeh/ph-shopping-list/internal/store"
)

func setupBackupHandler(t *testing.T, cfg backup.Config) *BackupHandler {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	records := store.NewBackupStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mgr := backup.NewManager(cfg, db, records, logger)
	return NewBackupHandler(mgr, records, logger)
}

func configuredBackup(t *testing.T) backup.Config {
	t.Helper()
	return backup.Config{
		S3: backup.S3Config{
			Bucket:    "lista-backups",
			AccessKey: "key",
			SecretKey: "secret",
		},
		DBPath:     t.TempDir() + "/lista.db",
		Passphrase: "correcto caballo",
	}
}

func TestBackupStatusDisabled(t *testing.T) {
	h := setupBackupHandler(t, backup.Config{})

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/backups/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Enabled bool `json:"enabled"`
		Status  struct {
			State string `json:"state"`
		} `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Enabled || body.Status.State != "disabled" {
		t.Errorf("body = %+v, want disabled", body)
	}
}

func TestBackupRunUnconfigured(t *testing.T) {
	h := setupBackupHandler(t, backup.Config{})

	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/api/backups/run", nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestBackupRestoreValidation(t *testing.T) {
	h := setupBackupHandler(t, configuredBackup(t))

	req := httptest.NewRequest(http.MethodPost, "/api/backups/abc/restore", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()
	h.Restore(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: status = %d, want 400", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/backups/99/restore", nil)
	req.SetPathValue("id", "99")
	rec = httptest.NewRecorder()
	h.Restore(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}
}

func TestBackupRestoreUnconfigured(t *testing.T) {
	h := setupBackupHandler(t, backup.Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/backups/1/restore", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Restore(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestBackupHistoryEmpty(t *testing.T) {
	h := setupBackupHandler(t, backup.Config{})

	rec := httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodGet, "/api/backups", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Backups []json.RawMessage `json:"backups"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Backups == nil || len(body.Backups) != 0 {
		t.Errorf("backups = %v, want empty array", body.Backups)
	}
}
