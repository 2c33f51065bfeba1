// Package server wires the stores, services, and handlers together and
// builds the HTTP router.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/addreeh/ph-shopping-list/internal/auth"
	"github.com/addreeh/ph-shopping-list/internal/backup"
	"github.com/addreeh/ph-shopping-list/internal/handler"
	"github.com/addreeh/ph-shopping-list/internal/list"
	"github.com/addreeh/ph-shopping-list/internal/middleware"
	"github.com/addreeh/ph-shopping-list/internal/notify"
	"github.com/addreeh/ph-shopping-list/internal/push"
	"github.com/addreeh/ph-shopping-list/internal/store"
	"github.com/addreeh/ph-shopping-list/internal/template"
	ws "github.com/addreeh/ph-shopping-list/internal/websocket"
)

// Config holds server-level configuration.
type Config struct {
	SecureCookies   bool
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Backup          backup.Config
}

type Server struct {
	db  *sql.DB
	hub *ws.Hub

	authH   *handler.AuthHandler
	listH   *handler.ListHandler
	tmplH   *handler.TemplateHandler
	prefH   *handler.PreferenceHandler
	pushH   *handler.PushHandler
	backupH *handler.BackupHandler

	sessionStore  *store.SessionStore
	userStore     *store.UserStore
	backupManager *backup.Manager
	rateLimiter   *middleware.RateLimiter
	logger        *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	sectionStore := store.NewSectionStore(db)
	listStore := store.NewListStore(db)
	frequentStore := store.NewFrequentItemStore(db)
	prefStore := store.NewPreferenceStore(db)
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)

	var pushSvc *push.Service
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	}

	notifier := notify.NewService(hub, pushSvc, pushStore, logger.With("component", "notify"))

	authSvc := auth.NewService(userStore, sessionStore, logger.With("component", "auth"))
	listSvc := list.NewService(listStore, frequentStore, notifier, logger.With("component", "list"))
	tmplSvc := template.NewService(listStore, logger.With("component", "template"))

	backupMgr := backup.NewManager(cfg.Backup, db, backupStore, logger.With("component", "backup"))

	return &Server{
		db:            db,
		hub:           hub,
		authH:         handler.NewAuthHandler(authSvc, cfg.SecureCookies, logger.With("component", "auth_handler")),
		listH:         handler.NewListHandler(listSvc, sectionStore, frequentStore, logger.With("component", "list_handler")),
		tmplH:         handler.NewTemplateHandler(tmplSvc, logger.With("component", "template_handler")),
		prefH:         handler.NewPreferenceHandler(prefStore, logger.With("component", "preference_handler")),
		pushH:         handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler")),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, logger.With("component", "backup_handler")),
		sessionStore:  sessionStore,
		userStore:     userStore,
		backupManager: backupMgr,
		rateLimiter:   middleware.NewRateLimiter(),
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes. Login and registration are rate limited by client IP.
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("GET /api/auth/me", s.authH.Me)
	outerMux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Everything else requires a valid session.
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Active list
	mux.HandleFunc("GET /api/list", s.listH.GetActive)
	mux.HandleFunc("POST /api/list/items", s.listH.AddItem)
	mux.HandleFunc("POST /api/list/items/{id}/purchase", s.listH.TogglePurchased)
	mux.HandleFunc("DELETE /api/list/items/{id}", s.listH.DeleteItem)
	mux.HandleFunc("POST /api/list/reset", s.listH.Reset)
	mux.HandleFunc("POST /api/list/save-template", s.listH.SaveAsTemplate)

	// Catalogue and suggestions
	mux.HandleFunc("GET /api/sections", s.listH.Sections)
	mux.HandleFunc("GET /api/sections/suggest", s.listH.SuggestSection)
	mux.HandleFunc("GET /api/frequent-items", s.listH.FrequentItems)

	// Templates
	mux.HandleFunc("GET /api/templates", s.tmplH.List)
	mux.HandleFunc("POST /api/templates", s.tmplH.Create)
	mux.HandleFunc("POST /api/templates/{id}/use", s.tmplH.Use)
	mux.HandleFunc("DELETE /api/templates/{id}", s.tmplH.Delete)

	// Per-user UI preferences
	mux.HandleFunc("GET /api/preferences/{key}", s.prefH.Get)
	mux.HandleFunc("PUT /api/preferences/{key}", s.prefH.Set)
	mux.HandleFunc("DELETE /api/preferences/{key}", s.prefH.Remove)

	// Web Push
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)

	// Backups
	mux.HandleFunc("GET /api/backups", s.backupH.History)
	mux.HandleFunc("GET /api/backups/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backups/run", s.backupH.Run)
	mux.HandleFunc("POST /api/backups/{id}/restore", s.backupH.Restore)

	// WebSocket notification stream
	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))
}
