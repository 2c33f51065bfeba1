package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/addreeh/ph-shopping-list/internal/backup"
	"github.com/addreeh/ph-shopping-list/internal/database"
	"github.com/addreeh/ph-shopping-list/internal/logging"
	"github.com/addreeh/ph-shopping-list/internal/push"
	"github.com/addreeh/ph-shopping-list/internal/server"
)

func main() {
	genVAPID := flag.Bool("generate-vapid-keys", false, "print a new VAPID key pair and exit")
	flag.Parse()

	if *genVAPID {
		pub, priv, err := push.GenerateVAPIDKeys()
		if err != nil {
			log.Fatalf("generate VAPID keys: %v", err)
		}
		fmt.Printf("LISTA_VAPID_PUBLIC_KEY=%s\nLISTA_VAPID_PRIVATE_KEY=%s\n", pub, priv)
		return
	}

	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	port := envOr("LISTA_PORT", "8080")
	dbPath := envOr("LISTA_DB_PATH", "lista.db")

	logger := logging.Setup(os.Getenv("LISTA_LOG_LEVEL"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	cfg := server.Config{
		SecureCookies:   os.Getenv("LISTA_SECURE_COOKIES") == "true",
		VAPIDPublicKey:  os.Getenv("LISTA_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("LISTA_VAPID_PRIVATE_KEY"),
		Backup: backup.Config{
			S3: backup.S3Config{
				Endpoint:  os.Getenv("LISTA_S3_ENDPOINT"),
				Bucket:    os.Getenv("LISTA_S3_BUCKET"),
				Region:    envOr("LISTA_S3_REGION", "auto"),
				AccessKey: os.Getenv("LISTA_S3_ACCESS_KEY"),
				SecretKey: os.Getenv("LISTA_S3_SECRET_KEY"),
			},
			DBPath:        dbPath,
			Passphrase:    os.Getenv("LISTA_BACKUP_PASSPHRASE"),
			ScheduleHour:  envInt("LISTA_BACKUP_HOUR", 3),
			RetentionDays: envInt("LISTA_BACKUP_RETENTION_DAYS", 30),
		},
	}

	srv := server.New(db, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if mgr := srv.BackupManager(); mgr.Enabled() {
		mgr.Start(ctx)
		defer mgr.Stop()
		logger.Info("backup manager started")
	}

	// Hourly housekeeping: expired sessions and stale rate limit entries.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup", "error", err)
				} else if n > 0 {
					logger.Info("session cleanup", "deleted", n)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Lista running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
