package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	sqliteadapter "github.com/nish-jain4/qr-code-generator/internal/adapter/driven/sqlite"
	httphandler "github.com/nish-jain4/qr-code-generator/internal/adapter/driving/http"
	webhandler "github.com/nish-jain4/qr-code-generator/internal/adapter/driving/web"
	"github.com/nish-jain4/qr-code-generator/internal/application"
	"github.com/nish-jain4/qr-code-generator/internal/config"
	"github.com/nish-jain4/qr-code-generator/internal/keyring"
	"github.com/nish-jain4/qr-code-generator/internal/token"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"key_path", cfg.KeyPath,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Load or create the encryption key. Losing this file makes every
	// issued credential unreadable, so failure here is fatal.
	key, err := keyring.LoadOrCreate(cfg.KeyPath)
	if err != nil {
		return err
	}
	slog.Info("encryption key ready", "path", cfg.KeyPath)

	// 4. Open database (dual reader/writer with WAL mode) and migrate.
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters and services.
	userStore := sqliteadapter.NewUserRepo(db)

	codec, err := token.New(key)
	if err != nil {
		return err
	}

	regSvc := application.NewRegistrationService(userStore, codec, slog.Default())
	resSvc := application.NewResolutionService(userStore, codec, slog.Default())

	authorizer := application.NewSharedSecretAuthorizer(cfg.AdminPassword)
	sessionKey := []byte(cfg.SessionKey)
	if len(sessionKey) == 0 {
		sessionKey = make([]byte, 32)
		if _, err := rand.Read(sessionKey); err != nil {
			return err
		}
		slog.Info("using random session key, admin sessions will not survive a restart")
	}
	sessions := webhandler.NewSessionManager(sessionKey, authorizer)

	// 6. Create handlers and register routes.
	mux := http.NewServeMux()

	apiHandler := httphandler.NewHandler(userStore, regSvc, resSvc, sessions, cfg.MaxUploadBytes, slog.Default())
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(userStore, regSvc, resSvc, codec, sessions, cfg.MaxUploadBytes, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 7. Wait for shutdown signal, then drain.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("shutdown complete")
	return nil
}
