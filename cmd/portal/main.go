// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/portal-go/internal/auth"
	"github.com/olegiv/portal-go/internal/config"
	"github.com/olegiv/portal-go/internal/i18n"
	"github.com/olegiv/portal-go/internal/logging"
	"github.com/olegiv/portal-go/internal/middleware"
	"github.com/olegiv/portal-go/internal/scheduler"
	"github.com/olegiv/portal-go/internal/server"
	"github.com/olegiv/portal-go/internal/service"
	"github.com/olegiv/portal-go/internal/session"
	"github.com/olegiv/portal-go/internal/store"
	"github.com/olegiv/portal-go/internal/version"
)

// Public page rate limit per client IP.
const (
	publicRPS   = 10
	publicBurst = 20
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	hashPassword := flag.Bool("hash-password", false, "Read a password from stdin and print its argon2id hash")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Academic Portal\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SESSION_SECRET    Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SERVER_HOST       Listen host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SERVER_PORT       Listen port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_TRUST_PROXY       Read client IPs from X-Forwarded-For (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_LOG_LEVEL         debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_DB_PATH           SQLite database path (default: ./data/portal.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SESSION_STORE     memory|sqlite|redis (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SESSION_LIFETIME  Session lifetime (default: 24h)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_REDIS_URL         Redis URL, required for the redis session store\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_AUTH_MODE         simulated|directory (default: simulated)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_AUTH_DELAY        Simulated login delay (default: 1s)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SEED_EMAIL        Directory account created at startup (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SEED_PASSWORD     Password for the seeded account (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_EVENT_RETENTION   How long audit events are kept (default: 720h)\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Printf("portal %s\n", version.Get())
		os.Exit(0)
	}

	if *hashPassword {
		if err := printPasswordHash(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// printPasswordHash hashes the first line of stdin for use as a users.password_hash value.
func printPasswordHash() error {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("empty password")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, _ = fmt.Println(hash)
	return nil
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if cfg.SeedEnabled() {
		if err := store.Seed(ctx, db, store.SeedAccount{
			Email:    cfg.SeedEmail,
			Password: cfg.SeedPassword,
		}); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	sessionManager, closeSessions, err := session.New(session.Options{
		Backend:  cfg.SessionStore,
		DB:       db,
		RedisURL: cfg.RedisURL,
		Lifetime: cfg.SessionLifetime,
		IsDev:    cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing sessions: %w", err)
	}
	defer func() {
		if err := closeSessions(); err != nil {
			slog.Error("error closing session store", "error", err)
		}
	}()
	slog.Info("session store ready", "backend", cfg.SessionStore, "lifetime", cfg.SessionLifetime)

	var authClient auth.Client
	if cfg.UsesDirectory() {
		authClient = auth.NewDirectoryClient(store.NewAccounts(db), logger)
	} else {
		authClient = auth.NewSimulatedClient(cfg.AuthDelay)
		if !cfg.IsDevelopment() {
			slog.Warn("simulated authentication accepts any credentials", "env", cfg.Env)
		}
	}
	slog.Info("authentication ready", "mode", cfg.AuthMode)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	rateLimiter := middleware.NewGlobalRateLimiter(publicRPS, publicBurst)

	sched := scheduler.New(logger)
	if err := sched.RegisterMaintenance(service.NewEventService(db), cfg.EventRetention, rateLimiter); err != nil {
		return fmt.Errorf("registering maintenance jobs: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	router, err := server.NewRouter(server.Options{
		SessionManager:  sessionManager,
		AuthClient:      authClient,
		DB:              db,
		CSRFKey:         []byte(cfg.SessionSecret),
		IsDev:           cfg.IsDevelopment(),
		Port:            cfg.ServerPort,
		TrustProxy:      cfg.TrustProxy,
		LoginProtection: loginProtection,
		RateLimiter:     rateLimiter,
		Version:         version.Get().Version,
	})
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
