package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/danielhkuo/budget-intake/auth"
	"github.com/danielhkuo/budget-intake/cliparse"
	"github.com/danielhkuo/budget-intake/db"
	"github.com/danielhkuo/budget-intake/middleware"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/notify"
	"github.com/danielhkuo/budget-intake/router"
	"github.com/danielhkuo/budget-intake/service"
	"github.com/danielhkuo/budget-intake/store/postgres"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	policy := auth.DefaultPolicy()
	if cfg.AccessPolicyFile != "" {
		policy, err = auth.LoadPolicy(cfg.AccessPolicyFile)
		if err != nil {
			slog.Error("access policy load failed", "path", cfg.AccessPolicyFile, "error", err)
			os.Exit(1)
		}
		slog.Info("Access policy loaded", "path", cfg.AccessPolicyFile)
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.PingContext(ctx); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Apply migrations
	if err := db.CreateSchema(ctx, dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	st := postgres.New(dbConn)
	hub := notify.NewHub(st)
	svc := service.New(st, hub)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		admin, err := svc.Users.EnsureUser(ctx, models.CreateUserRequest{
			Name:     "Administrator",
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
			Role:     models.RoleAdmin,
		})
		if err != nil {
			slog.Error("admin bootstrap failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Admin account ready", "user_id", admin.ID, "email", admin.Email)
	}

	stop := make(chan struct{})
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).TrustForwarded(cfg.TrustProxy)
	limiter.StartCleanup(time.Minute, stop)

	// Create server
	server := http.Server{
		Handler:           router.NewRouter(svc, hub, cfg, policy, limiter),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		close(stop)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed, closing", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
