package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/fitcoach/internal/auth"
	"github.com/dukerupert/fitcoach/internal/coach"
	"github.com/dukerupert/fitcoach/internal/config"
	"github.com/dukerupert/fitcoach/internal/database"
	"github.com/dukerupert/fitcoach/internal/gemini"
	"github.com/dukerupert/fitcoach/internal/logging"
	"github.com/dukerupert/fitcoach/internal/server"
	"github.com/dukerupert/fitcoach/internal/store"
	"github.com/dukerupert/fitcoach/internal/store/mongostore"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, closeStore, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens, err := auth.NewTokenService(cfg.JWTSecret, auth.SessionTTL)
	if err != nil {
		return err
	}
	deps.Tokens = tokens
	deps.CORSOrigins = cfg.CORSOrigins
	deps.TrustProxyHeaders = cfg.TrustProxyHeaders

	policy, err := coach.ParsePolicy(cfg.AI.ParsePolicy)
	if err != nil {
		return err
	}
	deps.CoachOpts = coach.Options{
		Policy:     policy,
		Timeout:    cfg.AI.Timeout,
		MaxRetries: cfg.AI.MaxRetries,
	}

	if cfg.AI.Enabled() {
		llm, err := gemini.New(ctx, gemini.Config{
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			BaseURL: cfg.AI.BaseURL,
		})
		if err != nil {
			return err
		}
		deps.LLM = llm
	} else {
		slog.Warn("GEMINI_API_KEY not set, AI recommendations disabled")
	}

	srv := server.New(deps, logger)

	aiBudget := requestBudget(cfg.AI)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      aiBudget,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := srv.RateLimiter().Cleanup(); n > 0 {
					slog.Info("cleaned up rate limit entries", "count", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", httpServer.Addr, "env", cfg.Env, "ai", cfg.AI.Enabled())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	// Drain for as long as a recommendation may run.
	slog.Info("shutting down", "drain", aiBudget)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), aiBudget)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// requestBudget bounds a single response: every AI attempt plus slack for
// retry pauses and the rest of the handler. It is both the write timeout and
// the shutdown drain.
func requestBudget(ai config.AIConfig) time.Duration {
	return ai.Timeout*time.Duration(ai.MaxRetries+1) + 10*time.Second
}

// openStores picks the SQLite or MongoDB backend from DATABASE_URL.
func openStores(ctx context.Context, cfg config.Config) (server.Deps, func(), error) {
	if cfg.IsMongo() {
		mdb, err := mongostore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return server.Deps{}, nil, err
		}
		slog.Info("connected to MongoDB")
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mdb.Close(ctx); err != nil {
				slog.Error("close mongo", "error", err)
			}
		}
		return server.Deps{Users: mdb.Users(), Workouts: mdb.Workouts()}, closeFn, nil
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return server.Deps{}, nil, fmt.Errorf("open database: %w", err)
	}
	slog.Info("opened SQLite database", "path", cfg.DatabaseURL)
	closeFn := func() {
		if err := db.Close(); err != nil {
			slog.Error("close database", "error", err)
		}
	}
	return server.Deps{Users: store.NewUserStore(db), Workouts: store.NewWorkoutStore(db)}, closeFn, nil
}
