// Package main is the entry point for the travel companion API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/app"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/config"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/handler"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/middleware"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/service"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/weather"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Store ------------------------------------------------------------
	kv, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("store ready", "driver", cfg.StoreDriver)

	// --- Controllers ------------------------------------------------------
	hasher, err := service.NewPasswordHasher(cfg.PasswordHasher)
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	weatherClient := weather.NewClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey, weather.WithLogger(logger))

	a := app.New(app.Deps{
		KV:      kv,
		Timeout: cfg.StoreTimeout,
		Hasher:  hasher,
		Weather: weatherClient,
		Logger:  logger,
	})
	defer a.Close()

	// A failed load leaves that projection empty but the server still starts;
	// controllers report store failures per request.
	if err := a.Start(context.Background()); err != nil {
		slog.Warn("startup load incomplete", "error", err)
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body cap.
	// RealIP must precede the auth rate limiter so clients are keyed by their own address.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	var authLimit func(http.Handler) http.Handler
	if cfg.AuthRateLimitRPM > 0 {
		limiter := middleware.NewLimiterStore(cfg.AuthRateLimitRPM, cfg.AuthRateLimitRPM, 5*time.Minute)
		defer limiter.Stop()
		authLimit = middleware.NewRateLimitHandler(limiter)
	}

	srvHandlers := handler.NewServer(handler.Services{
		Session:     a.Session,
		Trips:       a.Trips,
		Marketplace: a.Marketplace,
		Feed:        a.Feed,
		Events:      a.Events,
		Feedback:    a.Feedback,
		Weather:     a.Weather,
	}, logger)
	r.Mount("/", srvHandlers.Routes(authLimit))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
		slog.Info("shutting down server")
	case err := <-serveErr:
		// Return through the deferred closers instead of os.Exit.
		slog.Error("server error", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		return
	}
	slog.Info("server stopped")
}
