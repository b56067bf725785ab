package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/config"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/health"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/notify"
	repository "github.com/aaravmahajanofficial/qkart-storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/qkart-storefront/internal/services"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/telemetry"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/ui"
	healthgo "github.com/hellofresh/health-go/v5"
)

func main() {
	os.Exit(run())
}

func run() int {

	// Load config
	cfg := config.MustLoad()

	// Logger setup, kept off stdout so it does not mix with the shell
	logOut := os.Stderr
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "can not create log directory: %s\n", err.Error())
			return 1
		}

		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "can not open log file: %s\n", err.Error())
			return 1
		}
		defer file.Close()
		logOut = file
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing setup
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
		}
	}()

	// doctor runs before the session store is opened
	healthHandler, err := health.NewHealthHandler(cfg, repository.NewHTTPClient(cfg))
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		return 1
	}

	if flag.Arg(0) == "doctor" {
		return doctor(ctx, os.Stdout, healthHandler)
	}

	// Backend and session store setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error opening the session store", slog.String("error", err.Error()))
		return 1
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing session store", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Session store closed")
		}
	}()

	if cfg.Metrics.Addr != "" {
		server := startOpsServer(cfg.Metrics.Addr, healthHandler)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
			} else {
				slog.Info("✅ Metrics server shut down gracefully")
			}
		}()
	}

	// one mutex for everything printed to the terminal
	var outMu sync.Mutex
	notifier := notify.NewWriter(os.Stdout, &outMu)

	sessionService := service.NewSessionService(repos.Session)
	catalogService := service.NewCatalogService(repos.Product, notifier, service.NewDebouncer(cfg.Search.Debounce))
	cartService := service.NewCartService(repos.Cart, sessionService, catalogService, notifier)
	userService := service.NewUserService(repos.User, sessionService, cartService, notifier)

	shell := ui.NewShell(os.Stdin, os.Stdout, &outMu, catalogService, cartService, userService, sessionService)

	slog.Info("🚀 Storefront is starting...",
		slog.String("env", cfg.Env),
		slog.String("backend", cfg.Backend.BaseURL),
		slog.String("session_store", cfg.Session.Store),
		slog.String("version", health.Version))

	done := make(chan error, 1)
	go func() { // stdin reads block, so the shell cannot watch ctx on its own
		done <- shell.Run(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			slog.Error("❌ Shell stopped with an error", slog.String("error", err.Error()))
			return 1
		}
	case <-ctx.Done():
		slog.Warn("🛑 Shutdown signal received. Stopping the storefront...")
	}

	return 0
}

// startOpsServer serves /metrics and /healthz in the background.
func startOpsServer(addr string, healthHandler *healthgo.Health) *http.Server {

	routerMux := http.NewServeMux()
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /healthz", healthHandler.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           routerMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("📈 Metrics server is starting...", slog.String("address", addr))

		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start metrics server", slog.String("error", err.Error()))
		}
	}()

	return server
}

// doctor prints the health report and fails unless everything is up.
func doctor(ctx context.Context, out io.Writer, healthHandler *healthgo.Health) int {

	check := healthHandler.Measure(ctx)

	report, err := json.MarshalIndent(check, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "can not encode health report: %s\n", err.Error())
		return 1
	}

	fmt.Fprintln(out, string(report))

	if check.Status != healthgo.StatusOK {
		return 1
	}

	return 0
}
