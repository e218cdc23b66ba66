/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the pocket ledger server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, then flags)
  2. Initialize logger and SQLite store
  3. Ensure the main pocket exists; optionally seed goals
  4. Create service, API handler and router
  5. Start the accrual sweep and the server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port    HTTP server port (PORT, default: 8080)
  -db      SQLite database path (DB_PATH, default: ledger.db)
           Use ":memory:" for in-memory database
  -seed    JSON file with an array of goal definitions to create at startup

ENVIRONMENT:
  ENV                       production switches to JSON logs
  CURRENCY                  display currency for balances (default: EUR)
  ACCRUAL_MAX_CATCHUP_DAYS  days one accrual run may process (default: 3660)
  ACCRUAL_SWEEP_INTERVAL    background sweep period, 0 disables (default: 0)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the accrual sweep
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

SEE ALSO:
  - api/server.go: Router configuration
  - internal/config/config.go: Environment loading
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/pocket-ledger/api"
	"github.com/warp/pocket-ledger/factory"
	"github.com/warp/pocket-ledger/generic"
	"github.com/warp/pocket-ledger/internal/config"
	"github.com/warp/pocket-ledger/internal/logger"
	"github.com/warp/pocket-ledger/ledger"
	"github.com/warp/pocket-ledger/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Flags
	port := flag.String("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	seedPath := flag.String("seed", "", "JSON file with goal definitions to create at startup")
	flag.Parse()

	logger.Init(cfg.Env)
	defer logger.Sync()
	log := logger.L()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	sim := ledger.NewSimulator(generic.Today, logger.Named("accrual"))
	sim.MaxCatchUpDays = cfg.MaxCatchUpDays
	svc := ledger.NewService(store, sim, logger.Named("ledger"))

	ctx := context.Background()
	if _, err := svc.EnsureMainPocket(ctx, "Main"); err != nil {
		log.Fatal("failed to create main pocket", zap.Error(err))
	}
	if *seedPath != "" {
		if err := seedGoals(ctx, svc, *seedPath, log); err != nil {
			log.Fatal("failed to seed goals", zap.String("path", *seedPath), zap.Error(err))
		}
	}

	handler := api.NewHandler(svc, cfg.Currency, logger.Named("api"))
	router := api.NewRouter(handler, nil)

	scheduler := api.NewAccrualScheduler(svc, cfg.SweepInterval, log)
	scheduler.Start()

	// Create server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server starting", zap.String("addr", server.Addr), zap.String("db", *dbPath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// seedGoals creates the goals defined in path, skipping ids that exist.
func seedGoals(ctx context.Context, svc *ledger.Service, path string, log *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	goals, err := factory.NewGoalFactory().ParseGoals(string(data))
	if err != nil {
		return err
	}

	for _, g := range goals {
		if g.ID != "" {
			if _, err := svc.Goal(ctx, g.ID); err == nil {
				continue
			}
		}
		created, err := svc.CreateGoal(ctx, g)
		if err != nil {
			return fmt.Errorf("create goal %q: %w", g.Name, err)
		}
		log.Info("seeded goal", zap.String("goal_id", string(created.ID)))
	}
	return nil
}
