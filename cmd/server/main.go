package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"trip-route-service/internal/adapters/cache"
	"trip-route-service/internal/adapters/repositories"
	"trip-route-service/internal/api"
	"trip-route-service/internal/config"
	"trip-route-service/internal/optimizer"
	"trip-route-service/internal/platform/db"
	"trip-route-service/internal/ports"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config) error {
	ctx := context.Background()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.db.Close()

	resultCache := st.cache
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		resultCache = cache.NewRedisResultCache(rdb, cfg.ResultCacheTTL)
		log.Printf("result cache backend=redis ttl=%s", cfg.ResultCacheTTL)
	}

	opt, err := optimizer.New(cfg.Optimizer)
	if err != nil {
		return err
	}
	log.Printf(
		"optimizer exact_threshold=%d exact_fraction=%.2f default_budget=%s",
		cfg.Optimizer.ExactThreshold, cfg.Optimizer.ExactBudgetFraction, cfg.Optimizer.DefaultTimeBudget,
	)

	var limiter *rate.Limiter
	if cfg.OptimizeRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.OptimizeRateLimit), max(cfg.OptimizeRateBurst, 1))
	}

	router := api.NewRouter(api.Deps{
		Repo:            st.repo,
		Cache:           resultCache,
		Optimizer:       opt,
		OptimizeLimiter: limiter,
		HealthChecks: map[string]func(context.Context) error{
			"db": st.db.PingContext,
		},
	})

	// WriteTimeout leaves room for the largest accepted time budget.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      75 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		log.Printf("Shutting down signal=%s", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: graceful shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

type store struct {
	db    *sql.DB
	repo  ports.TripRepository
	cache ports.ResultCache
}

// Postgres when DATABASE_URL is set (schema managed by cmd/dbtool),
// otherwise a local SQLite file initialized and seeded on startup.
func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	if cfg.DatabaseURL != "" {
		pg, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Println("store backend=postgres")
		return &store{
			db:    pg,
			repo:  repositories.NewSQLTripRepository(pg),
			cache: cache.NewSQLResultCache(pg, cfg.ResultCacheTTL),
		}, nil
	}

	lite, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(lite, cfg.SeedPath); err != nil {
		_ = lite.Close()
		return nil, err
	}
	log.Printf("store backend=sqlite path=%s", cfg.DBPath)

	return &store{
		db:    lite,
		repo:  repositories.NewSqliteTripRepository(lite),
		cache: cache.NewSqliteResultCache(lite, cfg.ResultCacheTTL),
	}, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
