package config

import (
	"errors"
	"fmt"
	"time"
	"trip-route-service/internal/optimizer"
)

// Server settings read by cmd/server.
type Config struct {
	Port        string
	DBPath      string
	DatabaseURL string // Postgres; when set it replaces the SQLite store
	SeedPath    string
	RedisURL    string

	ResultCacheTTL time.Duration

	// Optimize requests per second across all clients; 0 disables limiting.
	OptimizeRateLimit float64
	OptimizeRateBurst int

	Optimizer optimizer.Config
}

// Load reads the server configuration from the environment.
// godotenv.Load should already have run.
func Load() (Config, error) {
	cfg := Config{
		Port:        Get("PORT", "8080"),
		DBPath:      Get("DB_PATH", "data/app.db"),
		DatabaseURL: Get("DATABASE_URL", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/trips.json"),
		RedisURL:    Get("REDIS_URL", ""),
	}

	var err, e error
	cfg.ResultCacheTTL, e = GetDuration("RESULT_CACHE_TTL", 60*time.Minute, time.Minute)
	err = errors.Join(err, e)
	cfg.OptimizeRateLimit, e = GetFloat("OPTIMIZE_RATE_LIMIT", 5)
	err = errors.Join(err, e)
	cfg.OptimizeRateBurst, e = GetInt("OPTIMIZE_RATE_BURST", 10)
	err = errors.Join(err, e)
	if err != nil {
		return Config{}, err
	}

	if cfg.OptimizeRateLimit < 0 || cfg.OptimizeRateBurst < 0 {
		return Config{}, fmt.Errorf("config: optimize rate limit %v and burst %d must not be negative",
			cfg.OptimizeRateLimit, cfg.OptimizeRateBurst)
	}

	cfg.Optimizer, err = LoadOptimizer(Get("OPTIMIZER_CONFIG", ""))
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}
