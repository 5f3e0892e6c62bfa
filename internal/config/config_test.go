package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"trip-route-service/internal/optimizer"

	"github.com/stretchr/testify/require"
)

func TestGetHelpers(t *testing.T) {
	t.Setenv("CFG_TEST_STR", " value ")
	t.Setenv("CFG_TEST_INT", "42")
	t.Setenv("CFG_TEST_BAD_INT", "forty")
	t.Setenv("CFG_TEST_FLOAT", "0.25")
	t.Setenv("CFG_TEST_DUR", "1500ms")
	t.Setenv("CFG_TEST_DUR_MS", "250")

	require.Equal(t, "value", Get("CFG_TEST_STR", "x"))
	require.Equal(t, "x", Get("CFG_TEST_MISSING", "x"))

	n, err := GetInt("CFG_TEST_INT", 1)
	require.NoError(t, err)
	require.Equal(t, 42, n)

	n, err = GetInt("CFG_TEST_MISSING", 7)
	require.NoError(t, err)
	require.Equal(t, 7, n)

	_, err = GetInt("CFG_TEST_BAD_INT", 1)
	require.Error(t, err)

	f, err := GetFloat("CFG_TEST_FLOAT", 1)
	require.NoError(t, err)
	require.Equal(t, 0.25, f)

	d, err := GetDuration("CFG_TEST_DUR", time.Second, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1500*time.Millisecond, d)

	d, err = GetDuration("CFG_TEST_DUR_MS", time.Second, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, d)

	d, err = GetDuration("CFG_TEST_DUR_MS", time.Second, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 250*time.Minute, d)

	d, err = GetDuration("CFG_TEST_MISSING", time.Second, time.Minute)
	require.NoError(t, err)
	require.Equal(t, time.Second, d)
}

func TestLoadOptimizerDefaults(t *testing.T) {
	cfg, err := LoadOptimizer("")
	require.NoError(t, err)
	require.Equal(t, optimizer.DefaultConfig(), cfg)
}

func TestLoadOptimizerPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimizer.yaml")
	body := "exact_threshold: 10\nexact_budget_fraction: 0.5\ndefault_time_budget: 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadOptimizer(path)
	require.NoError(t, err)
	require.Equal(t, optimizer.Config{ExactThreshold: 10, ExactBudgetFraction: 0.5, DefaultTimeBudget: 2 * time.Second}, cfg)

	// env beats the file
	t.Setenv("OPTIMIZER_EXACT_THRESHOLD", "8")
	cfg, err = LoadOptimizer(path)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.ExactThreshold)
	require.Equal(t, 0.5, cfg.ExactBudgetFraction)
}

func TestLoadOptimizerPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimizer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exact_threshold: 9\n"), 0o600))

	cfg, err := LoadOptimizer(path)
	require.NoError(t, err)
	require.Equal(t, 9, cfg.ExactThreshold)
	require.Equal(t, optimizer.DefaultConfig().DefaultTimeBudget, cfg.DefaultTimeBudget)
}

func TestLoadOptimizerRejectsInvalid(t *testing.T) {
	t.Setenv("OPTIMIZER_EXACT_FRACTION", "1.5")
	_, err := LoadOptimizer("")
	require.Error(t, err)

	_, err = LoadOptimizer(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RESULT_CACHE_TTL", "5m")
	t.Setenv("OPTIMIZE_RATE_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 5*time.Minute, cfg.ResultCacheTTL)
	require.Equal(t, 3, cfg.OptimizeRateBurst)
	require.Equal(t, optimizer.DefaultConfig(), cfg.Optimizer)

	// bare integers are minutes for the cache TTL
	t.Setenv("RESULT_CACHE_TTL", "60")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, 60*time.Minute, cfg.ResultCacheTTL)

	t.Setenv("OPTIMIZER_TIME_BUDGET", "1500")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, 1500*time.Millisecond, cfg.Optimizer.DefaultTimeBudget)

	t.Setenv("OPTIMIZE_RATE_LIMIT", "-1")
	_, err = Load()
	require.Error(t, err)
}
