package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	"trip-route-service/internal/optimizer"

	"gopkg.in/yaml.v3"
)

// optimizerFile mirrors the YAML optimizer settings file:
//
//	exact_threshold: 13
//	exact_budget_fraction: 0.7
//	default_time_budget: 3s
type optimizerFile struct {
	ExactThreshold      int           `yaml:"exact_threshold"`
	ExactBudgetFraction float64       `yaml:"exact_budget_fraction"`
	DefaultTimeBudget   time.Duration `yaml:"default_time_budget"`
}

// LoadOptimizer builds the solver selection policy.
// Defaults are overridden by the YAML file at path (optional, "" skips it),
// which is in turn overridden by OPTIMIZER_* environment variables.
func LoadOptimizer(path string) (optimizer.Config, error) {
	def := optimizer.DefaultConfig()
	f := optimizerFile{
		ExactThreshold:      def.ExactThreshold,
		ExactBudgetFraction: def.ExactBudgetFraction,
		DefaultTimeBudget:   def.DefaultTimeBudget,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return optimizer.Config{}, fmt.Errorf("load optimizer config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &f); err != nil {
			return optimizer.Config{}, fmt.Errorf("load optimizer config: parse %q: %w", path, err)
		}
	}

	cfg := optimizer.Config{
		ExactThreshold:      f.ExactThreshold,
		ExactBudgetFraction: f.ExactBudgetFraction,
		DefaultTimeBudget:   f.DefaultTimeBudget,
	}

	var err, e error
	cfg.ExactThreshold, e = GetInt("OPTIMIZER_EXACT_THRESHOLD", cfg.ExactThreshold)
	err = errors.Join(err, e)
	cfg.ExactBudgetFraction, e = GetFloat("OPTIMIZER_EXACT_FRACTION", cfg.ExactBudgetFraction)
	err = errors.Join(err, e)
	cfg.DefaultTimeBudget, e = GetDuration("OPTIMIZER_TIME_BUDGET", cfg.DefaultTimeBudget, time.Millisecond)
	err = errors.Join(err, e)
	if err != nil {
		return optimizer.Config{}, fmt.Errorf("load optimizer config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return optimizer.Config{}, fmt.Errorf("load optimizer config: %w", err)
	}

	return cfg, nil
}
