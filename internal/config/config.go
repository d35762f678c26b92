package config

import (
    "fmt"
    "os"
    "time"

    yaml "gopkg.in/yaml.v3"

    "walloc/internal/inventory"
)

// Config carries the solver and projection knobs. Env vars pick the store
// and broker; the YAML file tunes the planning math.
type Config struct {
    Tolerance          float64 `yaml:"tolerance"`            // simplex optimality tolerance
    Epsilon            float64 `yaml:"epsilon"`              // allocation noise threshold, units
    TimeBudgetMs       int     `yaml:"time_budget_ms"`       // per-solve wall clock budget, 0 = none
    MarketRatePer100Mi float64 `yaml:"market_rate_per100mi"` // flat $/unit/100mi fallback
    TMSRatePer100Mi    float64 `yaml:"tms_rate_per100mi"`
    NegativeInventory  string  `yaml:"negative_inventory"` // warn, fail or clamp
}

func Default() Config {
    return Config{
        Tolerance:          1e-6,
        Epsilon:            0.01,
        MarketRatePer100Mi: 0.18,
        TMSRatePer100Mi:    0.12,
        NegativeInventory:  "warn",
    }
}

// Load reads CONFIG_PATH when set, layering the file over the defaults.
func Load() (Config, error) {
    cfg := Default()
    path := os.Getenv("CONFIG_PATH")
    if path == "" {
        return cfg, nil
    }
    data, err := os.ReadFile(path)
    if err != nil {
        return cfg, fmt.Errorf("read config: %w", err)
    }
    if err := yaml.Unmarshal(data, &cfg); err != nil {
        return cfg, fmt.Errorf("parse config: %w", err)
    }
    if _, err := cfg.Policy(); err != nil {
        return cfg, err
    }
    return cfg, nil
}

func (c Config) Policy() (inventory.Policy, error) {
    switch c.NegativeInventory {
    case "", "warn":
        return inventory.PolicyWarn, nil
    case "fail":
        return inventory.PolicyFail, nil
    case "clamp":
        return inventory.PolicyClamp, nil
    }
    return 0, fmt.Errorf("negative_inventory must be warn, fail or clamp, got %q", c.NegativeInventory)
}

func (c Config) TimeBudget() time.Duration {
    return time.Duration(c.TimeBudgetMs) * time.Millisecond
}
