package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "walloc/internal/inventory"
)

func TestLoadWithoutFile(t *testing.T) {
    t.Setenv("CONFIG_PATH", "")
    cfg, err := Load()
    if err != nil {
        t.Fatalf("Load: %v", err)
    }
    if cfg.Tolerance != 1e-6 || cfg.TMSRatePer100Mi != 0.12 {
        t.Fatalf("defaults: %+v", cfg)
    }
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
    path := filepath.Join(t.TempDir(), "walloc.yaml")
    body := "epsilon: 0.5\ntime_budget_ms: 2000\nnegative_inventory: clamp\n"
    if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
        t.Fatal(err)
    }
    t.Setenv("CONFIG_PATH", path)

    cfg, err := Load()
    if err != nil {
        t.Fatalf("Load: %v", err)
    }
    if cfg.Epsilon != 0.5 {
        t.Fatalf("epsilon: %v", cfg.Epsilon)
    }
    if cfg.TimeBudget() != 2*time.Second {
        t.Fatalf("time budget: %v", cfg.TimeBudget())
    }
    // Untouched keys keep their defaults.
    if cfg.Tolerance != 1e-6 {
        t.Fatalf("tolerance: %v", cfg.Tolerance)
    }
    p, err := cfg.Policy()
    if err != nil || p != inventory.PolicyClamp {
        t.Fatalf("policy: %v %v", p, err)
    }
}

func TestLoadRejectsBadPolicy(t *testing.T) {
    path := filepath.Join(t.TempDir(), "walloc.yaml")
    if err := os.WriteFile(path, []byte("negative_inventory: explode\n"), 0o644); err != nil {
        t.Fatal(err)
    }
    t.Setenv("CONFIG_PATH", path)
    if _, err := Load(); err == nil {
        t.Fatal("want error for unknown policy")
    }
}
