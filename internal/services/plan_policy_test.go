package services

import (
  "os"
  "path/filepath"
  "testing"
  "time"
)

func TestLoadPlanPolicyDefaults(t *testing.T) {
  t.Setenv("RECOMMENDATION_CONFIG_PATH", "")
  policy, err := LoadPlanPolicy(testLogger(t))
  if err != nil {
    t.Fatalf("load: %v", err)
  }
  if policy.FreshnessDays != 7 {
    t.Fatalf("expected 7 freshness days, got %d", policy.FreshnessDays)
  }
  if len(policy.TimeSlots) != 9 || policy.TimeSlots[0] != "6:00 AM" {
    t.Fatalf("unexpected time slots %v", policy.TimeSlots)
  }
  if len(policy.Days) != 7 || policy.Days[0] != "Monday" {
    t.Fatalf("unexpected days %v", policy.Days)
  }
  if policy.Window() != 7*24*time.Hour {
    t.Fatalf("unexpected window %v", policy.Window())
  }
}

func TestLoadPlanPolicyOverlay(t *testing.T) {
  path := filepath.Join(t.TempDir(), "policy.yaml")
  content := "freshness_days: 14\ntime_slots:\n  - \"9:00 AM\"\n  - \"4:00 PM\"\n"
  if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
    t.Fatalf("write policy: %v", err)
  }
  t.Setenv("RECOMMENDATION_CONFIG_PATH", path)

  policy, err := LoadPlanPolicy(testLogger(t))
  if err != nil {
    t.Fatalf("load: %v", err)
  }
  if policy.FreshnessDays != 14 {
    t.Fatalf("expected overlay freshness 14, got %d", policy.FreshnessDays)
  }
  if len(policy.TimeSlots) != 2 || policy.TimeSlots[1] != "4:00 PM" {
    t.Fatalf("unexpected time slots %v", policy.TimeSlots)
  }
  // Days were not overridden and keep their defaults.
  if len(policy.Days) != 7 {
    t.Fatalf("expected default days, got %v", policy.Days)
  }
}

func TestLoadPlanPolicyMissingFileFallsBack(t *testing.T) {
  t.Setenv("RECOMMENDATION_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
  policy, err := LoadPlanPolicy(testLogger(t))
  if err == nil {
    t.Fatalf("expected error for missing file")
  }
  if policy.FreshnessDays != 7 {
    t.Fatalf("expected defaults on error, got %d", policy.FreshnessDays)
  }
}
