package services

import (
  "fmt"
  "os"
  "time"

  "gopkg.in/yaml.v3"

  "github.com/stepwise-learn/stepwise-backend/internal/logger"
)

// PlanPolicy captures the tunable parts of the study plan contract: how long
// a plan stays fresh and the shape of the weekly timetable.
type PlanPolicy struct {
  FreshnessDays int      `yaml:"freshness_days"`
  TimeSlots     []string `yaml:"time_slots"`
  Days          []string `yaml:"days"`
}

func DefaultPlanPolicy() PlanPolicy {
  return PlanPolicy{
    FreshnessDays: 7,
    TimeSlots: []string{
      "6:00 AM", "7:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
      "3:00 PM", "6:00 PM", "7:00 PM", "8:00 PM",
    },
    Days: []string{
      "Monday", "Tuesday", "Wednesday", "Thursday",
      "Friday", "Saturday", "Sunday",
    },
  }
}

// LoadPlanPolicy returns the defaults, overlaid with the YAML file named by
// RECOMMENDATION_CONFIG_PATH when set.
func LoadPlanPolicy(log *logger.Logger) (PlanPolicy, error) {
  policy := DefaultPlanPolicy()

  path := os.Getenv("RECOMMENDATION_CONFIG_PATH")
  if path == "" {
    return policy, nil
  }

  raw, err := os.ReadFile(path)
  if err != nil {
    return policy, fmt.Errorf("read plan policy %s: %w", path, err)
  }

  var overlay PlanPolicy
  if err := yaml.Unmarshal(raw, &overlay); err != nil {
    return policy, fmt.Errorf("parse plan policy %s: %w", path, err)
  }

  if overlay.FreshnessDays > 0 {
    policy.FreshnessDays = overlay.FreshnessDays
  }
  if len(overlay.TimeSlots) > 0 {
    policy.TimeSlots = overlay.TimeSlots
  }
  if len(overlay.Days) > 0 {
    policy.Days = overlay.Days
  }

  if log != nil {
    log.Info("Loaded plan policy", "path", path, "freshness_days", policy.FreshnessDays)
  }
  return policy, nil
}

// Window is the duration a plan stays fresh after creation.
func (p PlanPolicy) Window() time.Duration {
  return time.Duration(p.FreshnessDays) * 24 * time.Hour
}
