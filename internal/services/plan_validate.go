package services

import (
  "bytes"
  "encoding/json"
  "fmt"
  "strings"

  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

// ValidateStudyPlan decodes a raw model payload into a StudyPlan and enforces
// the parts of the contract a JSON schema cannot express: cardinalities, the
// projection split and the timetable shape. Violations carry a field path.
func ValidateStudyPlan(policy PlanPolicy, payload map[string]any) (*types.StudyPlan, error) {
  raw, err := json.Marshal(payload)
  if err != nil {
    return nil, &SchemaViolationError{Field: "$", Reason: err.Error()}
  }

  dec := json.NewDecoder(bytes.NewReader(raw))
  dec.DisallowUnknownFields()
  var plan types.StudyPlan
  if err := dec.Decode(&plan); err != nil {
    return nil, &SchemaViolationError{Field: "$", Reason: err.Error()}
  }

  if err := validateAnalysis(plan.Analysis); err != nil {
    return nil, err
  }
  if err := validateSuggestions("suggestedLessons", plan.SuggestedLessons, true); err != nil {
    return nil, err
  }
  if err := validateSuggestions("suggestedVideos", plan.SuggestedVideos, false); err != nil {
    return nil, err
  }
  if err := validateSuggestions("suggestedQuizzes", plan.SuggestedQuizzes, true); err != nil {
    return nil, err
  }
  if err := validateProjection(plan.PerformanceProjection); err != nil {
    return nil, err
  }
  if err := validateTimetable(policy, plan.StudyTimetable); err != nil {
    return nil, err
  }

  return &plan, nil
}

func validateAnalysis(a types.PlanAnalysis) error {
  if n := len(a.Praise); n < 2 || n > 3 {
    return &SchemaViolationError{Field: "analysis.praise", Reason: fmt.Sprintf("expected 2-3 entries, got %d", n)}
  }
  if n := len(a.ImprovementAreas); n < 2 || n > 3 {
    return &SchemaViolationError{Field: "analysis.improvement_areas", Reason: fmt.Sprintf("expected 2-3 entries, got %d", n)}
  }
  if strings.TrimSpace(a.StrategicSummary) == "" {
    return &SchemaViolationError{Field: "analysis.strategic_summary", Reason: "must not be empty"}
  }
  return nil
}

func validateSuggestions(field string, items []types.SuggestionItem, required bool) error {
  if required && len(items) == 0 {
    return &SchemaViolationError{Field: field, Reason: "must not be empty"}
  }
  for i, item := range items {
    if strings.TrimSpace(item.Title) == "" {
      return &SchemaViolationError{Field: fmt.Sprintf("%s[%d].title", field, i), Reason: "must not be empty"}
    }
    if strings.TrimSpace(item.Reason) == "" {
      return &SchemaViolationError{Field: fmt.Sprintf("%s[%d].reason", field, i), Reason: "must not be empty"}
    }
  }
  return nil
}

// validateProjection enforces the six-point shape: three historical months
// with past scores only, then three forecast months with projected scores
// only. All scores sit on a 0-100 scale.
func validateProjection(points []types.ProjectionPoint) error {
  if len(points) != 6 {
    return &SchemaViolationError{Field: "performance_projection", Reason: fmt.Sprintf("expected exactly 6 points, got %d", len(points))}
  }
  for i, p := range points {
    path := fmt.Sprintf("performance_projection[%d]", i)
    if strings.TrimSpace(p.Month) == "" {
      return &SchemaViolationError{Field: path + ".month", Reason: "must not be empty"}
    }
    if i < 3 {
      if p.PastPerformance == nil {
        return &SchemaViolationError{Field: path + ".past_performance", Reason: "historical point must carry a score"}
      }
      if p.ProjectedPerformance != nil {
        return &SchemaViolationError{Field: path + ".projected_performance", Reason: "historical point must not carry a projection"}
      }
    } else {
      if p.ProjectedPerformance == nil {
        return &SchemaViolationError{Field: path + ".projected_performance", Reason: "forecast point must carry a projection"}
      }
      if p.PastPerformance != nil {
        return &SchemaViolationError{Field: path + ".past_performance", Reason: "forecast point must not carry a past score"}
      }
    }
    if p.PastPerformance != nil && (*p.PastPerformance < 0 || *p.PastPerformance > 100) {
      return &SchemaViolationError{Field: path + ".past_performance", Reason: "score out of 0-100 range"}
    }
    if p.ProjectedPerformance != nil && (*p.ProjectedPerformance < 0 || *p.ProjectedPerformance > 100) {
      return &SchemaViolationError{Field: path + ".projected_performance", Reason: "score out of 0-100 range"}
    }
  }
  return nil
}

func validateTimetable(policy PlanPolicy, days []types.TimetableDay) error {
  // Timetable is optional; when present it covers the full week.
  if len(days) == 0 {
    return nil
  }
  if len(days) != len(policy.Days) {
    return &SchemaViolationError{Field: "studyTimetable", Reason: fmt.Sprintf("expected %d days, got %d", len(policy.Days), len(days))}
  }

  allowedDays := map[string]bool{}
  for _, d := range policy.Days {
    allowedDays[d] = true
  }
  allowedSlots := map[string]bool{}
  for _, s := range policy.TimeSlots {
    allowedSlots[s] = true
  }

  seen := map[string]bool{}
  for i, day := range days {
    path := fmt.Sprintf("studyTimetable[%d]", i)
    if !allowedDays[day.Day] {
      return &SchemaViolationError{Field: path + ".day", Reason: fmt.Sprintf("unknown day %q", day.Day)}
    }
    if seen[day.Day] {
      return &SchemaViolationError{Field: path + ".day", Reason: fmt.Sprintf("duplicate day %q", day.Day)}
    }
    seen[day.Day] = true

    for j, slot := range day.Slots {
      slotPath := fmt.Sprintf("%s.slots[%d]", path, j)
      if !allowedSlots[slot.Time] {
        return &SchemaViolationError{Field: slotPath + ".time", Reason: fmt.Sprintf("unknown time slot %q", slot.Time)}
      }
      switch slot.Activity {
      case types.TimetableActivityStudyTime, types.TimetableActivityRevision:
        if strings.TrimSpace(slot.Subject) == "" {
          return &SchemaViolationError{Field: slotPath + ".subject", Reason: "study and revision slots need a subject"}
        }
      case types.TimetableActivityFreeTime:
      default:
        return &SchemaViolationError{Field: slotPath + ".activity", Reason: fmt.Sprintf("unknown activity %q", slot.Activity)}
      }
    }
  }
  return nil
}
