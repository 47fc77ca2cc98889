package services

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"

  "github.com/google/uuid"

  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

// PlanGenerationService turns an analytics snapshot into a validated study
// plan with a single model call. It never retries and never persists.
type PlanGenerationService interface {
  Generate(ctx context.Context, studentID uuid.UUID, snapshot *types.AnalyticsSnapshot) (*types.StudyPlan, error)
}

type planGenerationService struct {
  log    *logger.Logger
  client OpenAIClient
  policy PlanPolicy
}

func NewPlanGenerationService(log *logger.Logger, client OpenAIClient, policy PlanPolicy) PlanGenerationService {
  return &planGenerationService{
    log:    log.With("service", "PlanGenerationService"),
    client: client,
    policy: policy,
  }
}

func (s *planGenerationService) Generate(ctx context.Context, studentID uuid.UUID, snapshot *types.AnalyticsSnapshot) (*types.StudyPlan, error) {
  if snapshot == nil {
    return nil, &GenerationFailedError{Err: fmt.Errorf("nil analytics snapshot")}
  }

  system := s.buildSystemPrompt()
  user, err := s.buildUserPrompt(studentID, snapshot)
  if err != nil {
    return nil, &GenerationFailedError{Err: err}
  }

  payload, err := s.client.GenerateJSON(ctx, system, user, "study_plan", StudyPlanSchema(s.policy))
  if err != nil {
    return nil, &GenerationFailedError{Err: err}
  }

  plan, err := ValidateStudyPlan(s.policy, payload)
  if err != nil {
    s.log.Warn("Generated plan rejected", "student_id", studentID.String(), "error", err.Error())
    return nil, err
  }

  s.log.Info("Generated study plan",
    "student_id", studentID.String(),
    "suggested_lessons", len(plan.SuggestedLessons),
    "timetable_days", len(plan.StudyTimetable),
  )
  return plan, nil
}

func (s *planGenerationService) buildSystemPrompt() string {
  var b strings.Builder
  b.WriteString("You are an expert academic advisor for a school learning platform. ")
  b.WriteString("Analyze the student's performance data and produce a personalized study plan.\n\n")
  b.WriteString("Rules:\n")
  b.WriteString("- analysis.praise: 2-3 specific strengths drawn from the data.\n")
  b.WriteString("- analysis.improvement_areas: 2-3 concrete weaknesses drawn from the data.\n")
  b.WriteString("- analysis.strategic_summary: a short paragraph tying the plan together.\n")
  b.WriteString("- suggestedLessons and suggestedQuizzes: only lessons that appear in the student's available lesson list, each with a reason grounded in the data. Never suggest lessons outside that list.\n")
  b.WriteString("- performance_projection: exactly 6 monthly points. The first 3 are the last 3 months with past_performance set and projected_performance null. The last 3 are a forecast with projected_performance set and past_performance null. All scores are on a 0-100 scale and blend quiz scores with lesson completion.\n")
  b.WriteString("- studyTimetable: one entry per day, ")
  b.WriteString(strings.Join(s.policy.Days, ", "))
  b.WriteString(". Slots may only use these times: ")
  b.WriteString(strings.Join(s.policy.TimeSlots, ", "))
  b.WriteString(".\n")
  b.WriteString("- Assign 'Study Time' slots to the student's weakest subjects and 'Revision' slots to their strongest. Always leave some non-zero 'Free Time'.\n")
  return b.String()
}

func (s *planGenerationService) buildUserPrompt(studentID uuid.UUID, snapshot *types.AnalyticsSnapshot) (string, error) {
  raw, err := json.Marshal(snapshot)
  if err != nil {
    return "", fmt.Errorf("marshal analytics snapshot: %w", err)
  }
  var b strings.Builder
  b.WriteString("Student ID: ")
  b.WriteString(studentID.String())
  b.WriteString("\n\nPerformance data:\n")
  b.Write(raw)
  return b.String(), nil
}
