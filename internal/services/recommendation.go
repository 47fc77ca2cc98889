package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/repos"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

// PlanState describes where a student sits in the recommendation lifecycle.
type PlanState string

const (
  PlanStateNoPlan PlanState = "NO_PLAN"
  PlanStateFresh  PlanState = "FRESH"
  PlanStateStale  PlanState = "STALE"
)

// ActivePlan is the newest stored plan plus its lifecycle position.
type ActivePlan struct {
  State          PlanState        `json:"state"`
  RecordID       uuid.UUID        `json:"record_id,omitempty"`
  Plan           *types.StudyPlan `json:"plan,omitempty"`
  CreatedAt      *time.Time       `json:"created_at,omitempty"`
  NextEligibleAt *time.Time       `json:"next_eligible_at,omitempty"`
}

// Eligibility answers whether a regeneration request would be accepted now.
type Eligibility struct {
  Eligible       bool       `json:"eligible"`
  NextEligibleAt *time.Time `json:"next_eligible_at,omitempty"`
}

// GenerationLock is the advisory per-student lock; nil disables locking.
type GenerationLock interface {
  Acquire(ctx context.Context, studentID uuid.UUID, ttl time.Duration) (bool, error)
  Release(ctx context.Context, studentID uuid.UUID) error
}

// RecommendationService owns the plan lifecycle: reads resolve the newest
// stored row, writes append exactly one row per successful generation, and
// the freshness window throttles regeneration.
type RecommendationService interface {
  GetActivePlan(ctx context.Context, studentID uuid.UUID) (*ActivePlan, error)
  RequestNewPlan(ctx context.Context, studentID uuid.UUID) (*ActivePlan, error)
  CheckEligibility(ctx context.Context, studentID uuid.UUID) (*Eligibility, error)
  History(ctx context.Context, studentID uuid.UUID) ([]*types.StudentRecommendation, error)
}

type recommendationService struct {
  log        *logger.Logger
  userRepo   repos.UserRepo
  recRepo    repos.RecommendationRepo
  analytics  AnalyticsService
  generation PlanGenerationService
  policy     PlanPolicy
  lock       GenerationLock
  now        func() time.Time
}

func NewRecommendationService(
  log *logger.Logger,
  userRepo repos.UserRepo,
  recRepo repos.RecommendationRepo,
  analytics AnalyticsService,
  generation PlanGenerationService,
  policy PlanPolicy,
  lock GenerationLock,
  now func() time.Time,
) RecommendationService {
  if now == nil {
    now = time.Now
  }
  return &recommendationService{
    log:        log.With("service", "RecommendationService"),
    userRepo:   userRepo,
    recRepo:    recRepo,
    analytics:  analytics,
    generation: generation,
    policy:     policy,
    lock:       lock,
    now:        now,
  }
}

func (s *recommendationService) GetActivePlan(ctx context.Context, studentID uuid.UUID) (*ActivePlan, error) {
  if err := s.ensureStudent(ctx, studentID); err != nil {
    return nil, err
  }

  latest, err := s.recRepo.MostRecent(ctx, nil, studentID)
  if err != nil {
    return nil, &StorageUnavailableError{Err: err}
  }
  if latest == nil {
    return &ActivePlan{State: PlanStateNoPlan}, nil
  }
  return s.toActivePlan(latest)
}

// RequestNewPlan regenerates the student's plan. It fails with
// ThrottleActiveError while the current plan is fresh, invokes the generator
// exactly once, and appends the validated result as the new active plan.
func (s *recommendationService) RequestNewPlan(ctx context.Context, studentID uuid.UUID) (*ActivePlan, error) {
  if err := s.ensureStudent(ctx, studentID); err != nil {
    return nil, err
  }

  now := s.now().UTC()

  latest, err := s.recRepo.MostRecent(ctx, nil, studentID)
  if err != nil {
    return nil, &StorageUnavailableError{Err: err}
  }
  if latest != nil {
    nextEligible := latest.CreatedAt.Add(s.policy.Window())
    if now.Before(nextEligible) {
      return nil, &ThrottleActiveError{NextEligibleAt: nextEligible}
    }
  }

  if s.lock != nil {
    acquired, err := s.lock.Acquire(ctx, studentID, 2*time.Minute)
    if err != nil {
      s.log.Warn("Generation lock unavailable, proceeding without it", "student_id", studentID.String(), "error", err.Error())
    } else if !acquired {
      return nil, ErrGenerationInFlight
    } else {
      defer func() {
        if rErr := s.lock.Release(context.WithoutCancel(ctx), studentID); rErr != nil {
          s.log.Warn("Generation lock release failed", "student_id", studentID.String(), "error", rErr.Error())
        }
      }()
    }
  }

  snapshot, err := s.analytics.Snapshot(ctx, studentID)
  if err != nil {
    return nil, err
  }

  plan, err := s.generation.Generate(ctx, studentID, snapshot)
  if err != nil {
    return nil, err
  }

  // A canceled request must not append a plan the caller never saw.
  if err := ctx.Err(); err != nil {
    return nil, err
  }

  raw, err := json.Marshal(plan)
  if err != nil {
    return nil, fmt.Errorf("encode plan: %w", err)
  }

  record := &types.StudentRecommendation{
    StudentID: studentID,
    Plan:      datatypes.JSON(raw),
    CreatedAt: now,
  }
  if _, err := s.recRepo.Create(ctx, nil, record); err != nil {
    return nil, &StorageUnavailableError{Err: err}
  }

  s.log.Info("Stored new study plan", "student_id", studentID.String(), "record_id", record.ID.String())

  nextEligible := record.CreatedAt.Add(s.policy.Window())
  return &ActivePlan{
    State:          PlanStateFresh,
    RecordID:       record.ID,
    Plan:           plan,
    CreatedAt:      &record.CreatedAt,
    NextEligibleAt: &nextEligible,
  }, nil
}

func (s *recommendationService) CheckEligibility(ctx context.Context, studentID uuid.UUID) (*Eligibility, error) {
  if err := s.ensureStudent(ctx, studentID); err != nil {
    return nil, err
  }

  latest, err := s.recRepo.MostRecent(ctx, nil, studentID)
  if err != nil {
    return nil, &StorageUnavailableError{Err: err}
  }
  if latest == nil {
    return &Eligibility{Eligible: true}, nil
  }

  nextEligible := latest.CreatedAt.Add(s.policy.Window())
  if s.now().UTC().Before(nextEligible) {
    return &Eligibility{Eligible: false, NextEligibleAt: &nextEligible}, nil
  }
  return &Eligibility{Eligible: true, NextEligibleAt: &nextEligible}, nil
}

func (s *recommendationService) History(ctx context.Context, studentID uuid.UUID) ([]*types.StudentRecommendation, error) {
  if err := s.ensureStudent(ctx, studentID); err != nil {
    return nil, err
  }

  records, err := s.recRepo.ListByStudent(ctx, nil, studentID)
  if err != nil {
    return nil, &StorageUnavailableError{Err: err}
  }
  return records, nil
}

func (s *recommendationService) ensureStudent(ctx context.Context, studentID uuid.UUID) error {
  user, err := s.userRepo.GetByID(ctx, nil, studentID)
  if err != nil {
    return err
  }
  if user == nil {
    return ErrStudentNotFound
  }
  return nil
}

func (s *recommendationService) toActivePlan(record *types.StudentRecommendation) (*ActivePlan, error) {
  var plan types.StudyPlan
  if err := json.Unmarshal(record.Plan, &plan); err != nil {
    return nil, fmt.Errorf("decode stored plan %s: %w", record.ID, err)
  }

  nextEligible := record.CreatedAt.Add(s.policy.Window())
  state := PlanStateFresh
  if !s.now().UTC().Before(nextEligible) {
    state = PlanStateStale
  }
  return &ActivePlan{
    State:          state,
    RecordID:       record.ID,
    Plan:           &plan,
    CreatedAt:      &record.CreatedAt,
    NextEligibleAt: &nextEligible,
  }, nil
}
