package services

import (
  "context"
  "errors"
  "fmt"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"

  "github.com/stepwise-learn/stepwise-backend/internal/repos"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

type fakeClock struct {
  now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type stubAnalytics struct {
  snapshot *types.AnalyticsSnapshot
  err      error
}

func (s *stubAnalytics) Snapshot(ctx context.Context, studentID uuid.UUID) (*types.AnalyticsSnapshot, error) {
  return s.snapshot, s.err
}

func (s *stubAnalytics) RecordStudySession(ctx context.Context, studentID, subjectID uuid.UUID, minutes int) error {
  return nil
}

type stubGeneration struct {
  plan       *types.StudyPlan
  err        error
  calls      int
  onGenerate func()
}

func (s *stubGeneration) Generate(ctx context.Context, studentID uuid.UUID, snapshot *types.AnalyticsSnapshot) (*types.StudyPlan, error) {
  s.calls++
  if s.onGenerate != nil {
    s.onGenerate()
  }
  if s.err != nil {
    return nil, s.err
  }
  return s.plan, nil
}

type failingCreateRepo struct {
  repos.RecommendationRepo
}

func (f *failingCreateRepo) Create(ctx context.Context, tx *gorm.DB, rec *types.StudentRecommendation) (*types.StudentRecommendation, error) {
  return nil, fmt.Errorf("connection refused")
}

type stubLock struct {
  acquired bool
  released int
}

func (s *stubLock) Acquire(ctx context.Context, studentID uuid.UUID, ttl time.Duration) (bool, error) {
  return s.acquired, nil
}

func (s *stubLock) Release(ctx context.Context, studentID uuid.UUID) error {
  s.released++
  return nil
}

type lifecycleFixture struct {
  svc        RecommendationService
  recRepo    repos.RecommendationRepo
  clock      *fakeClock
  generation *stubGeneration
  studentID  uuid.UUID
}

func newLifecycleFixture(t *testing.T, mutate func(f *lifecycleFixture) RecommendationService) *lifecycleFixture {
  t.Helper()
  log := testLogger(t)

  dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
  gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
    Logger: gormlogger.Default.LogMode(gormlogger.Silent),
  })
  if err != nil {
    t.Fatalf("open sqlite: %v", err)
  }
  if err := gdb.AutoMigrate(&types.SchoolClass{}, &types.User{}, &types.StudentRecommendation{}); err != nil {
    t.Fatalf("migrate: %v", err)
  }

  userRepo := repos.NewUserRepo(gdb, log)
  users, err := userRepo.Create(context.Background(), nil, []*types.User{{
    Name:  "Amina",
    Email: fmt.Sprintf("%s@test.local", t.Name()),
  }})
  if err != nil {
    t.Fatalf("seed student: %v", err)
  }

  plan := validPlan()
  f := &lifecycleFixture{
    recRepo:    repos.NewRecommendationRepo(gdb, log),
    clock:      &fakeClock{now: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)},
    generation: &stubGeneration{plan: &plan},
    studentID:  users[0].ID,
  }

  build := func(recRepo repos.RecommendationRepo, lock GenerationLock) RecommendationService {
    return NewRecommendationService(
      log,
      userRepo,
      recRepo,
      &stubAnalytics{snapshot: snapshotFixture()},
      f.generation,
      DefaultPlanPolicy(),
      lock,
      f.clock.Now,
    )
  }
  f.svc = build(f.recRepo, nil)
  if mutate != nil {
    f.svc = mutate(f)
  }
  return f
}

func (f *lifecycleFixture) historyCount(t *testing.T) int {
  t.Helper()
  records, err := f.recRepo.ListByStudent(context.Background(), nil, f.studentID)
  if err != nil {
    t.Fatalf("list history: %v", err)
  }
  return len(records)
}

func TestRecommendationLifecycleFirstPlan(t *testing.T) {
  f := newLifecycleFixture(t, nil)
  ctx := context.Background()

  active, err := f.svc.GetActivePlan(ctx, f.studentID)
  if err != nil {
    t.Fatalf("get active: %v", err)
  }
  if active.State != PlanStateNoPlan || active.Plan != nil {
    t.Fatalf("expected NO_PLAN state, got %+v", active)
  }

  created, err := f.svc.RequestNewPlan(ctx, f.studentID)
  if err != nil {
    t.Fatalf("request: %v", err)
  }
  if created.State != PlanStateFresh {
    t.Fatalf("expected FRESH state, got %s", created.State)
  }
  if created.CreatedAt == nil || !created.CreatedAt.Equal(f.clock.now) {
    t.Fatalf("expected created_at from clock, got %v", created.CreatedAt)
  }
  wantNext := f.clock.now.Add(7 * 24 * time.Hour)
  if created.NextEligibleAt == nil || !created.NextEligibleAt.Equal(wantNext) {
    t.Fatalf("expected next eligible %v, got %v", wantNext, created.NextEligibleAt)
  }
  if f.historyCount(t) != 1 {
    t.Fatalf("expected one stored record")
  }

  active, err = f.svc.GetActivePlan(ctx, f.studentID)
  if err != nil {
    t.Fatalf("get active after request: %v", err)
  }
  if active.State != PlanStateFresh || active.Plan == nil {
    t.Fatalf("expected FRESH active plan, got %+v", active)
  }
}

func TestRecommendationThrottleBlocksRegeneration(t *testing.T) {
  f := newLifecycleFixture(t, nil)
  ctx := context.Background()

  if _, err := f.svc.RequestNewPlan(ctx, f.studentID); err != nil {
    t.Fatalf("first request: %v", err)
  }
  firstAt := f.clock.now

  f.clock.Advance(3 * 24 * time.Hour)
  _, err := f.svc.RequestNewPlan(ctx, f.studentID)
  var throttle *ThrottleActiveError
  if !errors.As(err, &throttle) {
    t.Fatalf("expected ThrottleActiveError, got %T: %v", err, err)
  }
  wantNext := firstAt.Add(7 * 24 * time.Hour)
  if !throttle.NextEligibleAt.Equal(wantNext) {
    t.Fatalf("expected next eligible %v, got %v", wantNext, throttle.NextEligibleAt)
  }
  if f.generation.calls != 1 {
    t.Fatalf("throttled request must not invoke the generator, calls=%d", f.generation.calls)
  }
  if f.historyCount(t) != 1 {
    t.Fatalf("throttled request must not append")
  }

  elig, err := f.svc.CheckEligibility(ctx, f.studentID)
  if err != nil {
    t.Fatalf("eligibility: %v", err)
  }
  if elig.Eligible || elig.NextEligibleAt == nil || !elig.NextEligibleAt.Equal(wantNext) {
    t.Fatalf("unexpected eligibility %+v", elig)
  }
}

func TestRecommendationStaleAfterWindow(t *testing.T) {
  f := newLifecycleFixture(t, nil)
  ctx := context.Background()

  if _, err := f.svc.RequestNewPlan(ctx, f.studentID); err != nil {
    t.Fatalf("first request: %v", err)
  }

  f.clock.Advance(7 * 24 * time.Hour)

  active, err := f.svc.GetActivePlan(ctx, f.studentID)
  if err != nil {
    t.Fatalf("get active: %v", err)
  }
  if active.State != PlanStateStale {
    t.Fatalf("expected STALE state at the window boundary, got %s", active.State)
  }

  elig, err := f.svc.CheckEligibility(ctx, f.studentID)
  if err != nil {
    t.Fatalf("eligibility: %v", err)
  }
  if !elig.Eligible {
    t.Fatalf("expected eligible after window")
  }

  if _, err := f.svc.RequestNewPlan(ctx, f.studentID); err != nil {
    t.Fatalf("second request: %v", err)
  }
  if f.historyCount(t) != 2 {
    t.Fatalf("expected two stored records")
  }

  records, err := f.svc.History(ctx, f.studentID)
  if err != nil {
    t.Fatalf("history: %v", err)
  }
  if len(records) != 2 || records[0].CreatedAt.Before(records[1].CreatedAt) {
    t.Fatalf("expected newest-first history")
  }
}

func TestRecommendationGenerationFailureDoesNotAppend(t *testing.T) {
  f := newLifecycleFixture(t, func(f *lifecycleFixture) RecommendationService {
    f.generation.err = &GenerationFailedError{Err: fmt.Errorf("upstream boom")}
    return f.svc
  })

  _, err := f.svc.RequestNewPlan(context.Background(), f.studentID)
  var genErr *GenerationFailedError
  if !errors.As(err, &genErr) {
    t.Fatalf("expected GenerationFailedError, got %T: %v", err, err)
  }
  if f.historyCount(t) != 0 {
    t.Fatalf("failed generation must not append")
  }
}

func TestRecommendationSchemaViolationDoesNotAppend(t *testing.T) {
  f := newLifecycleFixture(t, func(f *lifecycleFixture) RecommendationService {
    f.generation.err = &SchemaViolationError{Field: "performance_projection", Reason: "expected exactly 6 points, got 4"}
    return f.svc
  })

  _, err := f.svc.RequestNewPlan(context.Background(), f.studentID)
  var violation *SchemaViolationError
  if !errors.As(err, &violation) {
    t.Fatalf("expected SchemaViolationError, got %T: %v", err, err)
  }
  if f.historyCount(t) != 0 {
    t.Fatalf("rejected plan must not append")
  }
}

func TestRecommendationStorageFailure(t *testing.T) {
  f := newLifecycleFixture(t, func(fx *lifecycleFixture) RecommendationService {
    return NewRecommendationService(
      testLogger(t),
      stubUserRepoFound{id: fx.studentID},
      &failingCreateRepo{RecommendationRepo: fx.recRepo},
      &stubAnalytics{snapshot: snapshotFixture()},
      fx.generation,
      DefaultPlanPolicy(),
      nil,
      fx.clock.Now,
    )
  })

  _, err := f.svc.RequestNewPlan(context.Background(), f.studentID)
  var storage *StorageUnavailableError
  if !errors.As(err, &storage) {
    t.Fatalf("expected StorageUnavailableError, got %T: %v", err, err)
  }
  if f.historyCount(t) != 0 {
    t.Fatalf("failed persist must not leave a record")
  }
}

type stubUserRepoFound struct {
  id uuid.UUID
}

func (s stubUserRepoFound) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  return users, nil
}

func (s stubUserRepoFound) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
  if userID == s.id {
    return &types.User{ID: s.id}, nil
  }
  return nil, nil
}

func TestRecommendationCanceledContextDoesNotAppend(t *testing.T) {
  ctx, cancel := context.WithCancel(context.Background())
  f := newLifecycleFixture(t, func(fx *lifecycleFixture) RecommendationService {
    fx.generation.onGenerate = cancel
    return fx.svc
  })

  _, err := f.svc.RequestNewPlan(ctx, f.studentID)
  if !errors.Is(err, context.Canceled) {
    t.Fatalf("expected context.Canceled, got %v", err)
  }
  if f.historyCount(t) != 0 {
    t.Fatalf("canceled request must not append")
  }
}

func TestRecommendationLockBlocksConcurrentGeneration(t *testing.T) {
  lock := &stubLock{acquired: false}
  f := newLifecycleFixture(t, func(fx *lifecycleFixture) RecommendationService {
    return NewRecommendationService(
      testLogger(t),
      stubUserRepoFound{id: fx.studentID},
      fx.recRepo,
      &stubAnalytics{snapshot: snapshotFixture()},
      fx.generation,
      DefaultPlanPolicy(),
      lock,
      fx.clock.Now,
    )
  })

  _, err := f.svc.RequestNewPlan(context.Background(), f.studentID)
  if !errors.Is(err, ErrGenerationInFlight) {
    t.Fatalf("expected ErrGenerationInFlight, got %v", err)
  }
  if f.generation.calls != 0 {
    t.Fatalf("locked request must not invoke the generator")
  }
}

func TestRecommendationLockReleasedAfterGeneration(t *testing.T) {
  lock := &stubLock{acquired: true}
  f := newLifecycleFixture(t, func(fx *lifecycleFixture) RecommendationService {
    return NewRecommendationService(
      testLogger(t),
      stubUserRepoFound{id: fx.studentID},
      fx.recRepo,
      &stubAnalytics{snapshot: snapshotFixture()},
      fx.generation,
      DefaultPlanPolicy(),
      lock,
      fx.clock.Now,
    )
  })

  if _, err := f.svc.RequestNewPlan(context.Background(), f.studentID); err != nil {
    t.Fatalf("request: %v", err)
  }
  if lock.released != 1 {
    t.Fatalf("expected lock released once, got %d", lock.released)
  }
}

func TestRecommendationStudentNotFound(t *testing.T) {
  f := newLifecycleFixture(t, nil)

  _, err := f.svc.GetActivePlan(context.Background(), uuid.New())
  if !errors.Is(err, ErrStudentNotFound) {
    t.Fatalf("expected ErrStudentNotFound, got %v", err)
  }
}
