package handlers

import (
  "context"
  "encoding/json"
  "fmt"
  "net/http"
  "net/http/httptest"
  "testing"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/services"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

type stubRecommendationService struct {
  active *services.ActivePlan
  err    error
}

func (s *stubRecommendationService) GetActivePlan(ctx context.Context, studentID uuid.UUID) (*services.ActivePlan, error) {
  return s.active, s.err
}

func (s *stubRecommendationService) RequestNewPlan(ctx context.Context, studentID uuid.UUID) (*services.ActivePlan, error) {
  return s.active, s.err
}

func (s *stubRecommendationService) CheckEligibility(ctx context.Context, studentID uuid.UUID) (*services.Eligibility, error) {
  if s.err != nil {
    return nil, s.err
  }
  return &services.Eligibility{Eligible: true}, nil
}

func (s *stubRecommendationService) History(ctx context.Context, studentID uuid.UUID) ([]*types.StudentRecommendation, error) {
  return nil, s.err
}

func newTestRouter(t *testing.T, svc services.RecommendationService) *gin.Engine {
  t.Helper()
  gin.SetMode(gin.TestMode)
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("logger: %v", err)
  }
  h := NewRecommendationHandler(log, svc)
  router := gin.New()
  router.POST("/api/students/:studentID/recommendations", h.RequestNewPlan)
  router.GET("/api/students/:studentID/recommendations/active", h.GetActivePlan)
  return router
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
  w := httptest.NewRecorder()
  req := httptest.NewRequest(method, path, nil)
  router.ServeHTTP(w, req)
  return w
}

func TestRequestNewPlanThrottleMapsTo429(t *testing.T) {
  next := time.Date(2026, 6, 8, 10, 0, 0, 0, time.UTC)
  router := newTestRouter(t, &stubRecommendationService{
    err: &services.ThrottleActiveError{NextEligibleAt: next},
  })

  w := doRequest(router, http.MethodPost, "/api/students/"+uuid.NewString()+"/recommendations")
  if w.Code != http.StatusTooManyRequests {
    t.Fatalf("expected 429, got %d", w.Code)
  }
  var body struct {
    Error          APIError  `json:"error"`
    NextEligibleAt time.Time `json:"next_eligible_at"`
  }
  if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
    t.Fatalf("decode body: %v", err)
  }
  if body.Error.Code != "throttle_active" {
    t.Fatalf("unexpected code %q", body.Error.Code)
  }
  if !body.NextEligibleAt.Equal(next) {
    t.Fatalf("expected next_eligible_at %v, got %v", next, body.NextEligibleAt)
  }
}

func TestRequestNewPlanErrorMapping(t *testing.T) {
  tests := []struct {
    name     string
    err      error
    wantCode int
    wantAPI  string
  }{
    {"schema violation", &services.SchemaViolationError{Field: "analysis.praise", Reason: "expected 2-3 entries, got 0"}, http.StatusBadGateway, "schema_violation"},
    {"generation failed", &services.GenerationFailedError{Err: fmt.Errorf("upstream boom")}, http.StatusBadGateway, "generation_failed"},
    {"storage unavailable", &services.StorageUnavailableError{Err: fmt.Errorf("connection refused")}, http.StatusServiceUnavailable, "storage_unavailable"},
    {"generation in flight", services.ErrGenerationInFlight, http.StatusConflict, "generation_in_flight"},
    {"student not found", services.ErrStudentNotFound, http.StatusNotFound, "student_not_found"},
  }

  for _, tc := range tests {
    t.Run(tc.name, func(t *testing.T) {
      router := newTestRouter(t, &stubRecommendationService{err: tc.err})
      w := doRequest(router, http.MethodPost, "/api/students/"+uuid.NewString()+"/recommendations")
      if w.Code != tc.wantCode {
        t.Fatalf("expected %d, got %d (body %s)", tc.wantCode, w.Code, w.Body.String())
      }
      var body ErrorEnvelope
      if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
        t.Fatalf("decode body: %v", err)
      }
      if body.Error.Code != tc.wantAPI {
        t.Fatalf("expected code %q, got %q", tc.wantAPI, body.Error.Code)
      }
    })
  }
}

func TestRequestNewPlanInvalidStudentID(t *testing.T) {
  router := newTestRouter(t, &stubRecommendationService{})
  w := doRequest(router, http.MethodPost, "/api/students/not-a-uuid/recommendations")
  if w.Code != http.StatusBadRequest {
    t.Fatalf("expected 400, got %d", w.Code)
  }
}

func TestGetActivePlanSuccess(t *testing.T) {
  created := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
  next := created.Add(7 * 24 * time.Hour)
  router := newTestRouter(t, &stubRecommendationService{
    active: &services.ActivePlan{
      State:          services.PlanStateFresh,
      RecordID:       uuid.New(),
      Plan:           &types.StudyPlan{},
      CreatedAt:      &created,
      NextEligibleAt: &next,
    },
  })

  w := doRequest(router, http.MethodGet, "/api/students/"+uuid.NewString()+"/recommendations/active")
  if w.Code != http.StatusOK {
    t.Fatalf("expected 200, got %d", w.Code)
  }
  var body services.ActivePlan
  if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
    t.Fatalf("decode body: %v", err)
  }
  if body.State != services.PlanStateFresh {
    t.Fatalf("unexpected state %q", body.State)
  }
}

func TestRequestNewPlanCreated(t *testing.T) {
  router := newTestRouter(t, &stubRecommendationService{
    active: &services.ActivePlan{State: services.PlanStateFresh},
  })
  w := doRequest(router, http.MethodPost, "/api/students/"+uuid.NewString()+"/recommendations")
  if w.Code != http.StatusCreated {
    t.Fatalf("expected 201, got %d", w.Code)
  }
}
