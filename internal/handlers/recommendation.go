package handlers

import (
  "errors"
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/services"
)

type RecommendationHandler struct {
  log    *logger.Logger
  recSvc services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recSvc services.RecommendationService) *RecommendationHandler {
  return &RecommendationHandler{
    log:    log.With("handler", "RecommendationHandler"),
    recSvc: recSvc,
  }
}

func parseStudentID(c *gin.Context) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param("studentID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_student_id", fmt.Errorf("invalid student id"))
    return uuid.Nil, false
  }
  return id, true
}

// GET /api/students/:studentID/recommendations/active
func (h *RecommendationHandler) GetActivePlan(c *gin.Context) {
  studentID, ok := parseStudentID(c)
  if !ok {
    return
  }
  plan, err := h.recSvc.GetActivePlan(c.Request.Context(), studentID)
  if err != nil {
    h.respondServiceError(c, err)
    return
  }
  RespondOK(c, plan)
}

// POST /api/students/:studentID/recommendations
func (h *RecommendationHandler) RequestNewPlan(c *gin.Context) {
  studentID, ok := parseStudentID(c)
  if !ok {
    return
  }
  plan, err := h.recSvc.RequestNewPlan(c.Request.Context(), studentID)
  if err != nil {
    h.respondServiceError(c, err)
    return
  }
  c.JSON(http.StatusCreated, plan)
}

// GET /api/students/:studentID/recommendations/eligibility
func (h *RecommendationHandler) CheckEligibility(c *gin.Context) {
  studentID, ok := parseStudentID(c)
  if !ok {
    return
  }
  elig, err := h.recSvc.CheckEligibility(c.Request.Context(), studentID)
  if err != nil {
    h.respondServiceError(c, err)
    return
  }
  RespondOK(c, elig)
}

// GET /api/students/:studentID/recommendations
func (h *RecommendationHandler) ListHistory(c *gin.Context) {
  studentID, ok := parseStudentID(c)
  if !ok {
    return
  }
  records, err := h.recSvc.History(c.Request.Context(), studentID)
  if err != nil {
    h.respondServiceError(c, err)
    return
  }
  RespondOK(c, records)
}

func (h *RecommendationHandler) respondServiceError(c *gin.Context, err error) {
  var throttle *services.ThrottleActiveError
  if errors.As(err, &throttle) {
    c.JSON(http.StatusTooManyRequests, gin.H{
      "error":            APIError{Message: err.Error(), Code: "throttle_active"},
      "next_eligible_at": throttle.NextEligibleAt,
    })
    return
  }

  var violation *services.SchemaViolationError
  if errors.As(err, &violation) {
    RespondError(c, http.StatusBadGateway, "schema_violation", err)
    return
  }

  var genFailed *services.GenerationFailedError
  if errors.As(err, &genFailed) {
    RespondError(c, http.StatusBadGateway, "generation_failed", err)
    return
  }

  var storage *services.StorageUnavailableError
  if errors.As(err, &storage) {
    RespondError(c, http.StatusServiceUnavailable, "storage_unavailable", err)
    return
  }

  if errors.Is(err, services.ErrGenerationInFlight) {
    RespondError(c, http.StatusConflict, "generation_in_flight", err)
    return
  }

  if errors.Is(err, services.ErrStudentNotFound) {
    RespondError(c, http.StatusNotFound, "student_not_found", err)
    return
  }

  h.log.Error("Recommendation request failed", "error", err.Error())
  RespondError(c, http.StatusInternalServerError, "internal_error", err)
}
