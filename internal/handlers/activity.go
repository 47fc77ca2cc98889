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

type ActivityHandler struct {
  log          *logger.Logger
  analyticsSvc services.AnalyticsService
}

func NewActivityHandler(log *logger.Logger, analyticsSvc services.AnalyticsService) *ActivityHandler {
  return &ActivityHandler{
    log:          log.With("handler", "ActivityHandler"),
    analyticsSvc: analyticsSvc,
  }
}

type recordStudySessionRequest struct {
  SubjectID       string `json:"subject_id" binding:"required"`
  DurationMinutes int    `json:"duration_minutes" binding:"required"`
}

// POST /api/students/:studentID/study-sessions
func (h *ActivityHandler) RecordStudySession(c *gin.Context) {
  studentID, ok := parseStudentID(c)
  if !ok {
    return
  }

  var req recordStudySessionRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  subjectID, err := uuid.Parse(req.SubjectID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_subject_id", fmt.Errorf("invalid subject id"))
    return
  }
  if req.DurationMinutes <= 0 {
    RespondError(c, http.StatusBadRequest, "invalid_duration", fmt.Errorf("duration_minutes must be positive"))
    return
  }

  if err := h.analyticsSvc.RecordStudySession(c.Request.Context(), studentID, subjectID, req.DurationMinutes); err != nil {
    if errors.Is(err, services.ErrStudentNotFound) {
      RespondError(c, http.StatusNotFound, "student_not_found", err)
      return
    }
    h.log.Error("Study session record failed", "error", err.Error())
    RespondError(c, http.StatusInternalServerError, "internal_error", err)
    return
  }
  c.Status(http.StatusNoContent)
}
