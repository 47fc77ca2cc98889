package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/services"
)

type AnalyticsHandler struct {
  log          *logger.Logger
  analyticsSvc services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, analyticsSvc services.AnalyticsService) *AnalyticsHandler {
  return &AnalyticsHandler{
    log:          log.With("handler", "AnalyticsHandler"),
    analyticsSvc: analyticsSvc,
  }
}

// GET /api/students/:studentID/analytics
func (h *AnalyticsHandler) GetSnapshot(c *gin.Context) {
  studentID, ok := parseStudentID(c)
  if !ok {
    return
  }
  snapshot, err := h.analyticsSvc.Snapshot(c.Request.Context(), studentID)
  if err != nil {
    if errors.Is(err, services.ErrStudentNotFound) {
      RespondError(c, http.StatusNotFound, "student_not_found", err)
      return
    }
    h.log.Error("Analytics snapshot failed", "error", err.Error())
    RespondError(c, http.StatusInternalServerError, "internal_error", err)
    return
  }
  RespondOK(c, snapshot)
}
