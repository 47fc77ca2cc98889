package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/stepwise-learn/stepwise-backend/internal/handlers"
)

type RouterConfig struct {
  AnalyticsHandler      *handlers.AnalyticsHandler
  ActivityHandler       *handlers.ActivityHandler
  RecommendationHandler *handlers.RecommendationHandler
  AllowOrigins          []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("stepwise-backend"))

  // Cors
  origins := cfg.AllowOrigins
  if len(origins) == 0 {
    origins = []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    }
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     origins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", handlers.HealthCheck)

  api := router.Group("/api")
  {
    students := api.Group("/students/:studentID")
    // Analytics
    students.GET("/analytics", cfg.AnalyticsHandler.GetSnapshot)
    students.POST("/study-sessions", cfg.ActivityHandler.RecordStudySession)
    // Recommendations
    students.GET("/recommendations", cfg.RecommendationHandler.ListHistory)
    students.GET("/recommendations/active", cfg.RecommendationHandler.GetActivePlan)
    students.GET("/recommendations/eligibility", cfg.RecommendationHandler.CheckEligibility)
    students.POST("/recommendations", cfg.RecommendationHandler.RequestNewPlan)
  }

  return router
}
