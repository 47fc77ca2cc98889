package main

import (
  "context"
  "fmt"
  "os"
  "strings"
  "time"

  redisclient "github.com/stepwise-learn/stepwise-backend/internal/clients/redis"
  "github.com/stepwise-learn/stepwise-backend/internal/db"
  "github.com/stepwise-learn/stepwise-backend/internal/handlers"
  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/observability"
  "github.com/stepwise-learn/stepwise-backend/internal/repos"
  "github.com/stepwise-learn/stepwise-backend/internal/server"
  "github.com/stepwise-learn/stepwise-backend/internal/services"
  "github.com/stepwise-learn/stepwise-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing
  shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "stepwise-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if shutdownOTel != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = shutdownOTel(ctx)
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  subjectRepo := repos.NewSubjectRepo(thePG, log)
  lessonRepo := repos.NewLessonRepo(thePG, log)
  dailyActivityRepo := repos.NewDailyActivityRepo(thePG, log)
  subjectStudyRepo := repos.NewSubjectStudyRepo(thePG, log)
  lessonProgressRepo := repos.NewLessonProgressRepo(thePG, log)
  quizAttemptRepo := repos.NewQuizAttemptRepo(thePG, log)
  recentActivityRepo := repos.NewRecentActivityRepo(thePG, log)
  recommendationRepo := repos.NewRecommendationRepo(thePG, log)

  // Advisory generation lock (optional)
  var genLock services.GenerationLock
  if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
    lock, err := redisclient.NewGenerationLock(log)
    if err != nil {
      log.Warn("Could not init generation lock, continuing without it", "error", err)
    } else {
      genLock = lock
      defer lock.Close()
    }
  }

  // Services
  log.Info("Setting up Services from main...")
  openaiClient, err := services.NewOpenAIClient(log)
  if err != nil {
    log.Error("Could not init OpenAIClient", "error", err)
    os.Exit(1)
  }
  planPolicy, err := services.LoadPlanPolicy(log)
  if err != nil {
    log.Warn("Plan policy load failed, using defaults", "error", err)
  }
  analyticsService := services.NewAnalyticsService(
    log,
    userRepo,
    dailyActivityRepo,
    subjectStudyRepo,
    subjectRepo,
    lessonRepo,
    lessonProgressRepo,
    quizAttemptRepo,
    recentActivityRepo,
    nil,
  )
  planGenService := services.NewPlanGenerationService(log, openaiClient, planPolicy)
  recommendationService := services.NewRecommendationService(
    log,
    userRepo,
    recommendationRepo,
    analyticsService,
    planGenService,
    planPolicy,
    genLock,
    nil,
  )

  // Handlers
  log.Info("Setting up handlers from main...")
  analyticsHandler := handlers.NewAnalyticsHandler(log, analyticsService)
  activityHandler := handlers.NewActivityHandler(log, analyticsService)
  recommendationHandler := handlers.NewRecommendationHandler(log, recommendationService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AnalyticsHandler:      analyticsHandler,
    ActivityHandler:       activityHandler,
    RecommendationHandler: recommendationHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
