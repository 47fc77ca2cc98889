package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"

  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/repos"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
  "github.com/stepwise-learn/stepwise-backend/internal/utils"
)

// ErrStudentNotFound means the requested student id has no user row.
var ErrStudentNotFound = fmt.Errorf("student not found")

// AnalyticsService builds the per-student analytics snapshot and records the
// study activity that feeds it.
type AnalyticsService interface {
  Snapshot(ctx context.Context, studentID uuid.UUID) (*types.AnalyticsSnapshot, error)
  RecordStudySession(ctx context.Context, studentID, subjectID uuid.UUID, minutes int) error
}

type analyticsService struct {
  log            *logger.Logger
  userRepo       repos.UserRepo
  dailyActivity  repos.DailyActivityRepo
  subjectStudy   repos.SubjectStudyRepo
  subjectRepo    repos.SubjectRepo
  lessonRepo     repos.LessonRepo
  lessonProgress repos.LessonProgressRepo
  quizAttempts   repos.QuizAttemptRepo
  recentActivity repos.RecentActivityRepo
  recentLimit    int
  now            func() time.Time
}

func NewAnalyticsService(
  log *logger.Logger,
  userRepo repos.UserRepo,
  dailyActivity repos.DailyActivityRepo,
  subjectStudy repos.SubjectStudyRepo,
  subjectRepo repos.SubjectRepo,
  lessonRepo repos.LessonRepo,
  lessonProgress repos.LessonProgressRepo,
  quizAttempts repos.QuizAttemptRepo,
  recentActivity repos.RecentActivityRepo,
  now func() time.Time,
) AnalyticsService {
  if now == nil {
    now = time.Now
  }
  return &analyticsService{
    log:            log.With("service", "AnalyticsService"),
    userRepo:       userRepo,
    dailyActivity:  dailyActivity,
    subjectStudy:   subjectStudy,
    subjectRepo:    subjectRepo,
    lessonRepo:     lessonRepo,
    lessonProgress: lessonProgress,
    quizAttempts:   quizAttempts,
    recentActivity: recentActivity,
    recentLimit:    utils.GetEnvAsInt("ANALYTICS_RECENT_ACTIVITY_LIMIT", 10, log),
    now:            now,
  }
}

// Snapshot fans the independent aggregations out and assembles the payload
// the dashboards and the plan generator consume.
func (s *analyticsService) Snapshot(ctx context.Context, studentID uuid.UUID) (*types.AnalyticsSnapshot, error) {
  user, err := s.userRepo.GetByID(ctx, nil, studentID)
  if err != nil {
    return nil, err
  }
  if user == nil {
    return nil, ErrStudentNotFound
  }

  now := s.now().UTC()
  today := repos.DateOnly(now)
  weekStart := today.AddDate(0, 0, -6)
  yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

  snapshot := &types.AnalyticsSnapshot{
    Analytics: types.StudentAnalytics{
      WeeklyStudyMinutes:  []types.WeeklyStudy{},
      SubjectDistribution: []types.SubjectDistribution{},
      SubjectProgress:     []types.SubjectProgress{},
      QuizAttempts:        []types.QuizAttemptSummary{},
    },
    RecentActivities: []types.ActivityEntry{},
    AvailableLessons: []string{},
  }

  g, gctx := errgroup.WithContext(ctx)

  g.Go(func() error {
    days, err := s.dailyActivity.ListBetween(gctx, nil, studentID, weekStart, today)
    if err != nil {
      return err
    }
    byDate := map[string]int{}
    for _, d := range days {
      byDate[d.Date.Format("2006-01-02")] = d.StudyDurationMinutes
    }
    weekly := make([]types.WeeklyStudy, 0, 7)
    for i := 0; i < 7; i++ {
      key := weekStart.AddDate(0, 0, i).Format("2006-01-02")
      weekly = append(weekly, types.WeeklyStudy{Date: key, Duration: byDate[key]})
    }
    snapshot.Analytics.WeeklyStudyMinutes = weekly
    snapshot.Analytics.TodayStudyMinutes = byDate[today.Format("2006-01-02")]
    return nil
  })

  g.Go(func() error {
    present, err := s.dailyActivity.CountPresentBetween(gctx, nil, studentID, yearStart, today)
    if err != nil {
      return err
    }
    snapshot.Analytics.Attendance = types.AttendanceSummary{
      TotalDays:   now.YearDay(),
      PresentDays: int(present),
    }
    return nil
  })

  g.Go(func() error {
    dist, err := s.subjectStudy.TotalsByUser(gctx, nil, studentID)
    if err != nil {
      return err
    }
    if dist != nil {
      snapshot.Analytics.SubjectDistribution = dist
    }
    return nil
  })

  g.Go(func() error {
    summaries, err := s.quizAttempts.SummarizeByLesson(gctx, nil, studentID)
    if err != nil {
      return err
    }
    if summaries != nil {
      snapshot.Analytics.QuizAttempts = summaries
    }
    return nil
  })

  g.Go(func() error {
    activities, err := s.recentActivity.ListRecent(gctx, nil, studentID, s.recentLimit)
    if err != nil {
      return err
    }
    entries := make([]types.ActivityEntry, 0, len(activities))
    for _, a := range activities {
      entries = append(entries, types.ActivityEntry{
        ActivityType: a.ActivityType,
        Details:      a.Details,
        Timestamp:    a.Timestamp,
      })
    }
    snapshot.RecentActivities = entries
    return nil
  })

  if user.ClassID != nil {
    classID := *user.ClassID
    g.Go(func() error {
      progress, err := s.lessonProgress.ProgressBySubject(gctx, nil, studentID, classID)
      if err != nil {
        return err
      }
      if progress != nil {
        snapshot.Analytics.SubjectProgress = progress
      }
      return nil
    })
    g.Go(func() error {
      titles, err := s.lessonRepo.TitlesForClass(gctx, nil, classID)
      if err != nil {
        return err
      }
      if titles != nil {
        snapshot.AvailableLessons = titles
      }
      return nil
    })
  }

  if err := g.Wait(); err != nil {
    return nil, err
  }
  return snapshot, nil
}

// RecordStudySession accumulates minutes on the day row and the per-subject
// breakdown, then logs the session to the activity feed.
func (s *analyticsService) RecordStudySession(ctx context.Context, studentID, subjectID uuid.UUID, minutes int) error {
  if minutes <= 0 {
    return fmt.Errorf("minutes must be positive")
  }

  user, err := s.userRepo.GetByID(ctx, nil, studentID)
  if err != nil {
    return err
  }
  if user == nil {
    return ErrStudentNotFound
  }

  subject, err := s.subjectRepo.GetByID(ctx, nil, subjectID)
  if err != nil {
    return err
  }
  if subject == nil {
    return fmt.Errorf("subject not found")
  }

  now := s.now().UTC()
  day, err := s.dailyActivity.AddStudyMinutes(ctx, nil, studentID, now, minutes)
  if err != nil {
    return err
  }
  if err := s.subjectStudy.AddMinutes(ctx, nil, day.ID, subjectID, minutes); err != nil {
    return err
  }

  _, err = s.recentActivity.Create(ctx, nil, []*types.RecentActivity{{
    UserID:       studentID,
    ActivityType: types.ActivityTypeLesson,
    Details:      fmt.Sprintf("Studied %s for %d minutes", subject.Name, minutes),
    Timestamp:    now,
  }})
  return err
}
