package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

type QuizAttemptRepo interface {
  Create(ctx context.Context, tx *gorm.DB, attempts []*types.UserQuizAttempt) ([]*types.UserQuizAttempt, error)
  SummarizeByLesson(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.QuizAttemptSummary, error)
}

type quizAttemptRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
  repoLog := baseLog.With("repo", "QuizAttemptRepo")
  return &quizAttemptRepo{db: db, log: repoLog}
}

func (r *quizAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempts []*types.UserQuizAttempt) ([]*types.UserQuizAttempt, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(attempts) == 0 {
    return []*types.UserQuizAttempt{}, nil
  }
  for _, a := range attempts {
    if a.ID == uuid.Nil {
      a.ID = uuid.New()
    }
    if a.AttemptedAt.IsZero() {
      a.AttemptedAt = time.Now().UTC()
    }
  }

  if err := transaction.WithContext(ctx).Create(&attempts).Error; err != nil {
    return nil, err
  }
  return attempts, nil
}

// SummarizeByLesson rolls attempts up per lesson title: attempt count plus the
// score of the latest passed attempt (nil when the student never passed).
func (r *quizAttemptRepo) SummarizeByLesson(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.QuizAttemptSummary, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var rows []struct {
    LessonTitle string
    Score       float64
    Passed      bool
    AttemptedAt time.Time
  }
  if err := transaction.WithContext(ctx).
    Table("user_quiz_attempt").
    Select("lesson.title AS lesson_title, user_quiz_attempt.score, user_quiz_attempt.passed, user_quiz_attempt.attempted_at").
    Joins("JOIN lesson ON lesson.id = user_quiz_attempt.lesson_id").
    Where("user_quiz_attempt.user_id = ?", userID).
    Order("lesson.title ASC, user_quiz_attempt.attempted_at ASC").
    Scan(&rows).Error; err != nil {
    return nil, err
  }

  var out []types.QuizAttemptSummary
  index := map[string]int{}
  for _, row := range rows {
    i, ok := index[row.LessonTitle]
    if !ok {
      out = append(out, types.QuizAttemptSummary{LessonTitle: row.LessonTitle})
      i = len(out) - 1
      index[row.LessonTitle] = i
    }
    out[i].Attempts++
    if row.Passed {
      score := row.Score
      out[i].FinalScore = &score
    }
  }
  return out, nil
}
