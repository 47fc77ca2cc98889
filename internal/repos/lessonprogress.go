package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

type LessonProgressRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID, completed bool) error
  ProgressBySubject(ctx context.Context, tx *gorm.DB, userID, classID uuid.UUID) ([]types.SubjectProgress, error)
}

type lessonProgressRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
  repoLog := baseLog.With("repo", "LessonProgressRepo")
  return &lessonProgressRepo{db: db, log: repoLog}
}

func (r *lessonProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID, completed bool) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var existing []*types.UserLessonProgress
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND lesson_id = ?", userID, lessonID).
    Limit(1).
    Find(&existing).Error; err != nil {
    return err
  }

  now := time.Now().UTC()
  if len(existing) == 0 {
    row := &types.UserLessonProgress{
      ID:        uuid.New(),
      UserID:    userID,
      LessonID:  lessonID,
      Completed: completed,
    }
    if completed {
      row.CompletedAt = &now
    }
    return transaction.WithContext(ctx).Create(row).Error
  }

  updates := map[string]interface{}{"completed": completed}
  if completed && existing[0].CompletedAt == nil {
    updates["completed_at"] = &now
  }
  return transaction.WithContext(ctx).
    Model(&types.UserLessonProgress{}).
    Where("id = ?", existing[0].ID).
    Updates(updates).Error
}

// ProgressBySubject returns per-subject lesson completion for every subject in
// the class, including subjects the student has not touched yet.
func (r *lessonProgressRepo) ProgressBySubject(ctx context.Context, tx *gorm.DB, userID, classID uuid.UUID) ([]types.SubjectProgress, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var rows []struct {
    SubjectName      string
    CompletedLessons int
    TotalLessons     int
  }
  if err := transaction.WithContext(ctx).
    Table("subject").
    Select(`subject.name AS subject_name,
            COUNT(lesson.id) AS total_lessons,
            COALESCE(SUM(CASE WHEN user_lesson_progress.completed THEN 1 ELSE 0 END), 0) AS completed_lessons`).
    Joins("LEFT JOIN lesson ON lesson.subject_id = subject.id").
    Joins("LEFT JOIN user_lesson_progress ON user_lesson_progress.lesson_id = lesson.id AND user_lesson_progress.user_id = ?", userID).
    Where("subject.class_id = ?", classID).
    Group("subject.name").
    Order("subject.name ASC").
    Scan(&rows).Error; err != nil {
    return nil, err
  }

  out := make([]types.SubjectProgress, 0, len(rows))
  for _, row := range rows {
    out = append(out, types.SubjectProgress{
      SubjectName:      row.SubjectName,
      CompletedLessons: row.CompletedLessons,
      TotalLessons:     row.TotalLessons,
    })
  }
  return out, nil
}
