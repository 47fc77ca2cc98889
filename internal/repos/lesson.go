package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

type LessonRepo interface {
  Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error)
  TitlesForClass(ctx context.Context, tx *gorm.DB, classID uuid.UUID) ([]string, error)
}

type lessonRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
  repoLog := baseLog.With("repo", "LessonRepo")
  return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(lessons) == 0 {
    return []*types.Lesson{}, nil
  }
  for _, l := range lessons {
    if l.ID == uuid.Nil {
      l.ID = uuid.New()
    }
  }

  if err := transaction.WithContext(ctx).Create(&lessons).Error; err != nil {
    return nil, err
  }
  return lessons, nil
}

func (r *lessonRepo) TitlesForClass(ctx context.Context, tx *gorm.DB, classID uuid.UUID) ([]string, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var titles []string
  if err := transaction.WithContext(ctx).
    Table("lesson").
    Select("lesson.title").
    Joins("JOIN subject ON subject.id = lesson.subject_id").
    Where("subject.class_id = ?", classID).
    Order("subject.name ASC, lesson.lesson_order ASC").
    Scan(&titles).Error; err != nil {
    return nil, err
  }
  return titles, nil
}
