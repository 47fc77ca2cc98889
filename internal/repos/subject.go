package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

type SubjectRepo interface {
  Create(ctx context.Context, tx *gorm.DB, subjects []*types.Subject) ([]*types.Subject, error)
  GetByID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) (*types.Subject, error)
  ListForClass(ctx context.Context, tx *gorm.DB, classID uuid.UUID) ([]*types.Subject, error)
}

type subjectRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
  repoLog := baseLog.With("repo", "SubjectRepo")
  return &subjectRepo{db: db, log: repoLog}
}

func (r *subjectRepo) Create(ctx context.Context, tx *gorm.DB, subjects []*types.Subject) ([]*types.Subject, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(subjects) == 0 {
    return []*types.Subject{}, nil
  }
  for _, s := range subjects {
    if s.ID == uuid.Nil {
      s.ID = uuid.New()
    }
  }

  if err := transaction.WithContext(ctx).Create(&subjects).Error; err != nil {
    return nil, err
  }
  return subjects, nil
}

func (r *subjectRepo) GetByID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) (*types.Subject, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Subject
  if err := transaction.WithContext(ctx).
    Where("id = ?", subjectID).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (r *subjectRepo) ListForClass(ctx context.Context, tx *gorm.DB, classID uuid.UUID) ([]*types.Subject, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Subject
  if err := transaction.WithContext(ctx).
    Where("class_id = ?", classID).
    Order("name ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
