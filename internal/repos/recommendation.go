package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

// RecommendationRepo is the append-only store behind the recommendation
// lifecycle. Rows are never updated or deleted here.
type RecommendationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rec *types.StudentRecommendation) (*types.StudentRecommendation, error)
  MostRecent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.StudentRecommendation, error)
  ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.StudentRecommendation, error)
  CountByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error)
}

type recommendationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRepo {
  repoLog := baseLog.With("repo", "RecommendationRepo")
  return &recommendationRepo{db: db, log: repoLog}
}

func (r *recommendationRepo) Create(ctx context.Context, tx *gorm.DB, rec *types.StudentRecommendation) (*types.StudentRecommendation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if rec.ID == uuid.Nil {
    rec.ID = uuid.New()
  }
  if rec.CreatedAt.IsZero() {
    rec.CreatedAt = time.Now().UTC()
  }

  if err := transaction.WithContext(ctx).Create(rec).Error; err != nil {
    return nil, err
  }
  return rec, nil
}

// MostRecent returns the newest record for the student, or nil when none
// exists. Identical timestamps break toward the highest id.
func (r *recommendationRepo) MostRecent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.StudentRecommendation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.StudentRecommendation
  if err := transaction.WithContext(ctx).
    Where("student_id = ?", studentID).
    Order("created_at DESC, id DESC").
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (r *recommendationRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.StudentRecommendation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.StudentRecommendation
  if err := transaction.WithContext(ctx).
    Where("student_id = ?", studentID).
    Order("created_at DESC, id DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *recommendationRepo) CountByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.StudentRecommendation{}).
    Where("student_id = ?", studentID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
