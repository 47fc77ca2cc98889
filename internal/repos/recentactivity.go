package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

type RecentActivityRepo interface {
  Create(ctx context.Context, tx *gorm.DB, activities []*types.RecentActivity) ([]*types.RecentActivity, error)
  ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.RecentActivity, error)
}

type recentActivityRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRecentActivityRepo(db *gorm.DB, baseLog *logger.Logger) RecentActivityRepo {
  repoLog := baseLog.With("repo", "RecentActivityRepo")
  return &recentActivityRepo{db: db, log: repoLog}
}

func (r *recentActivityRepo) Create(ctx context.Context, tx *gorm.DB, activities []*types.RecentActivity) ([]*types.RecentActivity, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(activities) == 0 {
    return []*types.RecentActivity{}, nil
  }
  for _, a := range activities {
    if a.ID == uuid.Nil {
      a.ID = uuid.New()
    }
    if a.Timestamp.IsZero() {
      a.Timestamp = time.Now().UTC()
    }
  }

  if err := transaction.WithContext(ctx).Create(&activities).Error; err != nil {
    return nil, err
  }
  return activities, nil
}

// ListRecent returns activities newest first.
func (r *recentActivityRepo) ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.RecentActivity, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if limit <= 0 {
    limit = 20
  }

  var results []*types.RecentActivity
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("timestamp DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
