package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

type DailyActivityRepo interface {
  GetForDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*types.UserDailyActivity, error)
  ListBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.UserDailyActivity, error)
  CountPresentBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int64, error)
  AddStudyMinutes(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time, minutes int) (*types.UserDailyActivity, error)
}

type dailyActivityRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDailyActivityRepo(db *gorm.DB, baseLog *logger.Logger) DailyActivityRepo {
  repoLog := baseLog.With("repo", "DailyActivityRepo")
  return &dailyActivityRepo{db: db, log: repoLog}
}

// DateOnly normalizes an instant to UTC midnight so the per-day unique index
// holds regardless of the caller's zone.
func DateOnly(t time.Time) time.Time {
  y, m, d := t.UTC().Date()
  return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *dailyActivityRepo) GetForDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*types.UserDailyActivity, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserDailyActivity
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND date = ?", userID, DateOnly(date)).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (r *dailyActivityRepo) ListBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.UserDailyActivity, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserDailyActivity
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND date >= ? AND date <= ?", userID, DateOnly(from), DateOnly(to)).
    Order("date ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *dailyActivityRepo) CountPresentBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.UserDailyActivity{}).
    Where("user_id = ? AND present = ? AND date >= ? AND date <= ?", userID, true, DateOnly(from), DateOnly(to)).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

// AddStudyMinutes upserts the day row, accumulating minutes and marking the
// student present for the day.
func (r *dailyActivityRepo) AddStudyMinutes(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time, minutes int) (*types.UserDailyActivity, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  existing, err := r.GetForDate(ctx, transaction, userID, date)
  if err != nil {
    return nil, err
  }
  if existing == nil {
    row := &types.UserDailyActivity{
      ID:                   uuid.New(),
      UserID:               userID,
      Date:                 DateOnly(date),
      Present:              true,
      StudyDurationMinutes: minutes,
    }
    if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
      return nil, err
    }
    return row, nil
  }

  existing.Present = true
  existing.StudyDurationMinutes += minutes
  if err := transaction.WithContext(ctx).
    Model(&types.UserDailyActivity{}).
    Where("id = ?", existing.ID).
    Updates(map[string]interface{}{
      "present":                true,
      "study_duration_minutes": existing.StudyDurationMinutes,
    }).Error; err != nil {
    return nil, err
  }
  return existing, nil
}
