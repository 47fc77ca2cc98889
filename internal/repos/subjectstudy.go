package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

type SubjectStudyRepo interface {
  AddMinutes(ctx context.Context, tx *gorm.DB, dailyActivityID, subjectID uuid.UUID, minutes int) error
  TotalsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.SubjectDistribution, error)
}

type subjectStudyRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSubjectStudyRepo(db *gorm.DB, baseLog *logger.Logger) SubjectStudyRepo {
  repoLog := baseLog.With("repo", "SubjectStudyRepo")
  return &subjectStudyRepo{db: db, log: repoLog}
}

func (r *subjectStudyRepo) AddMinutes(ctx context.Context, tx *gorm.DB, dailyActivityID, subjectID uuid.UUID, minutes int) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var existing []*types.UserSubjectStudy
  if err := transaction.WithContext(ctx).
    Where("daily_activity_id = ? AND subject_id = ?", dailyActivityID, subjectID).
    Limit(1).
    Find(&existing).Error; err != nil {
    return err
  }
  if len(existing) == 0 {
    row := &types.UserSubjectStudy{
      ID:              uuid.New(),
      DailyActivityID: dailyActivityID,
      SubjectID:       subjectID,
      DurationMinutes: minutes,
    }
    return transaction.WithContext(ctx).Create(row).Error
  }

  return transaction.WithContext(ctx).
    Model(&types.UserSubjectStudy{}).
    Where("id = ?", existing[0].ID).
    Update("duration_minutes", existing[0].DurationMinutes+minutes).Error
}

func (r *subjectStudyRepo) TotalsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.SubjectDistribution, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var rows []struct {
    SubjectName   string
    TotalDuration int
  }
  if err := transaction.WithContext(ctx).
    Table("user_subject_study").
    Select("subject.name AS subject_name, SUM(user_subject_study.duration_minutes) AS total_duration").
    Joins("JOIN user_daily_activity ON user_daily_activity.id = user_subject_study.daily_activity_id").
    Joins("JOIN subject ON subject.id = user_subject_study.subject_id").
    Where("user_daily_activity.user_id = ?", userID).
    Group("subject.name").
    Order("total_duration DESC").
    Scan(&rows).Error; err != nil {
    return nil, err
  }

  out := make([]types.SubjectDistribution, 0, len(rows))
  for _, row := range rows {
    out = append(out, types.SubjectDistribution{
      SubjectName:   row.SubjectName,
      TotalDuration: row.TotalDuration,
    })
  }
  return out, nil
}
