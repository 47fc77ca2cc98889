package types

import (
	"time"
	"github.com/google/uuid"
)

// UserSubjectStudy splits a daily activity's study minutes across subjects.
type UserSubjectStudy struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	DailyActivityID uuid.UUID          `gorm:"type:uuid;not null;index" json:"daily_activity_id"`
	DailyActivity   *UserDailyActivity `gorm:"constraint:OnDelete:CASCADE;foreignKey:DailyActivityID;references:ID" json:"daily_activity,omitempty"`
	SubjectID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"subject_id"`
	Subject         *Subject           `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	DurationMinutes int                `gorm:"not null;default:0" json:"duration_minutes"`
	CreatedAt       time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"not null" json:"updated_at"`
}

func (UserSubjectStudy) TableName() string { return "user_subject_study" }
