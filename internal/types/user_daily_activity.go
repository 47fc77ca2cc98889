package types

import (
	"time"
	"github.com/google/uuid"
)

// UserDailyActivity tracks one row per student per calendar day: presence plus
// accumulated study minutes. Date is normalized to UTC midnight.
type UserDailyActivity struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID `gorm:"type:uuid;not null;index:idx_daily_activity_user_date,unique" json:"user_id"`
	User                 *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Date                 time.Time `gorm:"not null;index:idx_daily_activity_user_date,unique" json:"date"`
	Present              bool      `gorm:"not null;default:false" json:"present"`
	StudyDurationMinutes int       `gorm:"not null;default:0" json:"study_duration_minutes"`
	CreatedAt            time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time `gorm:"not null" json:"updated_at"`
}

func (UserDailyActivity) TableName() string { return "user_daily_activity" }
