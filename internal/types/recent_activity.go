package types

import (
	"time"
	"github.com/google/uuid"
)

const (
	ActivityTypeLesson  = "Lesson"
	ActivityTypeQuiz    = "Quiz"
	ActivityTypeReward  = "Reward"
	ActivityTypeLogin   = "Login"
	ActivityTypeLogout  = "Logout"
	ActivityTypeLibrary = "Library"
	ActivityTypeOther   = "Other"
)

type RecentActivity struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ActivityType string    `gorm:"not null;index" json:"activity_type"`
	Details      string    `gorm:"not null" json:"details"`
	Timestamp    time.Time `gorm:"not null;index" json:"timestamp"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (RecentActivity) TableName() string { return "recent_activity" }
