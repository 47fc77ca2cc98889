package types

import (
	"time"
	"github.com/google/uuid"
)

type UserLessonProgress struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_lesson_progress_user_lesson,unique" json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	LessonID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_lesson_progress_user_lesson,unique" json:"lesson_id"`
	Lesson      *Lesson    `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (UserLessonProgress) TableName() string { return "user_lesson_progress" }
