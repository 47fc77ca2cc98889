package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserQuizAttempt struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	LessonID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson      *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Score       float64        `gorm:"not null;default:0" json:"score"`
	Passed      bool           `gorm:"not null;default:false" json:"passed"`
	Answers     datatypes.JSON `gorm:"type:jsonb" json:"answers,omitempty"`
	AttemptedAt time.Time      `gorm:"not null;index" json:"attempted_at"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (UserQuizAttempt) TableName() string { return "user_quiz_attempt" }
