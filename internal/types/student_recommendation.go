package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StudentRecommendation is one generated study plan for a student. Rows are
// append-only: never updated or deleted by the recommendation lifecycle; the
// active plan is always the newest row per student.
type StudentRecommendation struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID      `gorm:"type:uuid;not null;index:idx_recommendation_student_created" json:"student_id"`
	Student   *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Plan      datatypes.JSON `gorm:"type:jsonb;not null" json:"plan"`
	CreatedAt time.Time      `gorm:"not null;index:idx_recommendation_student_created" json:"created_at"`
}

func (StudentRecommendation) TableName() string { return "student_recommendation" }
