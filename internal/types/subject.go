package types

import (
	"time"
	"github.com/google/uuid"
)

type Subject struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ClassID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"class_id"`
	Class     *SchoolClass `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClassID;references:ID" json:"class,omitempty"`
	Name      string       `gorm:"not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

func (Subject) TableName() string { return "subject" }
