package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentProfile stores a student's learning preferences, one per user.
type StudentProfile struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;unique" json:"user_id"`
	ProficiencyLevel string    `gorm:"size:20;default:'beginner'" json:"proficiency_level"`
	LearningStyle    string    `gorm:"size:50;default:'visual'" json:"learning_style"`
	PreferredTopics  string    `gorm:"type:text;default:'[]'" json:"-"`
	TotalSessions    int       `gorm:"default:0" json:"total_sessions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *StudentProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
