package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LearningSession is one study-log entry: a topic a student asked to have
// explained, with the generated explanation and its reading stats.
type LearningSession struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID               uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Topic                string    `gorm:"size:255;not null" json:"topic"`
	Level                string    `gorm:"size:20;not null" json:"level"`
	LearningStyle        string    `gorm:"size:50;default:'visual'" json:"learning_style"`
	Explanation          string    `gorm:"type:text" json:"-"`
	WordCount            int       `gorm:"default:0" json:"word_count"`
	EstimatedReadingTime int       `gorm:"default:0" json:"estimated_reading_time"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *LearningSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
