package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username string    `gorm:"size:100;not null;unique;index" json:"username"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	Profile          *StudentProfile   `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	LearningSessions []LearningSession `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
