package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizSession is one quiz attempt, from generation through grading.
// CompletedAt is set if and only if Completed is true; Score is only
// meaningful once Completed is true.
type QuizSession struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	Topic          string     `gorm:"size:255;not null" json:"topic"`
	Level          string     `gorm:"size:20;not null" json:"level"`
	TotalQuestions int        `gorm:"default:5" json:"total_questions"`
	CorrectAnswers int        `gorm:"default:0" json:"correct_answers"`
	Score          float64    `gorm:"default:0" json:"score"`
	TimeTaken      int        `gorm:"default:0" json:"time_taken"`
	Completed      bool       `gorm:"default:false" json:"completed"`
	StartedAt      time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizSessionID" json:"questions,omitempty"`
}

func (s *QuizSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// QuizQuestion is a single multiple-choice question within a session.
// QuestionNumber values for a session form a contiguous 1-based sequence.
// UserAnswer and IsCorrect stay null until the session is graded.
type QuizQuestion struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuizSessionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_session_id"`
	QuestionNumber int       `gorm:"not null" json:"question_number"`
	QuestionText   string    `gorm:"type:text;not null" json:"question_text"`
	Options        string    `gorm:"type:text;not null" json:"-"`
	CorrectAnswer  string    `gorm:"size:1;not null" json:"-"`
	UserAnswer     *string   `gorm:"size:1" json:"user_answer,omitempty"`
	IsCorrect      *bool     `json:"is_correct,omitempty"`
	Difficulty     string    `gorm:"size:20;default:'medium'" json:"difficulty"`
	Concept        string    `gorm:"size:255" json:"concept"`
	Explanation    string    `gorm:"type:text" json:"explanation"`
}

func (q *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// OptionMap decodes the JSON-encoded options column. An empty map is
// returned if the column is malformed, which only happens if a row was
// written outside the generator.
func (q *QuizQuestion) OptionMap() map[string]string {
	options := make(map[string]string)
	if err := json.Unmarshal([]byte(q.Options), &options); err != nil {
		return map[string]string{}
	}
	return options
}
