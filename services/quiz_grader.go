package services

import (
	"strconv"

	"github.com/genai-tutor/backend/models"
)

// QuestionResult is the graded detail for a single question, with the
// correct answer and explanation revealed.
type QuestionResult struct {
	QuestionNumber int               `json:"question_number"`
	QuestionText   string            `json:"question_text"`
	Options        map[string]string `json:"options"`
	UserAnswer     string            `json:"user_answer"`
	CorrectAnswer  string            `json:"correct_answer"`
	IsCorrect      bool              `json:"is_correct"`
	Explanation    string            `json:"explanation"`
	Difficulty     string            `json:"difficulty"`
}

// GradeOutcome aggregates a grading pass over one quiz's questions.
type GradeOutcome struct {
	CorrectCount  int
	Score         float64
	Passed        bool
	EasyCorrect   int
	EasyTotal     int
	MediumCorrect int
	MediumTotal   int
	HardCorrect   int
	HardTotal     int
	Results       []QuestionResult
}

// GradeQuiz compares submitted answers against the stored questions and
// fills in each question's UserAnswer/IsCorrect in place.
//
// The answers map is keyed by the zero-based string index of the question:
// key "0" answers question_number 1. The stored questions are 1-based, so
// the lookup subtracts one; changing either side silently misaligns every
// answer. A missing key counts as unanswered and incorrect.
func GradeQuiz(questions []models.QuizQuestion, answers map[string]string) GradeOutcome {
	var outcome GradeOutcome
	outcome.Results = make([]QuestionResult, 0, len(questions))

	for i := range questions {
		q := &questions[i]

		userAnswer := answers[strconv.Itoa(q.QuestionNumber-1)]
		isCorrect := userAnswer == q.CorrectAnswer

		q.UserAnswer = &userAnswer
		q.IsCorrect = &isCorrect

		if isCorrect {
			outcome.CorrectCount++
		}

		// Unrecognized difficulty values fall outside every bucket.
		switch q.Difficulty {
		case "easy":
			outcome.EasyTotal++
			if isCorrect {
				outcome.EasyCorrect++
			}
		case "medium":
			outcome.MediumTotal++
			if isCorrect {
				outcome.MediumCorrect++
			}
		case "hard":
			outcome.HardTotal++
			if isCorrect {
				outcome.HardCorrect++
			}
		}

		outcome.Results = append(outcome.Results, QuestionResult{
			QuestionNumber: q.QuestionNumber,
			QuestionText:   q.QuestionText,
			Options:        q.OptionMap(),
			UserAnswer:     userAnswer,
			CorrectAnswer:  q.CorrectAnswer,
			IsCorrect:      isCorrect,
			Explanation:    q.Explanation,
			Difficulty:     q.Difficulty,
		})
	}

	if len(questions) > 0 {
		outcome.Score = float64(outcome.CorrectCount) / float64(len(questions)) * 100
	}
	outcome.Passed = outcome.Score >= 60

	return outcome
}

// FeedbackForScore picks the feedback message for a final score. The tiers
// are checked top-down; the first match wins.
func FeedbackForScore(score float64) string {
	switch {
	case score >= 90:
		return "🌟 Excellent! You have a strong understanding of this topic!"
	case score >= 70:
		return "👍 Good job! You're on the right track. Review the incorrect answers to improve."
	case score >= 60:
		return "✅ You passed! But there's room for improvement. Practice more on the concepts you missed."
	default:
		return "📚 Keep practicing! Review the explanations and try studying this topic again."
	}
}
