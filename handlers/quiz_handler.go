package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/genai-tutor/backend/database"
	"github.com/genai-tutor/backend/models"
	"github.com/genai-tutor/backend/services"
)

// errQuizAlreadySubmitted aborts the grading transaction when the session
// turns out to be completed already.
var errQuizAlreadySubmitted = errors.New("quiz already submitted")

type GenerateQuizRequest struct {
	Username     string `json:"username" validate:"required,min=2"`
	Topic        string `json:"topic" validate:"required,min=2,max=200"`
	Level        string `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	NumQuestions int    `json:"num_questions" validate:"omitempty,gte=3,lte=10"`
}

type QuizQuestionResponse struct {
	ID             uuid.UUID         `json:"id"`
	QuestionNumber int               `json:"question_number"`
	QuestionText   string            `json:"question_text"`
	Options        map[string]string `json:"options"`
	Difficulty     string            `json:"difficulty"`
}

// GenerateQuiz creates a new quiz session: the model generates the
// questions, and session plus questions are persisted in one transaction.
// The answer key never appears in the response.
func GenerateQuiz(c *fiber.Ctx) error {
	var req GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = 5
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), aiTimeout)
	defer cancel()

	drafts, err := aiTutor.GenerateQuiz(ctx, req.Topic, req.Level, req.NumQuestions)
	if err != nil {
		log.Printf("Error generating quiz for %q: %v", req.Topic, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate quiz"})
	}

	quiz := models.QuizSession{
		UserID:         user.ID,
		Topic:          req.Topic,
		Level:          req.Level,
		TotalQuestions: len(drafts),
		StartedAt:      time.Now(),
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}

		questions := make([]models.QuizQuestion, 0, len(drafts))
		for _, draft := range drafts {
			options, err := json.Marshal(draft.Options)
			if err != nil {
				return err
			}
			questions = append(questions, models.QuizQuestion{
				QuizSessionID:  quiz.ID,
				QuestionNumber: draft.QuestionNumber,
				QuestionText:   draft.QuestionText,
				Options:        string(options),
				CorrectAnswer:  draft.CorrectAnswer,
				Difficulty:     draft.Difficulty,
				Concept:        draft.Concept,
				Explanation:    draft.Explanation,
			})
		}
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}

		quiz.Questions = questions
		return nil
	})
	if err != nil {
		log.Printf("Error saving quiz session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save quiz"})
	}

	// Drafts arrive sorted by question number, so the response is too.
	questionsForStudent := make([]QuizQuestionResponse, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questionsForStudent[i] = QuizQuestionResponse{
			ID:             q.ID,
			QuestionNumber: q.QuestionNumber,
			QuestionText:   q.QuestionText,
			Options:        q.OptionMap(),
			Difficulty:     q.Difficulty,
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":              quiz.ID,
		"topic":           quiz.Topic,
		"level":           quiz.Level,
		"total_questions": quiz.TotalQuestions,
		"questions":       questionsForStudent,
		"started_at":      quiz.StartedAt,
	})
}

type SubmitQuizRequest struct {
	QuizSessionID string            `json:"quiz_session_id" validate:"required,uuid4"`
	Answers       map[string]string `json:"answers" validate:"required"`
	TimeTaken     int               `json:"time_taken" validate:"gte=0"`
}

// SubmitQuiz grades a quiz session exactly once. Re-submitting a completed
// session is rejected before anything is touched, and all grading writes
// commit in a single transaction.
func SubmitQuiz(c *fiber.Ctx) error {
	var req SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var quiz models.QuizSession
	var outcome services.GradeOutcome

	// The read-check-mutate sequence runs in one transaction. Completion
	// itself is a guarded update on the session row: two concurrent
	// submissions both read completed=false, but only one update matches
	// the completed=false predicate; the loser rolls back untouched.
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&quiz, "id = ?", req.QuizSessionID).Error; err != nil {
			return err
		}

		if quiz.Completed {
			return errQuizAlreadySubmitted
		}

		var questions []models.QuizQuestion
		if err := tx.
			Where("quiz_session_id = ?", quiz.ID).
			Order("question_number").
			Find(&questions).Error; err != nil {
			return err
		}

		outcome = services.GradeQuiz(questions, req.Answers)

		now := time.Now()
		res := tx.Model(&models.QuizSession{}).
			Where("id = ? AND completed = ?", quiz.ID, false).
			Updates(map[string]interface{}{
				"correct_answers": outcome.CorrectCount,
				"score":           outcome.Score,
				"time_taken":      req.TimeTaken,
				"completed":       true,
				"completed_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errQuizAlreadySubmitted
		}

		quiz.CorrectAnswers = outcome.CorrectCount
		quiz.Score = outcome.Score
		quiz.TimeTaken = req.TimeTaken
		quiz.Completed = true
		quiz.CompletedAt = &now

		for i := range questions {
			if err := tx.Save(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
		}
		if errors.Is(err, errQuizAlreadySubmitted) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Quiz already submitted"})
		}
		log.Printf("Error saving quiz results: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save results"})
	}

	return c.JSON(fiber.Map{
		"quiz_id":         quiz.ID,
		"topic":           quiz.Topic,
		"total_questions": quiz.TotalQuestions,
		"correct_answers": outcome.CorrectCount,
		"score":           outcome.Score,
		"time_taken":      req.TimeTaken,
		"passed":          outcome.Passed,
		"questions":       outcome.Results,
		"easy_correct":    outcome.EasyCorrect,
		"easy_total":      outcome.EasyTotal,
		"medium_correct":  outcome.MediumCorrect,
		"medium_total":    outcome.MediumTotal,
		"hard_correct":    outcome.HardCorrect,
		"hard_total":      outcome.HardTotal,
		"feedback":        services.FeedbackForScore(outcome.Score),
	})
}

// GetQuizHistory lists a user's completed quizzes, newest first, with the
// full per-question detail including answers and explanations.
func GetQuizHistory(c *fiber.Ctx) error {
	username := c.Params("username")
	limit := c.QueryInt("limit", 10)

	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var quizzes []models.QuizSession
	if err := database.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_number")
		}).
		Where("user_id = ? AND completed = ?", user.ID, true).
		Order("completed_at desc").
		Limit(limit).
		Find(&quizzes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load quiz history"})
	}

	history := make([]fiber.Map, 0, len(quizzes))
	for _, quiz := range quizzes {
		questions := make([]fiber.Map, 0, len(quiz.Questions))
		for _, q := range quiz.Questions {
			questions = append(questions, fiber.Map{
				"question_text":  q.QuestionText,
				"user_answer":    q.UserAnswer,
				"correct_answer": q.CorrectAnswer,
				"is_correct":     q.IsCorrect,
				"difficulty":     q.Difficulty,
				"explanation":    q.Explanation,
				"options":        q.OptionMap(),
			})
		}
		history = append(history, fiber.Map{
			"id":              quiz.ID,
			"topic":           quiz.Topic,
			"score":           quiz.Score,
			"correct_answers": quiz.CorrectAnswers,
			"total_questions": quiz.TotalQuestions,
			"time_taken":      quiz.TimeTaken,
			"completed_at":    quiz.CompletedAt,
			"questions":       questions,
		})
	}

	return c.JSON(fiber.Map{"quizzes": history})
}
