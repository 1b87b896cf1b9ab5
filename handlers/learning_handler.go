package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/genai-tutor/backend/database"
	"github.com/genai-tutor/backend/models"
	"github.com/genai-tutor/backend/services"
)

var validate = validator.New()

// aiTutor is the upstream text-generation dependency, injected from main
// so tests can swap in a fake client.
var aiTutor *services.AITutor

func SetAITutor(t *services.AITutor) {
	aiTutor = t
}

// aiTimeout bounds every upstream completion call; the model round trip is
// the only slow operation in the system.
const aiTimeout = 60 * time.Second

type GreetingRequest struct {
	StudentName string `json:"student_name" validate:"required,min=1,max=100"`
	Level       string `json:"level" validate:"required,oneof=beginner intermediate advanced"`
}

func GetGreeting(c *fiber.Ctx) error {
	var req GreetingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), aiTimeout)
	defer cancel()

	greeting, err := aiTutor.GenerateGreeting(ctx, req.StudentName, req.Level)
	if err != nil {
		log.Printf("Error generating greeting: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error generating greeting"})
	}

	return c.JSON(fiber.Map{
		"greeting":     greeting,
		"student_name": req.StudentName,
		"level":        req.Level,
	})
}

type TopicRequest struct {
	Username      string `json:"username" validate:"omitempty,min=2,max=100"`
	Topic         string `json:"topic" validate:"required,min=1,max=200"`
	Level         string `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	LearningStyle string `json:"learning_style" validate:"omitempty,oneof=visual hands-on conceptual"`
}

func ExplainTopic(c *fiber.Ctx) error {
	var req TopicRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if req.LearningStyle == "" {
		req.LearningStyle = "visual"
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), aiTimeout)
	defer cancel()

	result, err := aiTutor.ExplainTopic(ctx, req.Topic, req.Level, req.LearningStyle)
	if err != nil {
		log.Printf("Error explaining topic %q: %v", req.Topic, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error explaining topic"})
	}

	// When the caller identifies themselves, record the session so it
	// shows up in their learning history.
	if req.Username != "" {
		if err := recordLearningSession(req, result); err != nil {
			log.Printf("Error recording learning session for %q: %v", req.Username, err)
		}
	}

	return c.JSON(result)
}

func recordLearningSession(req TopicRequest, result *services.Explanation) error {
	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // anonymous study is fine
		}
		return err
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		session := models.LearningSession{
			UserID:               user.ID,
			Topic:                req.Topic,
			Level:                req.Level,
			LearningStyle:        req.LearningStyle,
			Explanation:          result.Explanation,
			WordCount:            result.WordCount,
			EstimatedReadingTime: result.EstimatedReadingTime,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		return tx.Model(&models.StudentProfile{}).
			Where("user_id = ?", user.ID).
			UpdateColumn("total_sessions", gorm.Expr("total_sessions + 1")).Error
	})
}

type PracticeQuestionsRequest struct {
	Topic        string `json:"topic" validate:"required,min=1,max=200"`
	Level        string `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	NumQuestions int    `json:"num_questions" validate:"omitempty,gte=1,lte=5"`
}

func GetPracticeQuestions(c *fiber.Ctx) error {
	var req PracticeQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = 3
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), aiTimeout)
	defer cancel()

	questions, err := aiTutor.GeneratePracticeQuestions(ctx, req.Topic, req.Level, req.NumQuestions)
	if err != nil {
		log.Printf("Error generating practice questions for %q: %v", req.Topic, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error generating questions"})
	}

	return c.JSON(fiber.Map{
		"topic":     req.Topic,
		"level":     req.Level,
		"questions": questions,
		"count":     req.NumQuestions,
	})
}
