package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/genai-tutor/backend/database"
	"github.com/genai-tutor/backend/models"
)

type CreateProfileRequest struct {
	Username         string   `json:"username" validate:"required,min=2,max=100"`
	Email            string   `json:"email" validate:"required,email"`
	ProficiencyLevel string   `json:"proficiency_level" validate:"required,oneof=beginner intermediate advanced"`
	LearningStyle    string   `json:"learning_style" validate:"omitempty,oneof=visual hands-on conceptual"`
	PreferredTopics  []string `json:"preferred_topics"`
}

type ProfileResponse struct {
	ID               string   `json:"id"`
	UserID           string   `json:"user_id"`
	ProficiencyLevel string   `json:"proficiency_level"`
	LearningStyle    string   `json:"learning_style"`
	PreferredTopics  []string `json:"preferred_topics"`
	TotalSessions    int      `json:"total_sessions"`
}

func profileResponse(profile models.StudentProfile) ProfileResponse {
	topics := []string{}
	if err := json.Unmarshal([]byte(profile.PreferredTopics), &topics); err != nil {
		topics = []string{}
	}
	return ProfileResponse{
		ID:               profile.ID.String(),
		UserID:           profile.UserID.String(),
		ProficiencyLevel: profile.ProficiencyLevel,
		LearningStyle:    profile.LearningStyle,
		PreferredTopics:  topics,
		TotalSessions:    profile.TotalSessions,
	}
}

// CreateProfile registers a new student: a User and their StudentProfile
// are created together or not at all.
func CreateProfile(c *fiber.Ctx) error {
	var req CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if req.LearningStyle == "" {
		req.LearningStyle = "visual"
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Fast path for the friendly per-field message; the unique constraints
	// still back this up inside the transaction when two creates race.
	var count int64
	database.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username '" + req.Username + "' is already taken"})
	}
	database.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email '" + req.Email + "' is already registered"})
	}

	if req.PreferredTopics == nil {
		req.PreferredTopics = []string{}
	}
	topics, err := json.Marshal(req.PreferredTopics)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid preferred_topics"})
	}

	var user models.User
	var profile models.StudentProfile

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		user = models.User{
			Username: req.Username,
			Email:    req.Email,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile = models.StudentProfile{
			UserID:           user.ID,
			ProficiencyLevel: req.ProficiencyLevel,
			LearningStyle:    req.LearningStyle,
			PreferredTopics:  string(topics),
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username or email is already registered"})
		}
		log.Printf("Error creating profile for %q: %v", req.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create profile"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":                 user,
		"profile":              profileResponse(profile),
		"recent_sessions":      []models.LearningSession{},
		"total_topics_studied": 0,
	})
}

// GetProfile returns a student's account, preferences and recent study log.
func GetProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User '" + username + "' not found"})
	}

	var profile models.StudentProfile
	if err := database.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	var sessions []models.LearningSession
	database.DB.
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Limit(5).
		Find(&sessions)

	var totalTopics int64
	database.DB.Model(&models.LearningSession{}).Where("user_id = ?", user.ID).Count(&totalTopics)

	return c.JSON(fiber.Map{
		"user":                 user,
		"profile":              profileResponse(profile),
		"recent_sessions":      sessions,
		"total_topics_studied": totalTopics,
	})
}

type UpdateProfileRequest struct {
	ProficiencyLevel *string   `json:"proficiency_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	LearningStyle    *string   `json:"learning_style" validate:"omitempty,oneof=visual hands-on conceptual"`
	PreferredTopics  *[]string `json:"preferred_topics"`
}

// UpdateProfile changes only the fields the caller supplied.
func UpdateProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User '" + username + "' not found"})
	}

	var profile models.StudentProfile
	if err := database.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.ProficiencyLevel != nil {
		profile.ProficiencyLevel = *req.ProficiencyLevel
	}
	if req.LearningStyle != nil {
		profile.LearningStyle = *req.LearningStyle
	}
	if req.PreferredTopics != nil {
		topics, err := json.Marshal(*req.PreferredTopics)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid preferred_topics"})
		}
		profile.PreferredTopics = string(topics)
	}

	if err := database.DB.Save(&profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(profileResponse(profile))
}

// GetLearningHistory lists a student's study log, newest first.
func GetLearningHistory(c *fiber.Ctx) error {
	username := c.Params("username")
	limit := c.QueryInt("limit", 10)

	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User '" + username + "' not found"})
	}

	var sessions []models.LearningSession
	if err := database.DB.
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load history"})
	}

	return c.JSON(sessions)
}
