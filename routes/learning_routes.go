package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/genai-tutor/backend/handlers"
)

func LearningRoutes(app *fiber.App) {
	api := app.Group("/api")

	learning := api.Group("/learning")
	learning.Post("/greeting", handlers.GetGreeting)
	learning.Post("/explain", handlers.ExplainTopic)
	learning.Post("/practice", handlers.GetPracticeQuestions)
}
