package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/genai-tutor/backend/handlers"
)

func QuizRoutes(app *fiber.App) {
	api := app.Group("/api")

	quiz := api.Group("/quiz")
	quiz.Post("/generate", handlers.GenerateQuiz)
	quiz.Post("/submit", handlers.SubmitQuiz)
	quiz.Get("/:username/history", handlers.GetQuizHistory)
}
