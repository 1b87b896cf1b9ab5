package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/genai-tutor/backend/handlers"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api")

	profile := api.Group("/profile")
	profile.Post("/create", handlers.CreateProfile)
	profile.Get("/:username", handlers.GetProfile)
	profile.Put("/:username/update", handlers.UpdateProfile)
	profile.Get("/:username/history", handlers.GetLearningHistory)
}
