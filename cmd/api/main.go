package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	config "github.com/genai-tutor/backend/configs"
	"github.com/genai-tutor/backend/database"
	"github.com/genai-tutor/backend/handlers"
	"github.com/genai-tutor/backend/jobs"
	"github.com/genai-tutor/backend/routes"
	"github.com/genai-tutor/backend/services"
)

func main() {
	database.ConnectDB()
	database.Migrate()

	handlers.SetAITutor(services.NewAITutor(
		config.Config("GROQ_API_KEY"),
		config.Config("GROQ_BASE_URL"),
		config.Config("GROQ_MODEL"),
	))

	c := cron.New()
	c.AddFunc("@hourly", jobs.CleanupAbandonedQuizzes)
	go c.Start()
	log.Println("✅ Cron job for quiz cleanup scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "GenAI Tutor API",
		CaseSensitive: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  90 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  config.ConfigOr("FRONTEND_URL", "http://localhost:3000"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to GenAI Tutor API!",
			"status":  "running",
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
		})
	})

	routes.ProfileRoutes(app)
	routes.LearningRoutes(app)
	routes.QuizRoutes(app)

	port := config.ConfigOr("PORT", "8080")
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
