package jobs

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/genai-tutor/backend/database"
	"github.com/genai-tutor/backend/models"
)

// abandonedAfter is how long a quiz session may stay open before it is
// considered abandoned and purged.
const abandonedAfter = 24 * time.Hour

func CleanupAbandonedQuizzes() {
	log.Println("Running job: CleanupAbandonedQuizzes...")

	cutoff := time.Now().Add(-abandonedAfter)

	var stale []models.QuizSession
	err := database.DB.
		Where("completed = ? AND started_at < ?", false, cutoff).
		Find(&stale).Error
	if err != nil {
		log.Printf("Error finding abandoned quizzes: %v", err)
		return
	}

	if len(stale) == 0 {
		log.Println("No abandoned quizzes found.")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		for _, quiz := range stale {
			if err := tx.Where("quiz_session_id = ?", quiz.ID).Delete(&models.QuizQuestion{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&quiz).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error deleting abandoned quizzes: %v", err)
		return
	}

	log.Printf("Deleted %d abandoned quiz session(s).", len(stale))
}
