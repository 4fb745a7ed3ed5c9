package db

import (
	"database/sql"
	"log"

	"github.com/ad/go-telegram-support/internal/models"
)

// QuestionArchive is the engine's question log. Writes go through
// ExecuteAsync because the engine calls these while holding its lock;
// failures are logged, never surfaced back into the matching flow.
type QuestionArchive struct {
	queue *DBQueue
}

func NewQuestionArchive(queue *DBQueue) *QuestionArchive {
	return &QuestionArchive{queue: queue}
}

func (a *QuestionArchive) QuestionQueued(question models.PendingQuestion) {
	a.queue.ExecuteAsync(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO questions (queue_id, user_id, username, text)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(queue_id) DO NOTHING
		`, int64(question.ID), int64(question.UserID), question.Username, question.Text)
		if err != nil {
			log.Printf("[ARCHIVE] Failed to store question %d: %v", question.ID, err)
		}
		return nil, err
	})
}

func (a *QuestionArchive) QuestionAnswered(question models.PendingQuestion, adminID models.AdminID, answer string) {
	a.queue.ExecuteAsync(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			UPDATE questions
			SET status = ?, answered_by = ?, answer_text = ?, answered_at = CURRENT_TIMESTAMP
			WHERE queue_id = ?
		`, QuestionStatusAnswered, int64(adminID), answer, int64(question.ID))
		if err != nil {
			log.Printf("[ARCHIVE] Failed to mark question %d answered: %v", question.ID, err)
		}
		return nil, err
	})
}
