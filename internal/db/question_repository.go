package db

import (
	"database/sql"

	"github.com/ad/go-telegram-support/internal/models"
)

const (
	QuestionStatusPending  = "pending"
	QuestionStatusAnswered = "answered"
)

// QuestionRepository stores every queued question. Pending rows are reloaded
// into the in-memory queue on startup; answered rows stay as history.
type QuestionRepository struct {
	queue *DBQueue
}

func NewQuestionRepository(queue *DBQueue) *QuestionRepository {
	return &QuestionRepository{queue: queue}
}

func (r *QuestionRepository) Create(question models.PendingQuestion) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO questions (queue_id, user_id, username, text)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(queue_id) DO NOTHING
		`, int64(question.ID), int64(question.UserID), question.Username, question.Text)
		return nil, err
	})
	return err
}

func (r *QuestionRepository) MarkAnswered(queueID models.MessageID, adminID models.AdminID, answer string) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			UPDATE questions
			SET status = ?, answered_by = ?, answer_text = ?, answered_at = CURRENT_TIMESTAMP
			WHERE queue_id = ?
		`, QuestionStatusAnswered, int64(adminID), answer, int64(queueID))
		return nil, err
	})
	return err
}

// ListPending returns unanswered questions in submission order.
func (r *QuestionRepository) ListPending() ([]models.PendingQuestion, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT queue_id, user_id, username, text
			FROM questions WHERE status = ? ORDER BY queue_id
		`, QuestionStatusPending)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var questions []models.PendingQuestion
		for rows.Next() {
			var q models.PendingQuestion
			var username sql.NullString
			if err := rows.Scan(&q.ID, &q.UserID, &username, &q.Text); err != nil {
				return nil, err
			}
			q.Username = username.String
			questions = append(questions, q)
		}
		return questions, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.PendingQuestion), nil
}

func (r *QuestionRepository) CountPending() (int, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		var count int
		err := db.QueryRow(`SELECT COUNT(*) FROM questions WHERE status = ?`, QuestionStatusPending).Scan(&count)
		return count, err
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}
