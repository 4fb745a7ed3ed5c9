package engine

import (
	"github.com/ad/go-telegram-support/internal/models"
)

// QuestionQueue is a FIFO of pending user questions with O(1) removal by id.
// Removed entries are tombstoned in the order slice and skipped on the next
// PeekFirst. Not safe for concurrent use on its own; the MatchingEngine
// serializes access.
type QuestionQueue struct {
	order  []models.MessageID
	byID   map[models.MessageID]*models.PendingQuestion
	nextID models.MessageID
}

func NewQuestionQueue() *QuestionQueue {
	return &QuestionQueue{
		byID:   make(map[models.MessageID]*models.PendingQuestion),
		nextID: 1,
	}
}

func (q *QuestionQueue) Enqueue(userID models.UserID, username, text string) models.MessageID {
	id := q.nextID
	q.nextID++
	q.byID[id] = &models.PendingQuestion{
		ID:       id,
		UserID:   userID,
		Username: username,
		Text:     text,
	}
	q.order = append(q.order, id)
	return id
}

// Restore reinserts a previously persisted question, keeping ids monotonic.
func (q *QuestionQueue) Restore(question models.PendingQuestion) {
	if _, ok := q.byID[question.ID]; ok {
		return
	}
	saved := question
	q.byID[question.ID] = &saved
	q.order = append(q.order, question.ID)
	if question.ID >= q.nextID {
		q.nextID = question.ID + 1
	}
}

// PeekFirst returns the oldest still-queued question without removing it,
// or nil if the queue is empty.
func (q *QuestionQueue) PeekFirst() *models.PendingQuestion {
	q.compact()
	if len(q.order) == 0 {
		return nil
	}
	return q.byID[q.order[0]]
}

// Remove deletes the question with the given id regardless of position.
// A second call for the same id is a no-op returning false; the answer flow
// removes speculatively and relies on that.
func (q *QuestionQueue) Remove(id models.MessageID) bool {
	if _, ok := q.byID[id]; !ok {
		return false
	}
	delete(q.byID, id)
	return true
}

func (q *QuestionQueue) Len() int {
	return len(q.byID)
}

func (q *QuestionQueue) HasFromUser(userID models.UserID) bool {
	for _, question := range q.byID {
		if question.UserID == userID {
			return true
		}
	}
	return false
}

func (q *QuestionQueue) compact() {
	for len(q.order) > 0 {
		if _, ok := q.byID[q.order[0]]; ok {
			return
		}
		q.order = q.order[1:]
	}
}
