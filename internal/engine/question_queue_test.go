package engine

import (
	"testing"

	"github.com/ad/go-telegram-support/internal/models"
	"pgregory.net/rapid"
)

func TestQuestionQueueFIFO(t *testing.T) {
	q := NewQuestionQueue()

	id1 := q.Enqueue(100, "userA", "Первый вопрос")
	id2 := q.Enqueue(200, "userB", "Второй вопрос")

	first := q.PeekFirst()
	if first == nil || first.ID != id1 {
		t.Fatalf("Expected first question %d, got %+v", id1, first)
	}

	if !q.Remove(id1) {
		t.Fatal("Remove of existing question should return true")
	}

	first = q.PeekFirst()
	if first == nil || first.ID != id2 {
		t.Fatalf("Expected question %d after removal, got %+v", id2, first)
	}
}

func TestQuestionQueueRemoveIdempotent(t *testing.T) {
	q := NewQuestionQueue()
	id := q.Enqueue(100, "userA", "вопрос")
	q.Enqueue(200, "userB", "ещё вопрос")

	lenBefore := q.Len()
	if !q.Remove(id) {
		t.Fatal("First Remove should return true")
	}
	if q.Remove(id) {
		t.Fatal("Second Remove of the same id should return false")
	}
	if q.Len() != lenBefore-1 {
		t.Fatalf("Expected length %d, got %d", lenBefore-1, q.Len())
	}
}

func TestQuestionQueuePeekEmpty(t *testing.T) {
	q := NewQuestionQueue()
	if q.PeekFirst() != nil {
		t.Fatal("PeekFirst on empty queue should return nil")
	}
}

func TestQuestionQueueRestoreKeepsIDsMonotonic(t *testing.T) {
	q := NewQuestionQueue()
	q.Restore(models.PendingQuestion{ID: 7, UserID: 100, Text: "старый вопрос"})

	id := q.Enqueue(200, "userB", "новый вопрос")
	if id <= 7 {
		t.Fatalf("Expected id above restored 7, got %d", id)
	}

	first := q.PeekFirst()
	if first == nil || first.ID != 7 {
		t.Fatalf("Restored question should stay first, got %+v", first)
	}
}

func TestPropertyQueueOrderPreserved(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		q := NewQuestionQueue()
		var live []models.MessageID

		numOps := rapid.IntRange(1, 50).Draw(rt, "numOps")
		for i := 0; i < numOps; i++ {
			if len(live) > 0 && rapid.Bool().Draw(rt, "remove") {
				idx := rapid.IntRange(0, len(live)-1).Draw(rt, "idx")
				id := live[idx]
				if !q.Remove(id) {
					rt.Fatalf("Remove(%d) of live question returned false", id)
				}
				live = append(live[:idx], live[idx+1:]...)
			} else {
				userID := models.UserID(rapid.Int64Range(1, 1000).Draw(rt, "userID"))
				id := q.Enqueue(userID, "", "question")
				live = append(live, id)
			}

			if q.Len() != len(live) {
				rt.Fatalf("Length mismatch: queue %d, model %d", q.Len(), len(live))
			}
			first := q.PeekFirst()
			if len(live) == 0 {
				if first != nil {
					rt.Fatalf("Expected empty queue, got %+v", first)
				}
			} else if first == nil || first.ID != live[0] {
				rt.Fatalf("Expected head %d, got %+v", live[0], first)
			}
		}
	})
}
