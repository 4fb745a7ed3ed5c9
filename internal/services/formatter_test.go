package services

import (
	"strings"
	"testing"

	"github.com/ad/go-telegram-support/internal/models"
)

func TestFormatQuestionListEmpty(t *testing.T) {
	if got := FormatQuestionList(nil); got != "Нет заданных вопросов." {
		t.Fatalf("Unexpected empty-list text: %q", got)
	}
}

func TestFormatQuestionList(t *testing.T) {
	questions := []models.PendingQuestion{
		{ID: 1, UserID: 100, Username: "vasya", Text: "Первый вопрос"},
		{ID: 2, UserID: 200, Text: "Второй вопрос"},
	}

	got := FormatQuestionList(questions)
	if !strings.Contains(got, "Вопросов в очереди: 2") {
		t.Fatalf("Missing count line: %q", got)
	}
	if !strings.Contains(got, "1. vasya:") {
		t.Fatalf("Missing numbered username entry: %q", got)
	}
	if !strings.Contains(got, "2. [200]:") {
		t.Fatalf("Missing id fallback for user without username: %q", got)
	}
	if !strings.Contains(got, "Второй вопрос") {
		t.Fatalf("Missing question text: %q", got)
	}
}
