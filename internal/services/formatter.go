package services

import (
	"fmt"
	"strings"

	"github.com/ad/go-telegram-support/internal/models"
)

// FormatQuestionList renders the pending questions for the /questions admin
// command.
func FormatQuestionList(questions []models.PendingQuestion) string {
	if len(questions) == 0 {
		return "Нет заданных вопросов."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Вопросов в очереди: %d\n", len(questions)))
	for i, q := range questions {
		name := q.Username
		if name == "" {
			name = fmt.Sprintf("[%d]", q.UserID)
		}
		sb.WriteString(fmt.Sprintf("\n%d. %s:\n%s\n", i+1, name, q.Text))
	}
	return sb.String()
}
