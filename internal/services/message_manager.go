package services

import (
	"context"
	"errors"

	"github.com/ad/go-telegram-support/internal/models"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

var ErrSendFailed = errors.New("failed to send message after retry")

// MessageManager delivers outbound effects with a small retry. A failed
// delivery is reported to the admin and dropped; the engine never re-attempts
// notifications.
type MessageManager struct {
	bot      *bot.Bot
	errMgr   *ErrorManager
	maxRetry int
}

func NewMessageManager(b *bot.Bot, errMgr *ErrorManager) *MessageManager {
	return &MessageManager{
		bot:      b,
		errMgr:   errMgr,
		maxRetry: 2,
	}
}

func (m *MessageManager) SendWithRetry(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	var lastErr error
	for attempt := 0; attempt < m.maxRetry; attempt++ {
		msg, err := m.bot.SendMessage(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
	}
	chatID, _ := params.ChatID.(int64)
	m.errMgr.NotifyAdminWithCurl(ctx, chatID, params, lastErr)
	return nil, lastErr
}

// DeliverEffects sends every effect from a processed event. Each one is
// attempted independently; one failure does not stop the rest.
func (m *MessageManager) DeliverEffects(ctx context.Context, effects []models.Effect) {
	for _, effect := range effects {
		_, _ = m.SendWithRetry(ctx, &bot.SendMessageParams{
			ChatID: effect.ChatID,
			Text:   effect.Text,
		})
	}
}
