package services

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// ErrorManager reports handler panics and delivery failures to the first
// configured admin.
type ErrorManager struct {
	bot      *bot.Bot
	notifyID int64
}

func NewErrorManager(b *bot.Bot, notifyID int64) *ErrorManager {
	return &ErrorManager{
		bot:      b,
		notifyID: notifyID,
	}
}

func (e *ErrorManager) NotifyAdmin(ctx context.Context, panicValue interface{}, update *tgmodels.Update) {
	userInfo := "unknown"

	if update != nil && update.Message != nil && update.Message.From != nil {
		from := update.Message.From
		userInfo = fmt.Sprintf("[%d]", from.ID)
		if from.FirstName != "" {
			userInfo = from.FirstName + " " + userInfo
		}
		if from.Username != "" {
			userInfo = userInfo + " @" + from.Username
		}
	} else if update != nil && update.CallbackQuery != nil {
		userInfo = fmt.Sprintf("[%d]", update.CallbackQuery.From.ID)
	}

	msg := fmt.Sprintf("🚨 Panic in handler\nUser: %s\nError: %v\n\nStack trace:\n%s",
		userInfo, panicValue, string(debug.Stack()))

	if len(msg) > 4000 {
		msg = msg[:4000] + "\n... (truncated)"
	}

	if e.bot == nil {
		return
	}
	_, _ = e.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: e.notifyID,
		Text:   msg,
	})
}

func (e *ErrorManager) NotifyAdminWithCurl(ctx context.Context, chatID int64, request interface{}, err error) {
	curl := e.buildCurlCommand(request)

	msg := fmt.Sprintf("❌ Failed to send message\nUser: [%d]\nError: %v\n\nCurl:\n%s",
		chatID, err, curl)

	if len(msg) > 4000 {
		msg = msg[:4000] + "\n... (truncated)"
	}

	if e.bot == nil {
		return
	}
	_, _ = e.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: e.notifyID,
		Text:   msg,
	})
}

func (e *ErrorManager) buildCurlCommand(request interface{}) string {
	jsonData, err := json.MarshalIndent(request, "", "  ")
	if err != nil {
		return fmt.Sprintf("# Failed to serialize request: %v", err)
	}

	return fmt.Sprintf("curl -X POST 'https://api.telegram.org/bot[BOT_TOKEN]/sendMessage' \\\n  -H 'Content-Type: application/json' \\\n  -d '%s'",
		string(jsonData))
}
