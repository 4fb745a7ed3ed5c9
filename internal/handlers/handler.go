package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/ad/go-telegram-support/internal/db"
	"github.com/ad/go-telegram-support/internal/engine"
	"github.com/ad/go-telegram-support/internal/models"
	"github.com/ad/go-telegram-support/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

const (
	msgGreeting     = "Привет! Я бот поддержки. Выберите действие или используйте команды /chat и /ask."
	msgInfo         = "О нас"
	msgLibrary      = "Наша библиотека - midashall.notion.site"
	msgRejectedBusy = "Вы уже подключены к чату."
	msgNotInChat    = "Вы не подключены к чату."
	msgNotInPool    = "Вы не в режиме чатов."
	msgNoQuestions  = "Нет заданных вопросов."
	msgOperFailed   = "⚠️ Не удалось обработать команду."
)

// BotHandler routes inbound updates. Identifiers in the admin set go to the
// AdminHandler; everything else is treated as an end-user. Both the textual
// commands and the inline-menu callbacks funnel into the same engine calls.
type BotHandler struct {
	bot          *bot.Bot
	adminIDs     map[int64]bool
	engine       *engine.MatchingEngine
	errorManager *services.ErrorManager
	msgManager   *services.MessageManager
	userRepo     *db.UserRepository
	adminHandler *AdminHandler
}

func NewBotHandler(
	b *bot.Bot,
	adminIDs []int64,
	matchingEngine *engine.MatchingEngine,
	errorManager *services.ErrorManager,
	msgManager *services.MessageManager,
	userRepo *db.UserRepository,
	questionRepo *db.QuestionRepository,
) *BotHandler {
	adminSet := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		adminSet[id] = true
	}

	return &BotHandler{
		bot:          b,
		adminIDs:     adminSet,
		engine:       matchingEngine,
		errorManager: errorManager,
		msgManager:   msgManager,
		userRepo:     userRepo,
		adminHandler: NewAdminHandler(matchingEngine, msgManager, questionRepo),
	}
}

func (h *BotHandler) HandleUpdate(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	defer h.recoverPanic(ctx, update)

	if update.Message != nil {
		h.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		h.handleCallback(ctx, update.CallbackQuery)
	}
}

func (h *BotHandler) recoverPanic(ctx context.Context, update *tgmodels.Update) {
	if r := recover(); r != nil {
		h.errorManager.NotifyAdmin(ctx, r, update)
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, msg *tgmodels.Message) {
	if msg.From == nil || msg.Text == "" {
		return
	}

	h.registerUser(msg.From)

	if h.adminIDs[msg.From.ID] {
		h.adminHandler.HandleMessage(ctx, msg)
		return
	}

	h.dispatchUser(ctx, msg.From.ID, msg.From.Username, msg.Text)
}

// handleCallback is the inline-menu entry point. Buttons invoke the same
// paths as the textual commands.
func (h *BotHandler) handleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) {
	data := callback.Data
	if !strings.HasPrefix(data, "menu:") {
		return
	}

	h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})

	command := "/" + strings.TrimPrefix(data, "menu:")
	if h.adminIDs[callback.From.ID] {
		h.adminHandler.HandleCommand(ctx, callback.From.ID, command)
		return
	}
	h.dispatchUser(ctx, callback.From.ID, callback.From.Username, command)
}

func (h *BotHandler) dispatchUser(ctx context.Context, userID int64, username, text string) {
	switch text {
	case "/start":
		h.sendGreeting(ctx, userID)
	case "/chat":
		effects, err := h.engine.UserRequestsChat(models.UserID(userID))
		h.respond(ctx, userID, effects, err)
	case "/ask":
		h.msgManager.DeliverEffects(ctx, h.engine.UserStartsQuestion(models.UserID(userID)))
	case "/info":
		h.sendText(ctx, userID, msgInfo)
	case "/lib":
		h.sendText(ctx, userID, msgLibrary)
	default:
		effects, err := h.engine.UserSendsMessage(models.UserID(userID), username, text)
		h.respond(ctx, userID, effects, err)
	}
}

func (h *BotHandler) sendGreeting(ctx context.Context, chatID int64) {
	keyboard := &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: "💬 Чат с администратором", CallbackData: "menu:chat"},
				{Text: "❓ Задать вопрос", CallbackData: "menu:ask"},
			},
			{
				{Text: "ℹ️ О нас", CallbackData: "menu:info"},
				{Text: "📚 Библиотека", CallbackData: "menu:lib"},
			},
		},
	}
	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        msgGreeting,
		ReplyMarkup: keyboard,
	})
}

func (h *BotHandler) registerUser(from *tgmodels.User) {
	h.userRepo.CreateOrUpdate(&models.User{
		ID:        from.ID,
		FirstName: from.FirstName,
		LastName:  from.LastName,
		Username:  from.Username,
	})
}

func (h *BotHandler) respond(ctx context.Context, chatID int64, effects []models.Effect, err error) {
	if err != nil {
		h.sendText(ctx, chatID, rejectionText(err))
		return
	}
	h.msgManager.DeliverEffects(ctx, effects)
}

func (h *BotHandler) sendText(ctx context.Context, chatID int64, text string) {
	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
}

// rejectionText maps an engine rejection to its reply. Every named engine
// error resolves to a user-facing notification, never a process failure.
func rejectionText(err error) string {
	switch {
	case errors.Is(err, engine.ErrAlreadyConnected),
		errors.Is(err, engine.ErrUserBusy),
		errors.Is(err, engine.ErrAdminBusy),
		errors.Is(err, engine.ErrAlreadyInSession):
		return msgRejectedBusy
	case errors.Is(err, engine.ErrNotInChat), errors.Is(err, engine.ErrNoSession):
		return msgNotInChat
	case errors.Is(err, engine.ErrNotInPool):
		return msgNotInPool
	case errors.Is(err, engine.ErrNothingQueued):
		return msgNoQuestions
	default:
		return msgOperFailed
	}
}
