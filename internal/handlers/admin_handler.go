package handlers

import (
	"context"
	"log"

	"github.com/ad/go-telegram-support/internal/db"
	"github.com/ad/go-telegram-support/internal/engine"
	"github.com/ad/go-telegram-support/internal/models"
	"github.com/ad/go-telegram-support/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

const msgAdminGreeting = "Привет! /chat — принимать чаты, /ask — отвечать на вопросы, /questions — очередь вопросов."

// AdminHandler handles messages from identifiers in the admin set. Commands
// with their own handler are matched first; everything else, including /end,
// /leave and /done, goes to the engine as admin text.
type AdminHandler struct {
	engine       *engine.MatchingEngine
	msgManager   *services.MessageManager
	questionRepo *db.QuestionRepository
}

func NewAdminHandler(
	matchingEngine *engine.MatchingEngine,
	msgManager *services.MessageManager,
	questionRepo *db.QuestionRepository,
) *AdminHandler {
	return &AdminHandler{
		engine:       matchingEngine,
		msgManager:   msgManager,
		questionRepo: questionRepo,
	}
}

func (h *AdminHandler) HandleMessage(ctx context.Context, msg *tgmodels.Message) {
	h.HandleCommand(ctx, msg.From.ID, msg.Text)
}

func (h *AdminHandler) HandleCommand(ctx context.Context, adminID int64, text string) {
	switch text {
	case "/start":
		h.sendText(ctx, adminID, msgAdminGreeting)
	case "/chat":
		effects, err := h.engine.AdminRequestsChat(models.AdminID(adminID))
		h.respond(ctx, adminID, effects, err)
	case "/ask":
		effects, err := h.engine.AdminChecksQuestions(models.AdminID(adminID))
		h.respond(ctx, adminID, effects, err)
	case "/questions":
		h.sendQuestionList(ctx, adminID)
	default:
		effects, err := h.engine.AdminSendsMessage(models.AdminID(adminID), text)
		h.respond(ctx, adminID, effects, err)
	}
}

func (h *AdminHandler) sendQuestionList(ctx context.Context, adminID int64) {
	questions, err := h.questionRepo.ListPending()
	if err != nil {
		log.Printf("[ADMIN] Failed to list pending questions: %v", err)
		h.sendText(ctx, adminID, msgOperFailed)
		return
	}
	h.sendText(ctx, adminID, services.FormatQuestionList(questions))
}

func (h *AdminHandler) respond(ctx context.Context, chatID int64, effects []models.Effect, err error) {
	if err != nil {
		h.sendText(ctx, chatID, rejectionText(err))
		return
	}
	h.msgManager.DeliverEffects(ctx, effects)
}

func (h *AdminHandler) sendText(ctx context.Context, chatID int64, text string) {
	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
}
