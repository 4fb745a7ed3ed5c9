package engine

import (
	"fmt"
	"sync"

	"github.com/ad/go-telegram-support/internal/models"
)

const (
	cmdEnd   = "/end"
	cmdLeave = "/leave"
	cmdDone  = "/done"
)

const (
	msgUserStartedChat    = "Вы начали чат с администратором. Пожалуйста, задайте ваш вопрос и ожидайте ответ."
	msgUserAdminConnected = "Вы подключены к чату с администратором. Что вас интересует?"
	msgUserQueued         = "Пожалуйста подождите, вы %d в очереди."
	msgUserChatEnded      = "Чат с администратором завершен."
	msgUserQuestionPrompt = "Задайте свой вопрос:"
	msgUserQuestionSaved  = "Ваш вопрос сохранен, ожидайте ответа"
	msgUserAnswer         = "Ответ на ваш вопрос '%s':\n%s"
	msgUserUnknownCommand = "Неизвестная команда."

	msgAdminConnected      = "Вы подключены к чату с пользователем %d. Напишите '/end' что бы завершить."
	msgAdminWaiting        = "Ожидайте вопросов от пользователей. Напишите '/leave' если хотите выйти."
	msgAdminChatEnded      = "Чат с %d завершен."
	msgAdminLeft           = "Вы вышли из режима чатов."
	msgAdminQuestion       = "Сообщение от пользователя %s:\n%s"
	msgAdminNextHint       = "Напишите '/done' когда готовы перейти к следующему вопросу."
	msgAdminAnswerSent     = "Ваше сообщение отправлено %s."
	msgAdminNoQuestions    = "Нет заданных вопросов."
	msgRelayFromUser       = "Сообщение от пользователя %s:\n%s"
	questionEchoViewLength = 50
)

// Config selects between the two admin answer flows: with AutoAdvanceOnAnswer
// the next queued question is shown right after every answer, without it the
// admin advances explicitly with /done.
type Config struct {
	AutoAdvanceOnAnswer bool
}

// QuestionLog receives question lifecycle events for archival. Implementations
// must not block: the engine calls it while holding its lock.
type QuestionLog interface {
	QuestionQueued(question models.PendingQuestion)
	QuestionAnswered(question models.PendingQuestion, adminID models.AdminID, answer string)
}

// MatchingEngine pairs users with available admins, relays chat text between
// the two sides and hands queued questions to admins one at a time. Every
// exported operation runs under one mutex and mutates the stores as a single
// indivisible step; outbound notifications are returned as effects for the
// transport to deliver after the lock is released.
type MatchingEngine struct {
	mu sync.Mutex

	cfg       Config
	questions *QuestionQueue
	pool      *AdminPool
	sessions  *SessionDirectory

	submitters map[models.UserID]struct{}
	reading    map[models.AdminID]*models.PendingQuestion

	log QuestionLog
}

func NewMatchingEngine(cfg Config) *MatchingEngine {
	return &MatchingEngine{
		cfg:        cfg,
		questions:  NewQuestionQueue(),
		pool:       NewAdminPool(),
		sessions:   NewSessionDirectory(),
		submitters: make(map[models.UserID]struct{}),
		reading:    make(map[models.AdminID]*models.PendingQuestion),
	}
}

// SetQuestionLog attaches an archival sink. Call before the engine starts
// receiving events.
func (e *MatchingEngine) SetQuestionLog(log QuestionLog) {
	e.log = log
}

// RestoreQuestions preloads persisted pending questions in their original
// order. Call before the engine starts receiving events.
func (e *MatchingEngine) RestoreQuestions(questions []models.PendingQuestion) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, q := range questions {
		e.questions.Restore(q)
	}
}

// UserRequestsChat pairs the user with the longest-waiting available admin,
// or queues the user when none is available.
func (e *MatchingEngine) UserRequestsChat(userID models.UserID) ([]models.Effect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sessions.HasSession(userID) {
		return nil, ErrAlreadyConnected
	}

	if adminID, ok := e.pool.TakeNext(); ok {
		if err := e.sessions.PairUserWithAdmin(userID, adminID); err != nil {
			return nil, err
		}
		return []models.Effect{
			{ChatID: int64(adminID), Text: fmt.Sprintf(msgAdminConnected, userID)},
			{ChatID: int64(userID), Text: msgUserStartedChat},
		}, nil
	}

	if err := e.sessions.QueueUser(userID); err != nil {
		return nil, err
	}
	return []models.Effect{
		{ChatID: int64(userID), Text: fmt.Sprintf(msgUserQueued, e.sessions.WaitingCount())},
	}, nil
}

// AdminRequestsChat assigns the longest-waiting user to the admin, or places
// the admin into the availability pool when nobody is waiting.
func (e *MatchingEngine) AdminRequestsChat(adminID models.AdminID) ([]models.Effect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.adminRequestsChatLocked(adminID)
}

func (e *MatchingEngine) adminRequestsChatLocked(adminID models.AdminID) ([]models.Effect, error) {
	if _, ok := e.sessions.UserFor(adminID); ok {
		return nil, ErrAdminBusy
	}

	if userID, ok := e.sessions.FirstWaiting(); ok {
		if err := e.sessions.AssignWaitingUser(userID, adminID); err != nil {
			return nil, err
		}
		return []models.Effect{
			{ChatID: int64(adminID), Text: fmt.Sprintf(msgAdminConnected, userID)},
			{ChatID: int64(userID), Text: msgUserAdminConnected},
		}, nil
	}

	e.pool.MarkAvailable(adminID)
	return []models.Effect{
		{ChatID: int64(adminID), Text: msgAdminWaiting},
	}, nil
}

// AdminEndsChat closes the admin's active session and immediately re-offers
// the admin the next waiting user, or returns them to the pool.
func (e *MatchingEngine) AdminEndsChat(adminID models.AdminID) ([]models.Effect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.adminEndsChatLocked(adminID)
}

func (e *MatchingEngine) adminEndsChatLocked(adminID models.AdminID) ([]models.Effect, error) {
	userID, ok := e.sessions.UserFor(adminID)
	if !ok {
		return nil, ErrNotInChat
	}
	if _, _, err := e.sessions.EndSession(userID); err != nil {
		return nil, err
	}

	effects := []models.Effect{
		{ChatID: int64(adminID), Text: fmt.Sprintf(msgAdminChatEnded, userID)},
		{ChatID: int64(userID), Text: msgUserChatEnded},
	}

	// Chained on purpose so an admin who closes a chat never ends up idle
	// and forgotten.
	followUp, err := e.adminRequestsChatLocked(adminID)
	if err != nil {
		return effects, err
	}
	return append(effects, followUp...), nil
}

// AdminLeavesPool removes the admin from the availability pool.
func (e *MatchingEngine) AdminLeavesPool(adminID models.AdminID) ([]models.Effect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.adminLeavesPoolLocked(adminID)
}

func (e *MatchingEngine) adminLeavesPoolLocked(adminID models.AdminID) ([]models.Effect, error) {
	if !e.pool.Contains(adminID) {
		return nil, ErrNotInPool
	}
	e.pool.MarkUnavailable(adminID)
	return []models.Effect{
		{ChatID: int64(adminID), Text: msgAdminLeft},
	}, nil
}

// UserStartsQuestion marks the user's next free-text message as question
// text. Idempotent.
func (e *MatchingEngine) UserStartsQuestion(userID models.UserID) []models.Effect {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.submitters[userID] = struct{}{}
	return []models.Effect{
		{ChatID: int64(userID), Text: msgUserQuestionPrompt},
	}
}

// UserSendsMessage dispatches free text from a user: relayed verbatim when in
// a chat, captured as a question when one was requested, otherwise rejected.
func (e *MatchingEngine) UserSendsMessage(userID models.UserID, username, text string) ([]models.Effect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if adminID, ok := e.sessions.AdminFor(userID); ok {
		return []models.Effect{
			{ChatID: int64(adminID), Text: fmt.Sprintf(msgRelayFromUser, senderName(userID, username), text)},
		}, nil
	}

	if _, ok := e.submitters[userID]; ok {
		id := e.questions.Enqueue(userID, username, text)
		delete(e.submitters, userID)
		if e.log != nil {
			e.log.QuestionQueued(models.PendingQuestion{ID: id, UserID: userID, Username: username, Text: text})
		}
		return []models.Effect{
			{ChatID: int64(userID), Text: msgUserQuestionSaved},
		}, nil
	}

	// Waiting and idle users get the same rejection: arbitrary chatter is
	// dropped rather than queued or relayed.
	return []models.Effect{
		{ChatID: int64(userID), Text: msgUserUnknownCommand},
	}, nil
}

// AdminChecksQuestions checks the question currently held by the admin out of
// the queue, or re-shows the already checked-out one.
func (e *MatchingEngine) AdminChecksQuestions(adminID models.AdminID) ([]models.Effect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.adminChecksQuestionsLocked(adminID)
}

func (e *MatchingEngine) adminChecksQuestionsLocked(adminID models.AdminID) ([]models.Effect, error) {
	// Re-entry must not skip a question: the checked-out one is shown again.
	if current := e.reading[adminID]; current != nil {
		return e.questionEffects(adminID, current), nil
	}

	question := e.questions.PeekFirst()
	if question == nil {
		delete(e.reading, adminID)
		return nil, ErrNothingQueued
	}

	snapshot := *question
	e.reading[adminID] = &snapshot
	return e.questionEffects(adminID, &snapshot), nil
}

func (e *MatchingEngine) questionEffects(adminID models.AdminID, question *models.PendingQuestion) []models.Effect {
	effects := []models.Effect{
		{ChatID: int64(adminID), Text: fmt.Sprintf(msgAdminQuestion, senderName(question.UserID, question.Username), question.Text)},
	}
	if !e.cfg.AutoAdvanceOnAnswer {
		effects = append(effects, models.Effect{ChatID: int64(adminID), Text: msgAdminNextHint})
	}
	return effects
}

// AdminSendsMessage handles admin free text. The literal commands /end,
// /leave and /done are matched before any state-based dispatch; everything
// else is an answer to the checked-out question or, failing that, relay text
// for the admin's active chat.
func (e *MatchingEngine) AdminSendsMessage(adminID models.AdminID, text string) ([]models.Effect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch text {
	case cmdEnd:
		return e.adminEndsChatLocked(adminID)
	case cmdLeave:
		return e.adminLeavesPoolLocked(adminID)
	case cmdDone:
		delete(e.reading, adminID)
		return e.adminChecksQuestionsLocked(adminID)
	}

	if question := e.reading[adminID]; question != nil {
		return e.answerQuestionLocked(adminID, question, text), nil
	}

	if userID, ok := e.sessions.UserFor(adminID); ok {
		return []models.Effect{
			{ChatID: int64(userID), Text: text},
		}, nil
	}

	return nil, ErrNotInChat
}

func (e *MatchingEngine) answerQuestionLocked(adminID models.AdminID, question *models.PendingQuestion, answer string) []models.Effect {
	// Speculative removal: tolerated if the question is already gone.
	e.questions.Remove(question.ID)
	delete(e.reading, adminID)
	if e.log != nil {
		e.log.QuestionAnswered(*question, adminID, answer)
	}

	effects := []models.Effect{
		{ChatID: int64(question.UserID), Text: fmt.Sprintf(msgUserAnswer, shorten(question.Text, questionEchoViewLength), answer)},
		{ChatID: int64(adminID), Text: fmt.Sprintf(msgAdminAnswerSent, senderName(question.UserID, question.Username))},
	}

	if e.cfg.AutoAdvanceOnAnswer {
		next, err := e.adminChecksQuestionsLocked(adminID)
		if err != nil {
			effects = append(effects, models.Effect{ChatID: int64(adminID), Text: msgAdminNoQuestions})
		} else {
			effects = append(effects, next...)
		}
	}
	return effects
}

func senderName(userID models.UserID, username string) string {
	if username != "" {
		return username
	}
	return fmt.Sprintf("%d", userID)
}

// shorten caps s at max runes with an ellipsis marker. Applied only to the
// echoed question fragment, never to relayed text.
func shorten(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
