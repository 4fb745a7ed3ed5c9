package engine

import (
	"github.com/ad/go-telegram-support/internal/fsm"
	"github.com/ad/go-telegram-support/internal/models"
)

// UserState derives the user's chat state from the stores. Dispatch precedence
// matches UserSendsMessage: an active chat wins over a pending question prompt.
func (e *MatchingEngine) UserState(userID models.UserID) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.sessions.AdminFor(userID); ok {
		return fsm.UserStateInChat
	}
	if _, ok := e.submitters[userID]; ok {
		return fsm.UserStateSubmittingQuestion
	}
	if e.sessions.IsWaiting(userID) {
		return fsm.UserStateWaitingForAdmin
	}
	if e.questions.HasFromUser(userID) {
		return fsm.UserStateQuestionQueued
	}
	return fsm.UserStateIdle
}

// AdminState derives the admin's state. A checked-out question takes
// precedence over an active chat, mirroring AdminSendsMessage dispatch.
func (e *MatchingEngine) AdminState(adminID models.AdminID) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.reading[adminID] != nil {
		return fsm.AdminStateReadingQuestion
	}
	if _, ok := e.sessions.UserFor(adminID); ok {
		return fsm.AdminStateInChat
	}
	if e.pool.Contains(adminID) {
		return fsm.AdminStateAvailable
	}
	return fsm.AdminStateIdle
}
