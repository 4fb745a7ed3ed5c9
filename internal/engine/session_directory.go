package engine

import (
	"github.com/ad/go-telegram-support/internal/models"
)

// SessionDirectory holds the bidirectional user/admin mapping for live relay
// chats plus the FIFO-ordered set of users waiting for an admin. The two
// active maps are kept mutually consistent: every mutation updates both or
// neither. Not safe for concurrent use on its own.
type SessionDirectory struct {
	userToAdmin map[models.UserID]models.AdminID
	adminToUser map[models.AdminID]models.UserID
	waiting     []models.UserID
	waitingSet  map[models.UserID]struct{}
}

func NewSessionDirectory() *SessionDirectory {
	return &SessionDirectory{
		userToAdmin: make(map[models.UserID]models.AdminID),
		adminToUser: make(map[models.AdminID]models.UserID),
		waitingSet:  make(map[models.UserID]struct{}),
	}
}

// QueueUser creates a waiting session for the user.
func (d *SessionDirectory) QueueUser(userID models.UserID) error {
	if d.HasSession(userID) {
		return ErrAlreadyInSession
	}
	d.waiting = append(d.waiting, userID)
	d.waitingSet[userID] = struct{}{}
	return nil
}

// PairUserWithAdmin establishes an active session between two previously
// unengaged parties.
func (d *SessionDirectory) PairUserWithAdmin(userID models.UserID, adminID models.AdminID) error {
	if d.HasSession(userID) {
		return ErrUserBusy
	}
	if _, ok := d.adminToUser[adminID]; ok {
		return ErrAdminBusy
	}
	d.userToAdmin[userID] = adminID
	d.adminToUser[adminID] = userID
	return nil
}

// AssignWaitingUser attaches an admin to an existing waiting entry.
func (d *SessionDirectory) AssignWaitingUser(userID models.UserID, adminID models.AdminID) error {
	if !d.IsWaiting(userID) {
		return ErrNotWaiting
	}
	if _, ok := d.adminToUser[adminID]; ok {
		return ErrAdminBusy
	}
	d.removeWaiting(userID)
	d.userToAdmin[userID] = adminID
	d.adminToUser[adminID] = userID
	return nil
}

// FirstWaiting returns the user that has waited longest, without removing it.
func (d *SessionDirectory) FirstWaiting() (models.UserID, bool) {
	if len(d.waiting) == 0 {
		return 0, false
	}
	return d.waiting[0], true
}

func (d *SessionDirectory) AdminFor(userID models.UserID) (models.AdminID, bool) {
	adminID, ok := d.userToAdmin[userID]
	return adminID, ok
}

func (d *SessionDirectory) UserFor(adminID models.AdminID) (models.UserID, bool) {
	userID, ok := d.adminToUser[adminID]
	return userID, ok
}

// EndSession removes the user's session, waiting or active, and returns the
// admin that was paired when the session was active.
func (d *SessionDirectory) EndSession(userID models.UserID) (models.AdminID, bool, error) {
	if adminID, ok := d.userToAdmin[userID]; ok {
		delete(d.userToAdmin, userID)
		delete(d.adminToUser, adminID)
		return adminID, true, nil
	}
	if d.IsWaiting(userID) {
		d.removeWaiting(userID)
		return 0, false, nil
	}
	return 0, false, ErrNoSession
}

func (d *SessionDirectory) IsWaiting(userID models.UserID) bool {
	_, ok := d.waitingSet[userID]
	return ok
}

func (d *SessionDirectory) HasSession(userID models.UserID) bool {
	if _, ok := d.userToAdmin[userID]; ok {
		return true
	}
	return d.IsWaiting(userID)
}

func (d *SessionDirectory) WaitingCount() int {
	return len(d.waiting)
}

func (d *SessionDirectory) ActiveCount() int {
	return len(d.userToAdmin)
}

func (d *SessionDirectory) removeWaiting(userID models.UserID) {
	delete(d.waitingSet, userID)
	for i, id := range d.waiting {
		if id == userID {
			d.waiting = append(d.waiting[:i], d.waiting[i+1:]...)
			break
		}
	}
}
