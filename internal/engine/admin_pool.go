package engine

import (
	"github.com/ad/go-telegram-support/internal/models"
)

// AdminPool is the FIFO-ordered set of admins currently waiting for a chat
// assignment. An admin is never in the pool and in an active session at the
// same time; the MatchingEngine enforces that. Not safe for concurrent use
// on its own.
type AdminPool struct {
	order   []models.AdminID
	members map[models.AdminID]struct{}
}

func NewAdminPool() *AdminPool {
	return &AdminPool{members: make(map[models.AdminID]struct{})}
}

// MarkAvailable inserts the admin at the tail. Idempotent.
func (p *AdminPool) MarkAvailable(adminID models.AdminID) {
	if _, ok := p.members[adminID]; ok {
		return
	}
	p.members[adminID] = struct{}{}
	p.order = append(p.order, adminID)
}

// MarkUnavailable removes the admin. Idempotent.
func (p *AdminPool) MarkUnavailable(adminID models.AdminID) {
	if _, ok := p.members[adminID]; !ok {
		return
	}
	delete(p.members, adminID)
	for i, id := range p.order {
		if id == adminID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// TakeNext removes and returns the admin that has waited longest.
func (p *AdminPool) TakeNext() (models.AdminID, bool) {
	if len(p.order) == 0 {
		return 0, false
	}
	adminID := p.order[0]
	p.order = p.order[1:]
	delete(p.members, adminID)
	return adminID, true
}

func (p *AdminPool) Contains(adminID models.AdminID) bool {
	_, ok := p.members[adminID]
	return ok
}

func (p *AdminPool) Len() int {
	return len(p.members)
}
