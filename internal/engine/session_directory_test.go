package engine

import (
	"errors"
	"testing"

	"github.com/ad/go-telegram-support/internal/models"
	"pgregory.net/rapid"
)

func TestSessionDirectoryPairing(t *testing.T) {
	d := NewSessionDirectory()

	if err := d.PairUserWithAdmin(100, 1); err != nil {
		t.Fatalf("Pairing free parties should succeed: %v", err)
	}

	adminID, ok := d.AdminFor(100)
	if !ok || adminID != 1 {
		t.Fatalf("Expected admin 1 for user 100, got %d (%v)", adminID, ok)
	}
	userID, ok := d.UserFor(1)
	if !ok || userID != 100 {
		t.Fatalf("Expected user 100 for admin 1, got %d (%v)", userID, ok)
	}

	if err := d.PairUserWithAdmin(100, 2); !errors.Is(err, ErrUserBusy) {
		t.Fatalf("Expected ErrUserBusy, got %v", err)
	}
	if err := d.PairUserWithAdmin(200, 1); !errors.Is(err, ErrAdminBusy) {
		t.Fatalf("Expected ErrAdminBusy, got %v", err)
	}
}

func TestSessionDirectoryQueueUser(t *testing.T) {
	d := NewSessionDirectory()

	if err := d.QueueUser(100); err != nil {
		t.Fatalf("QueueUser should succeed: %v", err)
	}
	if err := d.QueueUser(100); !errors.Is(err, ErrAlreadyInSession) {
		t.Fatalf("Expected ErrAlreadyInSession, got %v", err)
	}
	if !d.IsWaiting(100) {
		t.Fatal("User should be waiting")
	}
	if _, ok := d.AdminFor(100); ok {
		t.Fatal("Waiting user must not have an admin")
	}
}

func TestSessionDirectoryAssignWaitingUser(t *testing.T) {
	d := NewSessionDirectory()
	d.QueueUser(100)

	if err := d.AssignWaitingUser(200, 1); !errors.Is(err, ErrNotWaiting) {
		t.Fatalf("Expected ErrNotWaiting, got %v", err)
	}
	if err := d.AssignWaitingUser(100, 1); err != nil {
		t.Fatalf("Assigning waiting user should succeed: %v", err)
	}
	if d.IsWaiting(100) {
		t.Fatal("Assigned user must no longer be waiting")
	}
	if adminID, _ := d.AdminFor(100); adminID != 1 {
		t.Fatalf("Expected admin 1, got %d", adminID)
	}
}

func TestSessionDirectoryWaitingFIFO(t *testing.T) {
	d := NewSessionDirectory()
	d.QueueUser(1)
	d.QueueUser(2)
	d.QueueUser(3)

	userID, ok := d.FirstWaiting()
	if !ok || userID != 1 {
		t.Fatalf("Expected user 1 first, got %d", userID)
	}

	d.AssignWaitingUser(1, 10)
	userID, _ = d.FirstWaiting()
	if userID != 2 {
		t.Fatalf("Expected user 2 next, got %d", userID)
	}
}

func TestSessionDirectoryEndSession(t *testing.T) {
	d := NewSessionDirectory()

	if _, _, err := d.EndSession(100); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Expected ErrNoSession, got %v", err)
	}

	d.PairUserWithAdmin(100, 1)
	adminID, paired, err := d.EndSession(100)
	if err != nil || !paired || adminID != 1 {
		t.Fatalf("Expected paired admin 1, got %d (%v, %v)", adminID, paired, err)
	}
	if d.HasSession(100) {
		t.Fatal("Session should be gone")
	}
	if _, ok := d.UserFor(1); ok {
		t.Fatal("Admin side should be gone too")
	}

	d.QueueUser(200)
	_, paired, err = d.EndSession(200)
	if err != nil || paired {
		t.Fatalf("Ending waiting session should report no admin, got %v, %v", paired, err)
	}
}

func TestPropertyDirectoryBijection(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := NewSessionDirectory()

		numOps := rapid.IntRange(1, 60).Draw(rt, "numOps")
		for i := 0; i < numOps; i++ {
			userID := models.UserID(rapid.Int64Range(1, 8).Draw(rt, "userID"))
			adminID := models.AdminID(rapid.Int64Range(101, 105).Draw(rt, "adminID"))

			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				d.QueueUser(userID)
			case 1:
				d.PairUserWithAdmin(userID, adminID)
			case 2:
				d.AssignWaitingUser(userID, adminID)
			case 3:
				d.EndSession(userID)
			}

			for u, a := range d.userToAdmin {
				if back, ok := d.adminToUser[a]; !ok || back != u {
					rt.Fatalf("Mapping out of sync: user %d -> admin %d -> user %d", u, a, back)
				}
			}
			for a, u := range d.adminToUser {
				if back, ok := d.userToAdmin[u]; !ok || back != a {
					rt.Fatalf("Mapping out of sync: admin %d -> user %d -> admin %d", a, u, back)
				}
			}
			if len(d.userToAdmin) != len(d.adminToUser) {
				rt.Fatalf("Map sizes differ: %d vs %d", len(d.userToAdmin), len(d.adminToUser))
			}
			if len(d.waiting) != len(d.waitingSet) {
				rt.Fatalf("Waiting views differ: %d vs %d", len(d.waiting), len(d.waitingSet))
			}
			for _, u := range d.waiting {
				if _, ok := d.userToAdmin[u]; ok {
					rt.Fatalf("User %d both waiting and active", u)
				}
			}
		}
	})
}
