package engine

import (
	"testing"
)

func TestAdminPoolFIFO(t *testing.T) {
	p := NewAdminPool()
	p.MarkAvailable(1)
	p.MarkAvailable(2)
	p.MarkAvailable(3)

	for _, want := range []int64{1, 2, 3} {
		adminID, ok := p.TakeNext()
		if !ok {
			t.Fatal("TakeNext should find an admin")
		}
		if int64(adminID) != want {
			t.Fatalf("Expected admin %d, got %d", want, adminID)
		}
	}

	if _, ok := p.TakeNext(); ok {
		t.Fatal("TakeNext on empty pool should return false")
	}
}

func TestAdminPoolMarkAvailableIdempotent(t *testing.T) {
	p := NewAdminPool()
	p.MarkAvailable(1)
	p.MarkAvailable(1)

	if p.Len() != 1 {
		t.Fatalf("Expected one pool entry, got %d", p.Len())
	}

	p.MarkUnavailable(1)
	p.MarkUnavailable(1)

	if p.Len() != 0 || p.Contains(1) {
		t.Fatal("Admin should be removed exactly once")
	}
}

func TestAdminPoolUnavailableKeepsOrder(t *testing.T) {
	p := NewAdminPool()
	p.MarkAvailable(1)
	p.MarkAvailable(2)
	p.MarkAvailable(3)
	p.MarkUnavailable(2)

	adminID, _ := p.TakeNext()
	if adminID != 1 {
		t.Fatalf("Expected admin 1, got %d", adminID)
	}
	adminID, _ = p.TakeNext()
	if adminID != 3 {
		t.Fatalf("Expected admin 3, got %d", adminID)
	}
}
