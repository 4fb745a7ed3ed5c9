package models

// UserID, AdminID and MessageID are opaque numeric identifiers. The same
// numeric value can act as a UserID in one update and an AdminID in another;
// the dispatch layer decides which role applies.
type UserID int64

type AdminID int64

type MessageID int64

// PendingQuestion is a question submitted by a user for later asynchronous
// answering. It lives in the question queue until an admin completes it.
type PendingQuestion struct {
	ID       MessageID
	UserID   UserID
	Username string
	Text     string
}

// Effect is an outbound notification produced by an engine operation. Effects
// are returned as data and delivered by the transport after the engine's lock
// is released.
type Effect struct {
	ChatID int64
	Text   string
}
