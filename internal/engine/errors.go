package engine

import "errors"

// All engine errors are recoverable rejections. The handler layer maps each
// one to a reply text; none of them terminates anything.
var (
	ErrAlreadyConnected = errors.New("already connected to a chat")
	ErrAlreadyInSession = errors.New("user already has a session entry")
	ErrUserBusy         = errors.New("user already has a session")
	ErrAdminBusy        = errors.New("admin already has a session")
	ErrNotWaiting       = errors.New("user is not waiting for an admin")
	ErrNoSession        = errors.New("no session for user")
	ErrNotInChat        = errors.New("admin is not in a chat")
	ErrNotInPool        = errors.New("admin is not in the availability pool")
	ErrNothingQueued    = errors.New("no questions queued")
)
