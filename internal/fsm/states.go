package fsm

// Chat states are derived from the engine's stores on demand, never stored
// as separate flags.

const (
	UserStateIdle               = "idle"
	UserStateWaitingForAdmin    = "waiting_for_admin"
	UserStateInChat             = "in_chat"
	UserStateSubmittingQuestion = "submitting_question"
	UserStateQuestionQueued     = "question_queued"

	AdminStateIdle            = "idle"
	AdminStateAvailable       = "available"
	AdminStateInChat          = "in_chat"
	AdminStateReadingQuestion = "reading_question"
)
