package game

// Error is a recoverable, caller-facing failure. It is returned only in the
// direct acknowledgement of the request that caused it, never broadcast and
// never fatal to the room or the process.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrRoomNotFound        = &Error{Code: "room_not_found", Message: "Room not found"}
	ErrNotAuthorized       = &Error{Code: "not_authorized", Message: "Only the host can do that"}
	ErrInvalidState        = &Error{Code: "invalid_state", Message: "Action not allowed in the room's current state"}
	ErrNotAcceptingAnswers = &Error{Code: "not_accepting_answers", Message: "Not accepting answers"}
	ErrAlreadyAnswered     = &Error{Code: "already_answered", Message: "Already answered"}
	ErrNotInRoom           = &Error{Code: "not_in_room", Message: "Not in room"}
)
