package meeting

import (
	"errors"
	"strings"
)

// Domain-level errors for meeting presence and chat behaviors.
var (
	ErrUserNotFound     = errors.New("meeting: user not found")
	ErrMeetingNotFound  = errors.New("meeting: meeting not found")
	ErrAlreadyJoined    = errors.New("meeting: user is already joined in another meeting")
	ErrMeetingNotActive = errors.New("meeting: meeting is not active")
	ErrNotInvited       = errors.New("meeting: user is not a participant of the meeting")
	ErrNotJoined        = errors.New("meeting: user is not joined in the meeting")
	ErrNotLive          = errors.New("meeting: meeting has no live projection")
	ErrUnauthorized     = errors.New("meeting: requester is not allowed to perform this action")
	ErrUserExists       = errors.New("meeting: email already exists")
)

// ValidationError collects input rule violations. It is returned before any
// store mutation happens.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "meeting: invalid input: " + strings.Join(e.Violations, ". ")
}

// IsConflict reports whether err is an expected business-rule rejection,
// as opposed to a missing record or an infrastructure failure.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyJoined) ||
		errors.Is(err, ErrMeetingNotActive) ||
		errors.Is(err, ErrNotInvited) ||
		errors.Is(err, ErrNotJoined) ||
		errors.Is(err, ErrUserExists)
}

// IsNotFound reports whether err refers to an absent user or meeting.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrMeetingNotFound) ||
		errors.Is(err, ErrNotLive)
}
