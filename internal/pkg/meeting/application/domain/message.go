package meeting

import (
	"strings"
	"time"
)

// ChatMessage is an immutable entry in a meeting's ordered chat log.
type ChatMessage struct {
	MeetingID int64     `json:"-" db:"meeting_id"`
	Email     string    `json:"email" db:"email"`
	Text      string    `json:"text" db:"message"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// NewChatMessage normalizes and validates a message before it is appended.
// A zero timestamp is stamped with now.
func NewChatMessage(email, text string, now time.Time) (*ChatMessage, error) {
	if !ValidEmail(email) {
		return nil, &ValidationError{Violations: []string{"please provide a valid email"}}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Violations: []string{"message text must not be empty"}}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return &ChatMessage{Email: email, Text: text, Timestamp: now.UTC()}, nil
}
