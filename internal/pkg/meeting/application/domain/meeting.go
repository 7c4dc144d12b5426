package meeting

import (
	"strings"
	"time"
)

// Meeting is the durable record of a physical, time-boxed meeting.
// Identity is assigned by the durable store. Participants holds the static
// invited set as the comma-delimited email list it was created with.
type Meeting struct {
	ID           int64     `db:"meeting_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	T1           time.Time `db:"t1"`
	T2           time.Time `db:"t2"`
	Lat          float64   `db:"lat"`
	Long         float64   `db:"long"`
	Participants string    `db:"participants"`
}

// NewMeeting validates the raw attributes and returns a meeting ready to be
// persisted. All violations are collected into a single ValidationError.
func NewMeeting(title, description string, t1, t2 time.Time, lat, long float64, participants string) (*Meeting, error) {
	var violations []string

	title = strings.TrimSpace(title)
	if len(title) < 3 || len(title) > 100 {
		violations = append(violations, "title must be between 3 and 100 characters")
	}
	if t1.IsZero() || t2.IsZero() || !t2.After(t1) {
		violations = append(violations, "end time must be after start time")
	}
	if lat < -90 || lat > 90 || long < -180 || long > 180 {
		violations = append(violations, "invalid coordinates")
	}
	m := Meeting{
		Title:        title,
		Description:  strings.TrimSpace(description),
		T1:           t1,
		T2:           t2,
		Lat:          lat,
		Long:         long,
		Participants: participants,
	}
	if len(m.ParticipantList()) == 0 {
		violations = append(violations, "at least one valid participant email is required")
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return &m, nil
}

// ParticipantList parses the comma-delimited invited set into clean, deduped
// emails, preserving first-seen order. Invalid entries are skipped.
func (m Meeting) ParticipantList() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, raw := range strings.Split(m.Participants, ",") {
		email := strings.TrimSpace(raw)
		if !ValidEmail(email) {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}

// Invites reports whether email is a member of the invited set.
func (m Meeting) Invites(email string) bool {
	for _, p := range m.ParticipantList() {
		if p == email {
			return true
		}
	}
	return false
}

// ActiveAt reports whether t falls inside the meeting window [t1, t2).
func (m Meeting) ActiveAt(t time.Time) bool {
	return !t.Before(m.T1) && t.Before(m.T2)
}

// UpcomingAt reports whether the meeting window starts after t.
func (m Meeting) UpcomingAt(t time.Time) bool {
	return t.Before(m.T1)
}

// EndedAt reports whether the meeting window has elapsed at t.
func (m Meeting) EndedAt(t time.Time) bool {
	return !t.Before(m.T2)
}

// ValidEmail applies the minimal address check used across the system:
// a local part, an "@", and a dotted domain.
func ValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
