package meeting

import (
	"errors"
	"testing"
	"time"
)

func TestNewMeetingValidation(t *testing.T) {
	t1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	cases := []struct {
		name         string
		title        string
		t1, t2       time.Time
		lat, long    float64
		participants string
	}{
		{"short title", "ab", t1, t2, 37.98, 23.72, "a@b.com"},
		{"window inverted", "Weekly sync", t2, t1, 37.98, 23.72, "a@b.com"},
		{"zero start", "Weekly sync", time.Time{}, t2, 37.98, 23.72, "a@b.com"},
		{"latitude out of range", "Weekly sync", t1, t2, 91, 23.72, "a@b.com"},
		{"longitude out of range", "Weekly sync", t1, t2, 37.98, -181, "a@b.com"},
		{"no valid participants", "Weekly sync", t1, t2, 37.98, 23.72, "not-an-email, also-bad"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMeeting(tc.title, "", tc.t1, tc.t2, tc.lat, tc.long, tc.participants)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	m, err := NewMeeting("Weekly sync", "  room 4  ", t1, t2, 37.98, 23.72, "a@b.com, c@d.com")
	if err != nil {
		t.Fatalf("valid meeting rejected: %v", err)
	}
	if m.Description != "room 4" {
		t.Errorf("description not trimmed: %q", m.Description)
	}
}

func TestParticipantList(t *testing.T) {
	m := Meeting{Participants: "a@b.com, bogus, c@d.com , a@b.com,,x@"}
	got := m.ParticipantList()
	want := []string{"a@b.com", "c@d.com"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if !m.Invites("c@d.com") {
		t.Error("expected c@d.com to be invited")
	}
	if m.Invites("bogus") {
		t.Error("invalid entry must not count as invited")
	}
}

func TestMeetingWindow(t *testing.T) {
	t1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	m := Meeting{T1: t1, T2: t2}

	if !m.UpcomingAt(t1.Add(-time.Minute)) {
		t.Error("before t1 must be upcoming")
	}
	if !m.ActiveAt(t1) {
		t.Error("t1 is inclusive")
	}
	if !m.ActiveAt(t2.Add(-time.Nanosecond)) {
		t.Error("just before t2 must be active")
	}
	if m.ActiveAt(t2) {
		t.Error("t2 is exclusive")
	}
	if !m.EndedAt(t2) {
		t.Error("at t2 the meeting has ended")
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.com", "first.last@sub.example.org"}
	invalid := []string{"", "@b.com", "a@", "a@b", "plain"}

	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("%q should be valid", e)
		}
	}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("%q should be invalid", e)
		}
	}
}
