package repository

import (
	"context"
	"time"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
)

// MeetingRepository is the durable-record-store side of the presence engine:
// authoritative meeting rows, time-window classification queries, the
// append-only audit log and chat retention. The live store is only ever a
// projection of what lives behind this interface.
type MeetingRepository interface {
	// CreateMeeting inserts the row and returns the store-assigned id.
	CreateMeeting(ctx context.Context, m meeting.Meeting) (int64, error)

	// GetMeeting returns the row, or (nil, nil) when absent.
	GetMeeting(ctx context.Context, meetingID int64) (*meeting.Meeting, error)

	// DeleteMeeting removes the row and reports whether it existed.
	DeleteMeeting(ctx context.Context, meetingID int64) (bool, error)

	// ActiveMeetingIDs returns ids whose window contains at: t1 <= at < t2.
	ActiveMeetingIDs(ctx context.Context, at time.Time) ([]int64, error)

	// UpcomingMeetingIDs returns ids whose window starts after at.
	UpcomingMeetingIDs(ctx context.Context, at time.Time) ([]int64, error)

	// UserExists reports whether a user row exists for email.
	UserExists(ctx context.Context, email string) (bool, error)

	// LogAction appends one presence transition to the audit log.
	LogAction(ctx context.Context, entry meeting.LogEntry) error

	// SaveChatMessage persists a chat message for retention after the
	// meeting's live log is torn down.
	SaveChatMessage(ctx context.Context, msg meeting.ChatMessage) error

	// MeetingMessages returns the retained chat log in chronological order.
	MeetingMessages(ctx context.Context, meetingID int64) ([]meeting.ChatMessage, error)
}
