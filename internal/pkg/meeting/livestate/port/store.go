package port

import (
	"context"
	"time"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
)

// Projection is the live, rebuildable view of a meeting held by the
// live-state store. It never survives a process restart; the durable row is
// the only authoritative copy.
type Projection struct {
	ID           int64
	Title        string
	Description  string
	T1           time.Time
	T2           time.Time
	Lat          float64
	Long         float64
	Participants []string
}

// Store is the live-state side of the presence engine: classification sets,
// geospatial index, invited/joined membership, per-user back-references and
// per-meeting chat logs. Implementations must be safe for concurrent use and
// must serialize compound mutations per meeting id so a join racing a
// deactivation can never leave a back-reference without the matching
// joined-set entry.
//
// Everything in here is a derived projection: it must always be safe to
// discard and rebuild from the durable store.
type Store interface {
	// Activate projects a durable meeting row into the live store and
	// classifies it as active or upcoming against now. It is idempotent;
	// re-activation resets transient joined/chat state to "just activated".
	Activate(ctx context.Context, m meeting.Meeting, now time.Time) error

	// Deactivate tears down every live key of the meeting and returns the
	// participants that were still joined, with their back-references
	// cleared. Returns meeting.ErrNotLive for a meeting with no projection.
	Deactivate(ctx context.Context, meetingID int64) ([]string, error)

	// GetMeeting returns the live projection, or meeting.ErrNotLive.
	GetMeeting(ctx context.Context, meetingID int64) (*Projection, error)

	ActiveMeetingIDs(ctx context.Context) ([]int64, error)
	UpcomingMeetingIDs(ctx context.Context) ([]int64, error)

	// Join adds email to the meeting's joined set and claims the user's
	// back-reference. The returned bool is false when the user was already
	// joined to this meeting (idempotent re-join, nothing changed).
	Join(ctx context.Context, email string, meetingID int64) (bool, error)

	// Leave removes email from the joined set and clears the back-reference.
	Leave(ctx context.Context, email string, meetingID int64) error

	JoinedParticipants(ctx context.Context, meetingID int64) ([]string, error)

	// JoinedMeeting resolves the user's back-reference. ok is false when the
	// user is not joined anywhere.
	JoinedMeeting(ctx context.Context, email string) (meetingID int64, ok bool, err error)

	// NearbyMeetingsForUser intersects a radius search around (x, y) with
	// the meetings the user is invited to. Empty results are not an error.
	NearbyMeetingsForUser(ctx context.Context, email string, x, y, radiusMeters float64) ([]int64, error)

	// AppendMessage appends to the meeting's ordered chat log and records
	// the position in the sender's per-meeting index. Returns the position.
	// The membership checks run under the same serialization as Deactivate:
	// meeting.ErrNotLive when the meeting is not active, meeting.ErrNotJoined
	// when the sender is not in the joined set, so an append racing a
	// teardown can never resurrect chat keys.
	AppendMessage(ctx context.Context, msg meeting.ChatMessage) (int64, error)

	// MeetingMessages returns the full ordered chat log of a live meeting.
	MeetingMessages(ctx context.Context, meetingID int64) ([]meeting.ChatMessage, error)

	// UserMessages returns only the sender's entries, fetched by position
	// through the secondary index. It returns an empty slice when the
	// meeting is not active or the user is not an invited participant.
	UserMessages(ctx context.Context, email string, meetingID int64) ([]meeting.ChatMessage, error)

	Ping(ctx context.Context) error
	Close() error
}
