package meeting

import "time"

// Action identifies a presence transition recorded in the audit log.
// Values match the durable store's CHECK constraint.
type Action int16

const (
	ActionJoin    Action = 1
	ActionLeave   Action = 2
	ActionTimeout Action = 3
)

func (a Action) String() string {
	switch a {
	case ActionJoin:
		return "JOIN"
	case ActionLeave:
		return "LEAVE"
	case ActionTimeout:
		return "TIMEOUT"
	}
	return "UNKNOWN"
}

// LogEntry is one audited presence transition. Entries are written only to
// the durable store, one per transition.
type LogEntry struct {
	Email     string    `db:"email"`
	MeetingID int64     `db:"meeting_id"`
	Action    Action    `db:"action"`
	Timestamp time.Time `db:"timestamp"`
}
