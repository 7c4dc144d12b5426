package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/port"
)

type PgMeetingRepository struct {
	pool *pgxpool.Pool
}

func NewPgMeetingRepository(pool *pgxpool.Pool) *PgMeetingRepository {
	return &PgMeetingRepository{pool: pool}
}

var _ repository.MeetingRepository = (*PgMeetingRepository)(nil)

func (r *PgMeetingRepository) CreateMeeting(ctx context.Context, m meeting.Meeting) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMeetingRepository: nil pool")
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO meetings (title, description, t1, t2, lat, long, participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING meeting_id
	`, m.Title, m.Description, m.T1, m.T2, m.Lat, m.Long, m.Participants).Scan(&id)
	return id, err
}

func (r *PgMeetingRepository) GetMeeting(ctx context.Context, meetingID int64) (*meeting.Meeting, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMeetingRepository: nil pool")
	}
	var m meeting.Meeting
	err := r.pool.QueryRow(ctx, `
		SELECT meeting_id, title, description, t1, t2, lat, long, participants
		FROM meetings
		WHERE meeting_id = $1
	`, meetingID).Scan(&m.ID, &m.Title, &m.Description, &m.T1, &m.T2, &m.Lat, &m.Long, &m.Participants)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgMeetingRepository) DeleteMeeting(ctx context.Context, meetingID int64) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgMeetingRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, "DELETE FROM meetings WHERE meeting_id = $1", meetingID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PgMeetingRepository) ActiveMeetingIDs(ctx context.Context, at time.Time) ([]int64, error) {
	return r.queryIDs(ctx, "SELECT meeting_id FROM meetings WHERE t1 <= $1 AND t2 > $1", at)
}

func (r *PgMeetingRepository) UpcomingMeetingIDs(ctx context.Context, at time.Time) ([]int64, error) {
	return r.queryIDs(ctx, "SELECT meeting_id FROM meetings WHERE t1 > $1", at)
}

func (r *PgMeetingRepository) queryIDs(ctx context.Context, sql string, at time.Time) ([]int64, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMeetingRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, sql, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgMeetingRepository) UserExists(ctx context.Context, email string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgMeetingRepository: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	return exists, err
}

func (r *PgMeetingRepository) LogAction(ctx context.Context, entry meeting.LogEntry) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMeetingRepository: nil pool")
	}
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx,
		"INSERT INTO logs (email, meeting_id, action, timestamp) VALUES ($1, $2, $3, $4)",
		entry.Email, entry.MeetingID, int16(entry.Action), ts,
	)
	return err
}

func (r *PgMeetingRepository) SaveChatMessage(ctx context.Context, msg meeting.ChatMessage) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMeetingRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx,
		"INSERT INTO chat_messages (meeting_id, email, message, timestamp) VALUES ($1, $2, $3, $4)",
		msg.MeetingID, msg.Email, msg.Text, msg.Timestamp,
	)
	return err
}

func (r *PgMeetingRepository) MeetingMessages(ctx context.Context, meetingID int64) ([]meeting.ChatMessage, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMeetingRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT email, message, timestamp
		FROM chat_messages
		WHERE meeting_id = $1
		ORDER BY timestamp, id
	`, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []meeting.ChatMessage
	for rows.Next() {
		msg := meeting.ChatMessage{MeetingID: meetingID}
		if err := rows.Scan(&msg.Email, &msg.Text, &msg.Timestamp); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}
