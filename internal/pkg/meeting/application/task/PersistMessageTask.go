package task

import (
	"context"
	"encoding/json"
	"time"

	qport "github.com/HliasMpGH/StepIn/internal/infrastructure/queue/port"
	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/port"
)

// PersistMessageTaskType is the queue task name for durably retaining a chat
// message after it was appended to the live log.
const PersistMessageTaskType = "chat:persist_message"

// PersistMessagePayload is the JSON payload transported via the queue.
type PersistMessagePayload struct {
	MeetingID int64     `json:"meetingId"`
	Email     string    `json:"email"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPersistMessageTask builds the queue task for a live-appended message.
func NewPersistMessageTask(msg meeting.ChatMessage) (qport.Task, error) {
	b, err := json.Marshal(PersistMessagePayload{
		MeetingID: msg.MeetingID,
		Email:     msg.Email,
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
	})
	if err != nil {
		return qport.Task{}, err
	}
	return qport.Task{Type: PersistMessageTaskType, Payload: b}, nil
}

// RegisterPersistMessageTask binds the retention handler to the worker. The
// handler is idempotent enough for the queue's at-least-once delivery: a
// duplicate row is acceptable retention noise, a lost one is not.
func RegisterPersistMessageTask(srv qport.Server, repo repository.MeetingRepository) {
	srv.Register(PersistMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p PersistMessagePayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying will not help
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		return repo.SaveChatMessage(ctx, meeting.ChatMessage{
			MeetingID: p.MeetingID,
			Email:     p.Email,
			Text:      p.Text,
			Timestamp: p.Timestamp,
		})
	})
}
