package usecase

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	qport "github.com/HliasMpGH/StepIn/internal/infrastructure/queue/port"
	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/task"
	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/port"
)

// PostMessageInput carries a chat message to append. MeetingID zero means
// "the meeting the user is currently joined to".
type PostMessageInput struct {
	Email     string
	Text      string
	MeetingID int64
}

// PostMessageUseCase appends a message to the live chat log of the meeting
// the sender is joined to, then enqueues durable retention of the entry.
// Queue unavailability degrades retention, not the live post.
type PostMessageUseCase struct {
	Repo  repository.MeetingRepository
	Live  livestate.Store
	Queue qport.Client
}

func NewPostMessageUseCase(repo repository.MeetingRepository, live livestate.Store, queue qport.Client) *PostMessageUseCase {
	return &PostMessageUseCase{Repo: repo, Live: live, Queue: queue}
}

func (uc *PostMessageUseCase) Execute(ctx context.Context, in PostMessageInput) (*meeting.ChatMessage, error) {
	exists, err := uc.Repo.UserExists(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !exists {
		return nil, meeting.ErrUserNotFound
	}

	joinedID, ok, err := uc.Live.JoinedMeeting(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if !ok || (in.MeetingID != 0 && in.MeetingID != joinedID) {
		return nil, meeting.ErrNotJoined
	}

	msg, err := meeting.NewChatMessage(in.Email, in.Text, time.Time{})
	if err != nil {
		return nil, err
	}
	msg.MeetingID = joinedID

	if _, err := uc.Live.AppendMessage(ctx, *msg); err != nil {
		return nil, err
	}

	if uc.Queue != nil {
		t, err := task.NewPersistMessageTask(*msg)
		if err == nil {
			_, err = uc.Queue.Enqueue(ctx, t, qport.EnqueueOption{Queue: "chat", MaxRetry: 10})
		}
		if err != nil {
			log.WithError(err).WithField("meeting_id", msg.MeetingID).Warn("chat message appended live but retention enqueue failed")
		}
	}
	return msg, nil
}
