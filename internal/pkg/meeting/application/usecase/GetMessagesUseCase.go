package usecase

import (
	"context"
	"errors"
	"fmt"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/port"
)

// GetMessagesUseCase reads chat logs. Live meetings are served from the
// live-state log; meetings that are no longer projected fall back to the
// durable retention table.
type GetMessagesUseCase struct {
	Repo repository.MeetingRepository
	Live livestate.Store
}

func NewGetMessagesUseCase(repo repository.MeetingRepository, live livestate.Store) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo, Live: live}
}

// MeetingMessages returns the full ordered chat log of a meeting.
func (uc *GetMessagesUseCase) MeetingMessages(ctx context.Context, meetingID int64) ([]meeting.ChatMessage, error) {
	_, err := uc.Live.GetMeeting(ctx, meetingID)
	if err == nil {
		return uc.Live.MeetingMessages(ctx, meetingID)
	}
	if !errors.Is(err, meeting.ErrNotLive) {
		return nil, err
	}
	msgs, err := uc.Repo.MeetingMessages(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msgs == nil {
		msgs = []meeting.ChatMessage{}
	}
	return msgs, nil
}

// UserMessages returns only the user's entries, in original relative order,
// fetched by position through the per-(meeting,user) index. A zero meeting
// id resolves to the user's currently joined meeting; without one the result
// is empty, matching the live store's not-live and not-invited fallbacks.
func (uc *GetMessagesUseCase) UserMessages(ctx context.Context, email string, meetingID int64) ([]meeting.ChatMessage, error) {
	if meetingID == 0 {
		joinedID, ok, err := uc.Live.JoinedMeeting(ctx, email)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []meeting.ChatMessage{}, nil
		}
		meetingID = joinedID
	}
	return uc.Live.UserMessages(ctx, email, meetingID)
}
