package usecase

import (
	"context"
	"fmt"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/port"
)

// GetMeetingUseCase reads a meeting from the durable store, the only copy
// that survives restarts.
type GetMeetingUseCase struct {
	Repo repository.MeetingRepository
}

func NewGetMeetingUseCase(repo repository.MeetingRepository) *GetMeetingUseCase {
	return &GetMeetingUseCase{Repo: repo}
}

func (uc *GetMeetingUseCase) Execute(ctx context.Context, meetingID int64) (*meeting.Meeting, error) {
	m, err := uc.Repo.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if m == nil {
		return nil, meeting.ErrMeetingNotFound
	}
	return m, nil
}
