package usecase

import (
	"context"
	"errors"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/port"
)

// EndMeetingUseCase tears down a live meeting and returns the participants
// who were still joined, each of which gets a TIMEOUT audit entry.
type EndMeetingUseCase struct {
	Repo repository.MeetingRepository
	Live livestate.Store
}

func NewEndMeetingUseCase(repo repository.MeetingRepository, live livestate.Store) *EndMeetingUseCase {
	return &EndMeetingUseCase{Repo: repo, Live: live}
}

func (uc *EndMeetingUseCase) Execute(ctx context.Context, meetingID int64) ([]string, error) {
	timedOut, err := uc.Live.Deactivate(ctx, meetingID)
	if errors.Is(err, meeting.ErrNotLive) {
		return nil, meeting.ErrMeetingNotFound
	}
	if err != nil {
		return nil, err
	}
	for _, email := range timedOut {
		writeAudit(ctx, uc.Repo, email, meetingID, meeting.ActionTimeout)
	}
	return timedOut, nil
}
