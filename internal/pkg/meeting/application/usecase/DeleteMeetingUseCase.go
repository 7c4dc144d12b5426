package usecase

import (
	"context"
	"errors"
	"fmt"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/port"
)

// DeleteMeetingUseCase removes the durable row and tears down any live
// projection. When a requester email is given it must belong to the invited
// set; an empty requester is an internal/administrative call.
type DeleteMeetingUseCase struct {
	Repo repository.MeetingRepository
	Live livestate.Store
}

func NewDeleteMeetingUseCase(repo repository.MeetingRepository, live livestate.Store) *DeleteMeetingUseCase {
	return &DeleteMeetingUseCase{Repo: repo, Live: live}
}

func (uc *DeleteMeetingUseCase) Execute(ctx context.Context, meetingID int64, requesterEmail string) error {
	m, err := uc.Repo.GetMeeting(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if m == nil {
		return meeting.ErrMeetingNotFound
	}
	if requesterEmail != "" && !m.Invites(requesterEmail) {
		return meeting.ErrUnauthorized
	}

	if _, err := uc.Repo.DeleteMeeting(ctx, meetingID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	timedOut, err := uc.Live.Deactivate(ctx, meetingID)
	if errors.Is(err, meeting.ErrNotLive) {
		return nil // was never projected, nothing to drain
	}
	if err != nil {
		return err
	}
	for _, email := range timedOut {
		writeAudit(ctx, uc.Repo, email, meetingID, meeting.ActionTimeout)
	}
	return nil
}
