package usecase

import (
	"context"

	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
)

// GetParticipantsUseCase returns the emails currently joined to a meeting.
// A meeting with no live projection yields an empty list.
type GetParticipantsUseCase struct {
	Live livestate.Store
}

func NewGetParticipantsUseCase(live livestate.Store) *GetParticipantsUseCase {
	return &GetParticipantsUseCase{Live: live}
}

func (uc *GetParticipantsUseCase) Execute(ctx context.Context, meetingID int64) ([]string, error) {
	return uc.Live.JoinedParticipants(ctx, meetingID)
}
