package usecase

import (
	"context"

	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
)

// ListMeetingsUseCase exposes the live classification sets.
type ListMeetingsUseCase struct {
	Live livestate.Store
}

func NewListMeetingsUseCase(live livestate.Store) *ListMeetingsUseCase {
	return &ListMeetingsUseCase{Live: live}
}

// Active returns the ids of meetings currently classified active.
func (uc *ListMeetingsUseCase) Active(ctx context.Context) ([]int64, error) {
	return uc.Live.ActiveMeetingIDs(ctx)
}

// Upcoming returns the ids of meetings projected live but not yet started.
func (uc *ListMeetingsUseCase) Upcoming(ctx context.Context) ([]int64, error) {
	return uc.Live.UpcomingMeetingIDs(ctx)
}
