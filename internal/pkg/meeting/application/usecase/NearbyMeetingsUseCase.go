package usecase

import (
	"context"
	"fmt"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/port"
)

// DefaultNearbyRadiusMeters bounds the proximity search.
const DefaultNearbyRadiusMeters = 100

// NearbyMeetingsUseCase finds live meetings within the search radius of a
// point, restricted to the ones the user is invited to. Empty results are a
// normal outcome, never an error.
type NearbyMeetingsUseCase struct {
	Repo         repository.MeetingRepository
	Live         livestate.Store
	RadiusMeters float64
}

func NewNearbyMeetingsUseCase(repo repository.MeetingRepository, live livestate.Store, radiusMeters float64) *NearbyMeetingsUseCase {
	if radiusMeters <= 0 {
		radiusMeters = DefaultNearbyRadiusMeters
	}
	return &NearbyMeetingsUseCase{Repo: repo, Live: live, RadiusMeters: radiusMeters}
}

func (uc *NearbyMeetingsUseCase) Execute(ctx context.Context, email string, x, y float64) ([]int64, error) {
	if x < -180 || x > 180 || y < -90 || y > 90 {
		return nil, &meeting.ValidationError{Violations: []string{"invalid coordinates"}}
	}
	exists, err := uc.Repo.UserExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !exists {
		return nil, meeting.ErrUserNotFound
	}
	return uc.Live.NearbyMeetingsForUser(ctx, email, x, y, uc.RadiusMeters)
}
