package usecase

import (
	"context"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/port"
)

// LeaveMeetingUseCase removes the user's presence from a meeting they are
// currently joined to and audits the transition.
type LeaveMeetingUseCase struct {
	Repo repository.MeetingRepository
	Live livestate.Store
}

func NewLeaveMeetingUseCase(repo repository.MeetingRepository, live livestate.Store) *LeaveMeetingUseCase {
	return &LeaveMeetingUseCase{Repo: repo, Live: live}
}

func (uc *LeaveMeetingUseCase) Execute(ctx context.Context, email string, meetingID int64) error {
	if err := uc.Live.Leave(ctx, email, meetingID); err != nil {
		return err
	}
	writeAudit(ctx, uc.Repo, email, meetingID, meeting.ActionLeave)
	return nil
}
