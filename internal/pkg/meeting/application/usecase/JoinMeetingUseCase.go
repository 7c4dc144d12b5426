package usecase

import (
	"context"
	"fmt"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/port"
)

// JoinMeetingUseCase applies the join protocol. Preconditions, first failure
// wins: the user exists durably, is not joined anywhere else, the meeting is
// active, and the user is invited. Re-joining the meeting the user is already
// in is an idempotent no-op and writes no duplicate audit entry.
type JoinMeetingUseCase struct {
	Repo repository.MeetingRepository
	Live livestate.Store
}

func NewJoinMeetingUseCase(repo repository.MeetingRepository, live livestate.Store) *JoinMeetingUseCase {
	return &JoinMeetingUseCase{Repo: repo, Live: live}
}

func (uc *JoinMeetingUseCase) Execute(ctx context.Context, email string, meetingID int64) error {
	exists, err := uc.Repo.UserExists(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !exists {
		return meeting.ErrUserNotFound
	}

	newlyJoined, err := uc.Live.Join(ctx, email, meetingID)
	if err != nil {
		return err
	}
	if newlyJoined {
		writeAudit(ctx, uc.Repo, email, meetingID, meeting.ActionJoin)
	}
	return nil
}
