package usecase

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/port"
)

// CreateMeetingInput carries the raw attributes of a new meeting.
type CreateMeetingInput struct {
	Title        string
	Description  string
	T1           time.Time
	T2           time.Time
	Lat          float64
	Long         float64
	Participants string // comma-delimited invited emails
}

// CreateMeetingUseCase persists a new meeting and, when its window has not
// already elapsed, projects it into the live store right away so callers do
// not have to wait for the next reconciler tick.
type CreateMeetingUseCase struct {
	Repo repository.MeetingRepository
	Live livestate.Store
	Now  func() time.Time
}

func NewCreateMeetingUseCase(repo repository.MeetingRepository, live livestate.Store) *CreateMeetingUseCase {
	return &CreateMeetingUseCase{Repo: repo, Live: live, Now: time.Now}
}

func (uc *CreateMeetingUseCase) Execute(ctx context.Context, in CreateMeetingInput) (int64, error) {
	m, err := meeting.NewMeeting(in.Title, in.Description, in.T1, in.T2, in.Lat, in.Long, in.Participants)
	if err != nil {
		return 0, err
	}

	id, err := uc.Repo.CreateMeeting(ctx, *m)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	m.ID = id

	now := uc.Now()
	if !m.EndedAt(now) {
		// Best effort: the durable row is authoritative, so a failed
		// projection is repaired by the reconciler on its next tick.
		if err := uc.Live.Activate(ctx, *m, now); err != nil {
			log.WithError(err).WithField("meeting_id", id).Warn("meeting created but not projected live yet")
		}
	}
	return id, nil
}
