package usecase

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/port"
)

const auditTimeout = 3 * time.Second

// writeAudit appends one presence transition to the durable log. Audit
// writes are fire-and-forget relative to the live-state mutation that
// triggered them: a failure is logged, never rolled back, because the live
// effect is the operationally important one. The write runs on a detached
// context so a cancelled request cannot drop the entry.
func writeAudit(ctx context.Context, repo repository.MeetingRepository, email string, meetingID int64, action meeting.Action) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	entry := meeting.LogEntry{
		Email:     email,
		MeetingID: meetingID,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
	if err := repo.LogAction(ctx, entry); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"email":      email,
			"meeting_id": meetingID,
			"action":     action.String(),
		}).Error("audit log write failed")
	}
}
