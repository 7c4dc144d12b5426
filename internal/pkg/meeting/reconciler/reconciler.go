package reconciler

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/port"
)

// DefaultInterval is the scan period between reconciliation ticks.
const DefaultInterval = 60 * time.Second

// tickTimeout bounds a single reconciliation pass. A timed-out tick is
// abandoned; the next scheduled tick supersedes it.
const tickTimeout = 30 * time.Second

// Reconciler keeps the live store's upcoming/active classification aligned
// with the durable store's time-window truth. It runs on a single background
// worker; a tick still in flight suppresses the next one instead of
// overlapping it. The live store is treated as fully rebuildable: every
// correction is derived from durable rows only.
type Reconciler struct {
	Repo     repository.MeetingRepository
	Live     livestate.Store
	Interval time.Duration
	Now      func() time.Time

	inFlight atomic.Bool
	stop     chan struct{}
	done     chan struct{}
}

func New(repo repository.MeetingRepository, live livestate.Store, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reconciler{
		Repo:     repo,
		Live:     live,
		Interval: interval,
		Now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background worker with an immediate first scan.
func (r *Reconciler) Start(ctx context.Context) {
	go func() {
		defer close(r.done)

		r.tick(ctx)

		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stop:
				return
			case <-ticker.C:
				r.tick(ctx)
			}
		}
	}()
}

// Stop shuts the worker down, waiting up to wait for an in-flight tick.
func (r *Reconciler) Stop(wait time.Duration) {
	close(r.stop)
	select {
	case <-r.done:
	case <-time.After(wait):
		log.Warn("reconciler: shutdown abandoned in-flight tick")
	}
}

func (r *Reconciler) tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, tickTimeout)
	defer cancel()
	if err := r.Reconcile(ctx); err != nil {
		log.WithError(err).Error("reconciler: tick aborted")
	}
}

// Reconcile performs one full scan. Only one scan runs at a time; a call
// while another is in flight returns immediately. Store-level failures while
// reading the classification abort the scan; failures on an individual
// meeting are logged and skipped, the next tick retries them.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	if !r.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer r.inFlight.Store(false)

	now := r.Now()

	dbActive, err := r.Repo.ActiveMeetingIDs(ctx, now)
	if err != nil {
		return err
	}
	dbUpcoming, err := r.Repo.UpcomingMeetingIDs(ctx, now)
	if err != nil {
		return err
	}
	liveActive, err := r.Live.ActiveMeetingIDs(ctx)
	if err != nil {
		return err
	}
	liveUpcoming, err := r.Live.UpcomingMeetingIDs(ctx)
	if err != nil {
		return err
	}

	wantActive := idSet(dbActive)
	wantUpcoming := idSet(dbUpcoming)
	haveActive := idSet(liveActive)
	haveUpcoming := idSet(liveUpcoming)

	// Tear down live meetings the durable store no longer classifies as
	// upcoming or active (deleted, or window closed), and any meeting whose
	// projected window has elapsed regardless of what the durable
	// classification said. Re-activation below rebuilds legitimate drift
	// cases from the durable row.
	for id := range union(haveActive, haveUpcoming) {
		if !wantActive[id] && !wantUpcoming[id] {
			r.deactivate(ctx, id)
			continue
		}
		p, err := r.Live.GetMeeting(ctx, id)
		if err == nil && !now.Before(p.T2) {
			r.deactivate(ctx, id)
			delete(haveActive, id)
			delete(haveUpcoming, id)
		}
	}

	// Project everything the durable store says should be live but is not,
	// or is sitting in the wrong classification set. Activation is
	// idempotent and re-classifies, so the upcoming -> active transition is
	// just a re-activation.
	for _, id := range dbActive {
		if !haveActive[id] {
			r.activate(ctx, id, now)
		}
	}
	for _, id := range dbUpcoming {
		if !haveUpcoming[id] && !haveActive[id] {
			r.activate(ctx, id, now)
		}
	}
	return ctx.Err()
}

func (r *Reconciler) activate(ctx context.Context, meetingID int64, now time.Time) {
	m, err := r.Repo.GetMeeting(ctx, meetingID)
	if err != nil {
		log.WithError(err).WithField("meeting_id", meetingID).Error("reconciler: read meeting failed")
		return
	}
	if m == nil {
		return // deleted between the classification query and now
	}
	if err := r.Live.Activate(ctx, *m, now); err != nil {
		log.WithError(err).WithField("meeting_id", meetingID).Error("reconciler: activate failed")
		return
	}
	log.WithFields(log.Fields{"meeting_id": meetingID, "title": m.Title}).Info("reconciler: activated meeting")
}

func (r *Reconciler) deactivate(ctx context.Context, meetingID int64) {
	timedOut, err := r.Live.Deactivate(ctx, meetingID)
	if errors.Is(err, meeting.ErrNotLive) {
		return
	}
	if err != nil {
		log.WithError(err).WithField("meeting_id", meetingID).Error("reconciler: deactivate failed")
		return
	}
	for _, email := range timedOut {
		entry := meeting.LogEntry{
			Email:     email,
			MeetingID: meetingID,
			Action:    meeting.ActionTimeout,
			Timestamp: time.Now().UTC(),
		}
		if err := r.Repo.LogAction(ctx, entry); err != nil {
			log.WithError(err).WithFields(log.Fields{"email": email, "meeting_id": meetingID}).Error("reconciler: timeout audit write failed")
		}
	}
	log.WithFields(log.Fields{"meeting_id": meetingID, "timed_out": len(timedOut)}).Info("reconciler: deactivated meeting")
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func union(a, b map[int64]bool) map[int64]bool {
	out := make(map[int64]bool, len(a)+len(b))
	for id := range a {
		out[id] = true
	}
	for id := range b {
		out[id] = true
	}
	return out
}
