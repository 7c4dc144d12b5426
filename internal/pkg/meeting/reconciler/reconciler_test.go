package reconciler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/adapter"
)

// fakeRepo serves canned classification lists and records audit writes.
type fakeRepo struct {
	mu       sync.Mutex
	meetings map[int64]meeting.Meeting
	active   []int64
	upcoming []int64
	logs     []meeting.LogEntry
}

func (f *fakeRepo) CreateMeeting(ctx context.Context, m meeting.Meeting) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) GetMeeting(ctx context.Context, meetingID int64) (*meeting.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[meetingID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeRepo) DeleteMeeting(ctx context.Context, meetingID int64) (bool, error) {
	return false, nil
}

func (f *fakeRepo) ActiveMeetingIDs(ctx context.Context, at time.Time) ([]int64, error) {
	return f.active, nil
}

func (f *fakeRepo) UpcomingMeetingIDs(ctx context.Context, at time.Time) ([]int64, error) {
	return f.upcoming, nil
}

func (f *fakeRepo) UserExists(ctx context.Context, email string) (bool, error) {
	return true, nil
}

func (f *fakeRepo) LogAction(ctx context.Context, entry meeting.LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakeRepo) SaveChatMessage(ctx context.Context, msg meeting.ChatMessage) error {
	return nil
}

func (f *fakeRepo) MeetingMessages(ctx context.Context, meetingID int64) ([]meeting.ChatMessage, error) {
	return nil, nil
}

func newTestLive(t *testing.T) *adapter.RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return adapter.NewRedisStoreFromClient(client)
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
}

func testMeeting(id int64, t1, t2 time.Time) meeting.Meeting {
	return meeting.Meeting{
		ID:           id,
		Title:        "Weekly sync",
		T1:           t1,
		T2:           t2,
		Lat:          37.9838,
		Long:         23.7275,
		Participants: "a@b.com, c@d.com",
	}
}

func TestReconcileProjectsDurableClassification(t *testing.T) {
	now := fixedNow()
	repo := &fakeRepo{
		meetings: map[int64]meeting.Meeting{
			1: testMeeting(1, now.Add(-time.Hour), now.Add(time.Hour)),
			2: testMeeting(2, now.Add(time.Hour), now.Add(2*time.Hour)),
		},
		active:   []int64{1},
		upcoming: []int64{2},
	}
	live := newTestLive(t)

	r := New(repo, live, time.Minute)
	r.Now = fixedNow
	if err := r.Reconcile(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	activeIDs, _ := live.ActiveMeetingIDs(context.Background())
	if len(activeIDs) != 1 || activeIDs[0] != 1 {
		t.Errorf("active = %v, want [1]", activeIDs)
	}
	upcomingIDs, _ := live.UpcomingMeetingIDs(context.Background())
	if len(upcomingIDs) != 1 || upcomingIDs[0] != 2 {
		t.Errorf("upcoming = %v, want [2]", upcomingIDs)
	}

	// A second pass over an aligned state changes nothing.
	if err := r.Reconcile(context.Background()); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	activeIDs, _ = live.ActiveMeetingIDs(context.Background())
	if len(activeIDs) != 1 || activeIDs[0] != 1 {
		t.Errorf("active after second pass = %v, want [1]", activeIDs)
	}
}

func TestReconcileDeactivatesStaleMeetingAndAuditsTimeouts(t *testing.T) {
	now := fixedNow()
	repo := &fakeRepo{meetings: map[int64]meeting.Meeting{}}
	live := newTestLive(t)
	ctx := context.Background()

	// Live knows a meeting the durable store no longer classifies.
	stale := testMeeting(9, now.Add(-time.Hour), now.Add(time.Hour))
	if err := live.Activate(ctx, stale, now); err != nil {
		t.Fatal(err)
	}
	if _, err := live.Join(ctx, "a@b.com", 9); err != nil {
		t.Fatal(err)
	}

	r := New(repo, live, time.Minute)
	r.Now = fixedNow
	if err := r.Reconcile(ctx); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	activeIDs, _ := live.ActiveMeetingIDs(ctx)
	if len(activeIDs) != 0 {
		t.Errorf("stale meeting still active: %v", activeIDs)
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.logs) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(repo.logs))
	}
	entry := repo.logs[0]
	if entry.Email != "a@b.com" || entry.MeetingID != 9 || entry.Action != meeting.ActionTimeout {
		t.Errorf("unexpected audit entry %+v", entry)
	}
}

func TestReconcilePromotesUpcomingToActive(t *testing.T) {
	now := fixedNow()
	m := testMeeting(4, now.Add(-time.Minute), now.Add(time.Hour))
	repo := &fakeRepo{
		meetings: map[int64]meeting.Meeting{4: m},
		active:   []int64{4},
	}
	live := newTestLive(t)
	ctx := context.Background()

	// Projected earlier, while the window had not opened yet.
	if err := live.Activate(ctx, m, now.Add(-2*time.Minute)); err != nil {
		t.Fatal(err)
	}
	upcomingIDs, _ := live.UpcomingMeetingIDs(ctx)
	if len(upcomingIDs) != 1 {
		t.Fatalf("precondition failed, upcoming = %v", upcomingIDs)
	}

	r := New(repo, live, time.Minute)
	r.Now = fixedNow
	if err := r.Reconcile(ctx); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	activeIDs, _ := live.ActiveMeetingIDs(ctx)
	if len(activeIDs) != 1 || activeIDs[0] != 4 {
		t.Errorf("active = %v, want [4]", activeIDs)
	}
	upcomingIDs, _ = live.UpcomingMeetingIDs(ctx)
	if len(upcomingIDs) != 0 {
		t.Errorf("upcoming = %v, want none", upcomingIDs)
	}
}

func TestReconcileTearsDownElapsedProjection(t *testing.T) {
	now := fixedNow()
	ended := testMeeting(6, now.Add(-2*time.Hour), now.Add(-time.Hour))
	repo := &fakeRepo{
		meetings: map[int64]meeting.Meeting{6: ended},
		// The classification list is stale and still names the meeting.
		active: []int64{6},
	}
	live := newTestLive(t)
	ctx := context.Background()

	if err := live.Activate(ctx, ended, now.Add(-90*time.Minute)); err != nil {
		t.Fatal(err)
	}

	r := New(repo, live, time.Minute)
	r.Now = fixedNow
	if err := r.Reconcile(ctx); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	activeIDs, _ := live.ActiveMeetingIDs(ctx)
	upcomingIDs, _ := live.UpcomingMeetingIDs(ctx)
	if len(activeIDs) != 0 || len(upcomingIDs) != 0 {
		t.Errorf("elapsed meeting still live: active=%v upcoming=%v", activeIDs, upcomingIDs)
	}
}
