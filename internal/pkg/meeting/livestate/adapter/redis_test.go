package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	s, _ := newTestStoreWithClient(t)
	return s
}

func newTestStoreWithClient(t *testing.T) (*RedisStore, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreFromClient(client), client
}

// dropNextPipeline simulates a transient connection failure on the next
// MULTI/EXEC, before any of its commands reach the server.
type dropNextPipeline struct {
	armed bool
}

func (h *dropNextPipeline) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *dropNextPipeline) ProcessHook(next redis.ProcessHook) redis.ProcessHook { return next }

func (h *dropNextPipeline) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if h.armed {
			h.armed = false
			return errors.New("connection reset by peer")
		}
		return next(ctx, cmds)
	}
}

func seedMeeting(id int64, t1, t2 time.Time, participants string) meeting.Meeting {
	return meeting.Meeting{
		ID:           id,
		Title:        "Weekly sync",
		Description:  "room 4",
		T1:           t1,
		T2:           t2,
		Lat:          37.9838,
		Long:         23.7275,
		Participants: participants,
	}
}

func TestActivateClassifiesByWindow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	active := seedMeeting(1, now.Add(-time.Hour), now.Add(time.Hour), "a@b.com")
	upcoming := seedMeeting(2, now.Add(time.Hour), now.Add(2*time.Hour), "a@b.com")
	ended := seedMeeting(3, now.Add(-2*time.Hour), now.Add(-time.Hour), "a@b.com")

	if err := s.Activate(ctx, active, now); err != nil {
		t.Fatalf("activate active: %v", err)
	}
	if err := s.Activate(ctx, upcoming, now); err != nil {
		t.Fatalf("activate upcoming: %v", err)
	}
	if err := s.Activate(ctx, ended, now); !errors.Is(err, meeting.ErrNotLive) {
		t.Fatalf("expected ErrNotLive for ended meeting, got %v", err)
	}

	activeIDs, err := s.ActiveMeetingIDs(ctx)
	if err != nil {
		t.Fatalf("active ids: %v", err)
	}
	if len(activeIDs) != 1 || activeIDs[0] != 1 {
		t.Errorf("active ids = %v, want [1]", activeIDs)
	}
	upcomingIDs, err := s.UpcomingMeetingIDs(ctx)
	if err != nil {
		t.Fatalf("upcoming ids: %v", err)
	}
	if len(upcomingIDs) != 1 || upcomingIDs[0] != 2 {
		t.Errorf("upcoming ids = %v, want [2]", upcomingIDs)
	}
}

func TestActivatePromotesUpcomingMeeting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m := seedMeeting(7, t1, t1.Add(time.Hour), "a@b.com")

	if err := s.Activate(ctx, m, t1.Add(-time.Minute)); err != nil {
		t.Fatalf("activate as upcoming: %v", err)
	}
	if err := s.Activate(ctx, m, t1.Add(time.Minute)); err != nil {
		t.Fatalf("re-activate inside window: %v", err)
	}

	upcomingIDs, _ := s.UpcomingMeetingIDs(ctx)
	if len(upcomingIDs) != 0 {
		t.Errorf("meeting still classified upcoming: %v", upcomingIDs)
	}
	activeIDs, _ := s.ActiveMeetingIDs(ctx)
	if len(activeIDs) != 1 || activeIDs[0] != 7 {
		t.Errorf("active ids = %v, want [7]", activeIDs)
	}
}

func TestJoinPreconditionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	active := seedMeeting(1, now.Add(-time.Hour), now.Add(time.Hour), "a@b.com")
	upcoming := seedMeeting(2, now.Add(time.Hour), now.Add(2*time.Hour), "a@b.com")
	if err := s.Activate(ctx, active, now); err != nil {
		t.Fatal(err)
	}
	if err := s.Activate(ctx, upcoming, now); err != nil {
		t.Fatal(err)
	}

	// Not yet active.
	if _, err := s.Join(ctx, "a@b.com", 2); !errors.Is(err, meeting.ErrMeetingNotActive) {
		t.Fatalf("expected ErrMeetingNotActive, got %v", err)
	}
	// Active but not invited.
	if _, err := s.Join(ctx, "stranger@x.com", 1); !errors.Is(err, meeting.ErrNotInvited) {
		t.Fatalf("expected ErrNotInvited, got %v", err)
	}

	newly, err := s.Join(ctx, "a@b.com", 1)
	if err != nil || !newly {
		t.Fatalf("join = (%v, %v), want (true, nil)", newly, err)
	}

	// The back-reference check precedes every other precondition, so a second
	// join attempt through the not-yet-active meeting reports the conflict.
	if _, err := s.Join(ctx, "a@b.com", 2); !errors.Is(err, meeting.ErrAlreadyJoined) {
		t.Fatalf("expected ErrAlreadyJoined, got %v", err)
	}

	// Re-joining the same meeting is a no-op.
	newly, err = s.Join(ctx, "a@b.com", 1)
	if err != nil || newly {
		t.Fatalf("re-join = (%v, %v), want (false, nil)", newly, err)
	}
}

func TestLeave(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	m := seedMeeting(1, now.Add(-time.Hour), now.Add(time.Hour), "a@b.com")
	if err := s.Activate(ctx, m, now); err != nil {
		t.Fatal(err)
	}

	if err := s.Leave(ctx, "a@b.com", 1); !errors.Is(err, meeting.ErrNotJoined) {
		t.Fatalf("expected ErrNotJoined before join, got %v", err)
	}

	if _, err := s.Join(ctx, "a@b.com", 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Leave(ctx, "a@b.com", 1); err != nil {
		t.Fatalf("leave: %v", err)
	}

	if _, joined, err := s.JoinedMeeting(ctx, "a@b.com"); err != nil || joined {
		t.Fatalf("back-reference survives leave: joined=%v err=%v", joined, err)
	}
	members, err := s.JoinedParticipants(ctx, 1)
	if err != nil || len(members) != 0 {
		t.Fatalf("joined set after leave = %v (err %v)", members, err)
	}
}

func TestDeactivateDrainsJoined(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	m := seedMeeting(1, now.Add(-time.Hour), now.Add(time.Hour), "a@b.com, c@d.com")
	if err := s.Activate(ctx, m, now); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Join(ctx, "a@b.com", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Join(ctx, "c@d.com", 1); err != nil {
		t.Fatal(err)
	}

	drained, err := s.Deactivate(ctx, 1)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if len(drained) != 2 {
		t.Fatalf("drained = %v, want both joined members", drained)
	}

	for _, email := range []string{"a@b.com", "c@d.com"} {
		if _, joined, err := s.JoinedMeeting(ctx, email); err != nil || joined {
			t.Errorf("%s still has a back-reference (err %v)", email, err)
		}
	}
	if _, err := s.GetMeeting(ctx, 1); !errors.Is(err, meeting.ErrNotLive) {
		t.Errorf("projection survives deactivation: %v", err)
	}
	if _, err := s.Deactivate(ctx, 1); !errors.Is(err, meeting.ErrNotLive) {
		t.Errorf("second deactivate should report ErrNotLive, got %v", err)
	}
}

func TestNearbyMeetingsForUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	near := seedMeeting(1, now.Add(-time.Hour), now.Add(time.Hour), "a@b.com")
	// Same position but the user is not invited.
	other := seedMeeting(2, now.Add(-time.Hour), now.Add(time.Hour), "c@d.com")
	// Invited but roughly 111km north.
	far := seedMeeting(3, now.Add(-time.Hour), now.Add(time.Hour), "a@b.com")
	far.Lat += 1

	for _, m := range []meeting.Meeting{near, other, far} {
		if err := s.Activate(ctx, m, now); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := s.NearbyMeetingsForUser(ctx, "a@b.com", near.Long, near.Lat, 100)
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("nearby ids = %v, want [1]", ids)
	}

	ids, err = s.NearbyMeetingsForUser(ctx, "a@b.com", 0, 0, 100)
	if err != nil {
		t.Fatalf("nearby at origin: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("nearby at origin = %v, want none", ids)
	}
}

func TestChatLogOrderingAndUserIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	m := seedMeeting(1, now.Add(-time.Hour), now.Add(time.Hour), "a@b.com, c@d.com")
	if err := s.Activate(ctx, m, now); err != nil {
		t.Fatal(err)
	}
	for _, email := range []string{"a@b.com", "c@d.com"} {
		if _, err := s.Join(ctx, email, 1); err != nil {
			t.Fatal(err)
		}
	}

	texts := []struct {
		email, text string
	}{
		{"a@b.com", "first"},
		{"c@d.com", "second"},
		{"a@b.com", "third"},
	}
	for i, msg := range texts {
		pos, err := s.AppendMessage(ctx, meeting.ChatMessage{
			MeetingID: 1, Email: msg.email, Text: msg.text, Timestamp: now.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if pos != int64(i) {
			t.Fatalf("append %d returned position %d", i, pos)
		}
	}

	all, err := s.MeetingMessages(ctx, 1)
	if err != nil {
		t.Fatalf("meeting messages: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d messages, want 3", len(all))
	}
	for i, msg := range texts {
		if all[i].Text != msg.text || all[i].Email != msg.email {
			t.Errorf("message %d = %+v, want %+v", i, all[i], msg)
		}
	}

	mine, err := s.UserMessages(ctx, "a@b.com", 1)
	if err != nil {
		t.Fatalf("user messages: %v", err)
	}
	if len(mine) != 2 || mine[0].Text != "first" || mine[1].Text != "third" {
		t.Errorf("user messages = %+v", mine)
	}

	// A user outside the invited set gets an empty list, not an error.
	none, err := s.UserMessages(ctx, "stranger@x.com", 1)
	if err != nil || len(none) != 0 {
		t.Errorf("stranger messages = %v (err %v)", none, err)
	}
}

func TestLeaveFailureLeavesPairIntact(t *testing.T) {
	s, client := newTestStoreWithClient(t)
	hook := &dropNextPipeline{}
	client.AddHook(hook)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	m := seedMeeting(1, now.Add(-time.Hour), now.Add(time.Hour), "a@b.com")
	if err := s.Activate(ctx, m, now); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Join(ctx, "a@b.com", 1); err != nil {
		t.Fatal(err)
	}

	hook.armed = true
	if err := s.Leave(ctx, "a@b.com", 1); err == nil {
		t.Fatal("leave succeeded despite store failure")
	}

	// Neither write applied: the back-reference and the joined-set entry
	// still agree.
	id, joined, err := s.JoinedMeeting(ctx, "a@b.com")
	if err != nil || !joined || id != 1 {
		t.Fatalf("back-reference = (%d, %v, %v), want (1, true, nil)", id, joined, err)
	}
	members, err := s.JoinedParticipants(ctx, 1)
	if err != nil || len(members) != 1 || members[0] != "a@b.com" {
		t.Fatalf("joined set = %v (err %v), want [a@b.com]", members, err)
	}

	// The retry drains both sides together.
	if err := s.Leave(ctx, "a@b.com", 1); err != nil {
		t.Fatalf("retried leave: %v", err)
	}
	if _, joined, _ := s.JoinedMeeting(ctx, "a@b.com"); joined {
		t.Error("back-reference survives successful leave")
	}
	if members, _ := s.JoinedParticipants(ctx, 1); len(members) != 0 {
		t.Errorf("joined set after leave = %v", members)
	}
}

func TestDeactivateFailureKeepsMeetingRetryable(t *testing.T) {
	s, client := newTestStoreWithClient(t)
	hook := &dropNextPipeline{}
	client.AddHook(hook)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	m := seedMeeting(1, now.Add(-time.Hour), now.Add(time.Hour), "a@b.com")
	if err := s.Activate(ctx, m, now); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Join(ctx, "a@b.com", 1); err != nil {
		t.Fatal(err)
	}

	hook.armed = true
	if _, err := s.Deactivate(ctx, 1); err == nil {
		t.Fatal("deactivate succeeded despite store failure")
	}

	// Nothing was torn down: the meeting is still classified, so a later
	// scan can find it again, and the user's presence is intact.
	activeIDs, err := s.ActiveMeetingIDs(ctx)
	if err != nil || len(activeIDs) != 1 || activeIDs[0] != 1 {
		t.Fatalf("active after failed deactivate = %v (err %v), want [1]", activeIDs, err)
	}
	if _, err := s.GetMeeting(ctx, 1); err != nil {
		t.Fatalf("projection lost after failed deactivate: %v", err)
	}
	id, joined, err := s.JoinedMeeting(ctx, "a@b.com")
	if err != nil || !joined || id != 1 {
		t.Fatalf("back-reference = (%d, %v, %v), want (1, true, nil)", id, joined, err)
	}

	// The retry performs the full teardown.
	drained, err := s.Deactivate(ctx, 1)
	if err != nil {
		t.Fatalf("retried deactivate: %v", err)
	}
	if len(drained) != 1 || drained[0] != "a@b.com" {
		t.Errorf("drained = %v, want [a@b.com]", drained)
	}
	if _, joined, _ := s.JoinedMeeting(ctx, "a@b.com"); joined {
		t.Error("back-reference survives successful deactivate")
	}
}

func TestAppendMessageRequiresLiveJoinedMeeting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	m := seedMeeting(1, now.Add(-time.Hour), now.Add(time.Hour), "a@b.com")
	if err := s.Activate(ctx, m, now); err != nil {
		t.Fatal(err)
	}

	// Invited but not joined.
	msg := meeting.ChatMessage{MeetingID: 1, Email: "a@b.com", Text: "hi", Timestamp: now}
	if _, err := s.AppendMessage(ctx, msg); !errors.Is(err, meeting.ErrNotJoined) {
		t.Fatalf("expected ErrNotJoined before join, got %v", err)
	}

	if _, err := s.Join(ctx, "a@b.com", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AppendMessage(ctx, msg); err != nil {
		t.Fatalf("append while joined: %v", err)
	}

	if _, err := s.Deactivate(ctx, 1); err != nil {
		t.Fatal(err)
	}

	// An append racing the teardown must not resurrect the chat keys.
	if _, err := s.AppendMessage(ctx, msg); !errors.Is(err, meeting.ErrNotLive) {
		t.Fatalf("expected ErrNotLive after teardown, got %v", err)
	}
	msgs, err := s.MeetingMessages(ctx, 1)
	if err != nil || len(msgs) != 0 {
		t.Errorf("chat log after teardown = %v (err %v), want empty", msgs, err)
	}
}
