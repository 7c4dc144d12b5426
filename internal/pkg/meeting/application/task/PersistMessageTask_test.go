package task

import (
	"context"
	"testing"
	"time"

	qport "github.com/HliasMpGH/StepIn/internal/infrastructure/queue/port"
	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
)

// fakeServer captures registered handlers for direct invocation.
type fakeServer struct {
	handlers map[string]qport.Handler
}

func (f *fakeServer) Register(taskType string, h qport.Handler) {
	if f.handlers == nil {
		f.handlers = make(map[string]qport.Handler)
	}
	f.handlers[taskType] = h
}

func (f *fakeServer) Run(ctx context.Context) error  { return nil }
func (f *fakeServer) Stop(ctx context.Context) error { return nil }

// retentionRepo records SaveChatMessage calls; every other repository method
// is unused by the handler.
type retentionRepo struct {
	saved []meeting.ChatMessage
}

func (r *retentionRepo) CreateMeeting(ctx context.Context, m meeting.Meeting) (int64, error) {
	return 0, nil
}
func (r *retentionRepo) GetMeeting(ctx context.Context, meetingID int64) (*meeting.Meeting, error) {
	return nil, nil
}
func (r *retentionRepo) DeleteMeeting(ctx context.Context, meetingID int64) (bool, error) {
	return false, nil
}
func (r *retentionRepo) ActiveMeetingIDs(ctx context.Context, at time.Time) ([]int64, error) {
	return nil, nil
}
func (r *retentionRepo) UpcomingMeetingIDs(ctx context.Context, at time.Time) ([]int64, error) {
	return nil, nil
}
func (r *retentionRepo) UserExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (r *retentionRepo) LogAction(ctx context.Context, entry meeting.LogEntry) error { return nil }
func (r *retentionRepo) SaveChatMessage(ctx context.Context, msg meeting.ChatMessage) error {
	r.saved = append(r.saved, msg)
	return nil
}
func (r *retentionRepo) MeetingMessages(ctx context.Context, meetingID int64) ([]meeting.ChatMessage, error) {
	return nil, nil
}

func TestPersistMessageTaskRoundTrip(t *testing.T) {
	msg := meeting.ChatMessage{
		MeetingID: 7,
		Email:     "a@b.com",
		Text:      "hello",
		Timestamp: time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
	}

	qt, err := NewPersistMessageTask(msg)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if qt.Type != PersistMessageTaskType {
		t.Errorf("task type = %q", qt.Type)
	}

	srv := &fakeServer{}
	repo := &retentionRepo{}
	RegisterPersistMessageTask(srv, repo)

	h, ok := srv.handlers[PersistMessageTaskType]
	if !ok {
		t.Fatal("handler not registered")
	}
	if err := h(context.Background(), qt); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if len(repo.saved) != 1 {
		t.Fatalf("saved %d messages, want 1", len(repo.saved))
	}
	if repo.saved[0] != msg {
		t.Errorf("saved %+v, want %+v", repo.saved[0], msg)
	}

	if err := h(context.Background(), qport.Task{Type: PersistMessageTaskType, Payload: []byte("{")}); err == nil {
		t.Error("malformed payload accepted")
	}
}
