package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
)

// Redis key layout. One classification set per lifecycle state, one GEO key
// for all meeting positions, and per-meeting keys for the projection hash,
// invited set, joined set and chat log. Secondary indexes: per-user invited
// meetings set and per-(meeting,user) chat position list.
const (
	activeMeetingsKey   = "active_meetings"
	upcomingMeetingsKey = "upcoming_meetings"
	meetingPositionsKey = "meeting_positions"
	meetingPrefix       = "meeting:"
	participantsPrefix  = "participants:"
	joinedPrefix        = "joined:"
	chatPrefix          = "chat:"
	userJoinedPrefix    = "user_joined_meeting:"
	userMeetingsPrefix  = "user_participate_meetings:"
)

func meetingKey(id int64) string      { return meetingPrefix + strconv.FormatInt(id, 10) }
func participantsKey(id int64) string { return participantsPrefix + strconv.FormatInt(id, 10) }
func joinedKey(id int64) string       { return joinedPrefix + strconv.FormatInt(id, 10) }
func chatKey(id int64) string         { return chatPrefix + strconv.FormatInt(id, 10) }
func userChatKey(id int64, email string) string {
	return chatKey(id) + ":" + email
}
func userJoinedKey(email string) string   { return userJoinedPrefix + email }
func userMeetingsKey(email string) string { return userMeetingsPrefix + email }

// chatEntry is the wire form of a chat message inside the Redis log.
type chatEntry struct {
	Email     string    `json:"email"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// RedisStore satisfies port.Store on top of a go-redis v9 client.
//
// Individual Redis commands are atomic, but compound mutations (join =
// back-reference claim + joined-set add, deactivation = capture + teardown)
// span several commands. Those are serialized through striped per-meeting
// locks; the user back-reference is additionally claimed with SETNX so two
// joins for the same user through different meetings cannot both win. Write
// pairs that must move together (leave, chat append, the deactivation
// teardown) ride a single MULTI/EXEC so a transient failure applies none of
// them and the operation stays retryable.
type RedisStore struct {
	client *redis.Client
	locks  meetingLocks
}

// NewRedisStore connects to the given redis URL and verifies it with a ping.
func NewRedisStore(url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("livestate: parse redis url: %w", err)
	}
	c := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("livestate: ping: %w", err)
	}
	return &RedisStore{client: c}, nil
}

// NewRedisStoreFromClient wraps an existing client. Used by tests.
func NewRedisStoreFromClient(c *redis.Client) *RedisStore {
	return &RedisStore{client: c}
}

var _ port.Store = (*RedisStore)(nil)

func (s *RedisStore) Activate(ctx context.Context, m meeting.Meeting, now time.Time) error {
	if m.EndedAt(now) {
		return meeting.ErrNotLive
	}
	unlock := s.locks.lock(m.ID)
	defer unlock()

	idStr := strconv.FormatInt(m.ID, 10)

	// Reset transient state from any previous activation before projecting:
	// joined members lose their back-reference, stale chat indexes and
	// secondary memberships of the old invited set are removed.
	prevJoined, err := s.client.SMembers(ctx, joinedKey(m.ID)).Result()
	if err != nil {
		return fmt.Errorf("livestate: activate %d: %w", m.ID, err)
	}
	for _, email := range prevJoined {
		if err := s.client.Del(ctx, userJoinedKey(email)).Err(); err != nil {
			return fmt.Errorf("livestate: activate %d: %w", m.ID, err)
		}
	}
	prevInvited, err := s.client.SMembers(ctx, participantsKey(m.ID)).Result()
	if err != nil {
		return fmt.Errorf("livestate: activate %d: %w", m.ID, err)
	}
	for _, email := range prevInvited {
		if err := s.client.SRem(ctx, userMeetingsKey(email), idStr).Err(); err != nil {
			return fmt.Errorf("livestate: activate %d: %w", m.ID, err)
		}
		if err := s.client.Del(ctx, userChatKey(m.ID, email)).Err(); err != nil {
			return fmt.Errorf("livestate: activate %d: %w", m.ID, err)
		}
	}
	if err := s.client.Del(ctx, joinedKey(m.ID), chatKey(m.ID), participantsKey(m.ID)).Err(); err != nil {
		return fmt.Errorf("livestate: activate %d: %w", m.ID, err)
	}

	// Projection hash.
	fields := map[string]any{
		"title":       m.Title,
		"description": m.Description,
		"t1":          m.T1.UTC().Format(time.RFC3339Nano),
		"t2":          m.T2.UTC().Format(time.RFC3339Nano),
	}
	if err := s.client.HSet(ctx, meetingKey(m.ID), fields).Err(); err != nil {
		return fmt.Errorf("livestate: activate %d: %w", m.ID, err)
	}

	// Geospatial index.
	loc := &redis.GeoLocation{Name: idStr, Longitude: m.Long, Latitude: m.Lat}
	if err := s.client.GeoAdd(ctx, meetingPositionsKey, loc).Err(); err != nil {
		return fmt.Errorf("livestate: activate %d: %w", m.ID, err)
	}

	// Invited set plus the per-user secondary index used by proximity search.
	for _, email := range m.ParticipantList() {
		if err := s.client.SAdd(ctx, participantsKey(m.ID), email).Err(); err != nil {
			return fmt.Errorf("livestate: activate %d: %w", m.ID, err)
		}
		if err := s.client.SAdd(ctx, userMeetingsKey(email), idStr).Err(); err != nil {
			return fmt.Errorf("livestate: activate %d: %w", m.ID, err)
		}
	}

	// Classification. Removing from both sets first makes re-activation also
	// serve the upcoming -> active transition.
	if err := s.client.SRem(ctx, activeMeetingsKey, idStr).Err(); err != nil {
		return fmt.Errorf("livestate: activate %d: %w", m.ID, err)
	}
	if err := s.client.SRem(ctx, upcomingMeetingsKey, idStr).Err(); err != nil {
		return fmt.Errorf("livestate: activate %d: %w", m.ID, err)
	}
	classKey := upcomingMeetingsKey
	if m.ActiveAt(now) {
		classKey = activeMeetingsKey
	}
	if err := s.client.SAdd(ctx, classKey, idStr).Err(); err != nil {
		return fmt.Errorf("livestate: activate %d: %w", m.ID, err)
	}
	return nil
}

func (s *RedisStore) Deactivate(ctx context.Context, meetingID int64) ([]string, error) {
	unlock := s.locks.lock(meetingID)
	defer unlock()

	idStr := strconv.FormatInt(meetingID, 10)

	exists, err := s.client.Exists(ctx, meetingKey(meetingID)).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: deactivate %d: %w", meetingID, err)
	}
	inActive, err := s.client.SIsMember(ctx, activeMeetingsKey, idStr).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: deactivate %d: %w", meetingID, err)
	}
	inUpcoming, err := s.client.SIsMember(ctx, upcomingMeetingsKey, idStr).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: deactivate %d: %w", meetingID, err)
	}
	if exists == 0 && !inActive && !inUpcoming {
		return nil, meeting.ErrNotLive
	}

	// Capture still-joined members and the invited set with plain reads,
	// then perform the whole teardown in one MULTI/EXEC. A transient
	// failure applies nothing: classification membership stays, so the
	// next reconciler tick sees the meeting and retries the teardown.
	joined, err := s.client.SMembers(ctx, joinedKey(meetingID)).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: deactivate %d: %w", meetingID, err)
	}
	invited, err := s.client.SMembers(ctx, participantsKey(meetingID)).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: deactivate %d: %w", meetingID, err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SRem(ctx, activeMeetingsKey, idStr)
		p.SRem(ctx, upcomingMeetingsKey, idStr)
		p.ZRem(ctx, meetingPositionsKey, idStr)
		for _, email := range joined {
			p.Del(ctx, userJoinedKey(email))
		}
		for _, email := range invited {
			p.SRem(ctx, userMeetingsKey(email), idStr)
			p.Del(ctx, userChatKey(meetingID, email))
		}
		p.Del(ctx, meetingKey(meetingID), participantsKey(meetingID), joinedKey(meetingID), chatKey(meetingID))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("livestate: deactivate %d: %w", meetingID, err)
	}
	if joined == nil {
		joined = []string{}
	}
	return joined, nil
}

func (s *RedisStore) GetMeeting(ctx context.Context, meetingID int64) (*port.Projection, error) {
	fields, err := s.client.HGetAll(ctx, meetingKey(meetingID)).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: get meeting %d: %w", meetingID, err)
	}
	if len(fields) == 0 {
		return nil, meeting.ErrNotLive
	}
	t1, err := time.Parse(time.RFC3339Nano, fields["t1"])
	if err != nil {
		return nil, fmt.Errorf("livestate: get meeting %d: bad t1: %w", meetingID, err)
	}
	t2, err := time.Parse(time.RFC3339Nano, fields["t2"])
	if err != nil {
		return nil, fmt.Errorf("livestate: get meeting %d: bad t2: %w", meetingID, err)
	}
	p := &port.Projection{
		ID:          meetingID,
		Title:       fields["title"],
		Description: fields["description"],
		T1:          t1,
		T2:          t2,
	}

	idStr := strconv.FormatInt(meetingID, 10)
	pos, err := s.client.GeoPos(ctx, meetingPositionsKey, idStr).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: get meeting %d: %w", meetingID, err)
	}
	if len(pos) > 0 && pos[0] != nil {
		p.Long = pos[0].Longitude
		p.Lat = pos[0].Latitude
	}

	participants, err := s.client.SMembers(ctx, participantsKey(meetingID)).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: get meeting %d: %w", meetingID, err)
	}
	p.Participants = participants
	return p, nil
}

func (s *RedisStore) ActiveMeetingIDs(ctx context.Context) ([]int64, error) {
	return s.memberIDs(ctx, activeMeetingsKey)
}

func (s *RedisStore) UpcomingMeetingIDs(ctx context.Context) ([]int64, error) {
	return s.memberIDs(ctx, upcomingMeetingsKey)
}

func (s *RedisStore) memberIDs(ctx context.Context, key string) ([]int64, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: members of %s: %w", key, err)
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *RedisStore) Join(ctx context.Context, email string, meetingID int64) (bool, error) {
	unlock := s.locks.lock(meetingID)
	defer unlock()

	idStr := strconv.FormatInt(meetingID, 10)

	// Precondition order matters: back-reference, then active, then invited.
	current, err := s.client.Get(ctx, userJoinedKey(email)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("livestate: join: %w", err)
	}
	if err == nil {
		if current == idStr {
			// Already joined here; re-join is a no-op.
			return false, nil
		}
		return false, meeting.ErrAlreadyJoined
	}

	active, err := s.client.SIsMember(ctx, activeMeetingsKey, idStr).Result()
	if err != nil {
		return false, fmt.Errorf("livestate: join: %w", err)
	}
	if !active {
		return false, meeting.ErrMeetingNotActive
	}

	invited, err := s.client.SIsMember(ctx, participantsKey(meetingID), email).Result()
	if err != nil {
		return false, fmt.Errorf("livestate: join: %w", err)
	}
	if !invited {
		return false, meeting.ErrNotInvited
	}

	// Claim the back-reference atomically; a lost race on the user key means
	// a concurrent join through another meeting's lock got there first.
	claimed, err := s.client.SetNX(ctx, userJoinedKey(email), idStr, 0).Result()
	if err != nil {
		return false, fmt.Errorf("livestate: join: %w", err)
	}
	if !claimed {
		current, err = s.client.Get(ctx, userJoinedKey(email)).Result()
		if err == nil && current == idStr {
			return false, nil
		}
		return false, meeting.ErrAlreadyJoined
	}

	if err := s.client.SAdd(ctx, joinedKey(meetingID), email).Err(); err != nil {
		// Keep the pair consistent: release the claim if membership failed.
		_ = s.client.Del(ctx, userJoinedKey(email)).Err()
		return false, fmt.Errorf("livestate: join: %w", err)
	}
	return true, nil
}

func (s *RedisStore) Leave(ctx context.Context, email string, meetingID int64) error {
	unlock := s.locks.lock(meetingID)
	defer unlock()

	idStr := strconv.FormatInt(meetingID, 10)

	current, err := s.client.Get(ctx, userJoinedKey(email)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && current != idStr) {
		return meeting.ErrNotJoined
	}
	if err != nil {
		return fmt.Errorf("livestate: leave: %w", err)
	}

	active, err := s.client.SIsMember(ctx, activeMeetingsKey, idStr).Result()
	if err != nil {
		return fmt.Errorf("livestate: leave: %w", err)
	}
	if !active {
		return meeting.ErrMeetingNotActive
	}

	// The joined-set entry and the back-reference move together: both
	// removals ride one MULTI/EXEC, so a transient failure leaves the pair
	// intact and the leave can simply be retried.
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SRem(ctx, joinedKey(meetingID), email)
		p.Del(ctx, userJoinedKey(email))
		return nil
	})
	if err != nil {
		return fmt.Errorf("livestate: leave: %w", err)
	}
	return nil
}

func (s *RedisStore) JoinedParticipants(ctx context.Context, meetingID int64) ([]string, error) {
	members, err := s.client.SMembers(ctx, joinedKey(meetingID)).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: joined participants %d: %w", meetingID, err)
	}
	return members, nil
}

func (s *RedisStore) JoinedMeeting(ctx context.Context, email string) (int64, bool, error) {
	val, err := s.client.Get(ctx, userJoinedKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("livestate: joined meeting of %s: %w", email, err)
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("livestate: joined meeting of %s: bad id %q", email, val)
	}
	return id, true, nil
}

func (s *RedisStore) NearbyMeetingsForUser(ctx context.Context, email string, x, y, radiusMeters float64) ([]int64, error) {
	query := &redis.GeoRadiusQuery{Radius: radiusMeters, Unit: "m"}
	nearby, err := s.client.GeoRadius(ctx, meetingPositionsKey, x, y, query).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: nearby search: %w", err)
	}
	if len(nearby) == 0 {
		return []int64{}, nil
	}

	invited, err := s.client.SMembers(ctx, userMeetingsKey(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: nearby search: %w", err)
	}
	invitedSet := make(map[string]struct{}, len(invited))
	for _, m := range invited {
		invitedSet[m] = struct{}{}
	}

	ids := make([]int64, 0, len(nearby))
	for _, loc := range nearby {
		if _, ok := invitedSet[loc.Name]; !ok {
			continue
		}
		id, err := strconv.ParseInt(loc.Name, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *RedisStore) AppendMessage(ctx context.Context, msg meeting.ChatMessage) (int64, error) {
	// Same lock as join/deactivate: the membership checks and the appended
	// pair must not interleave with a teardown, or the RPushes would
	// recreate chat keys for a meeting that no longer exists.
	unlock := s.locks.lock(msg.MeetingID)
	defer unlock()

	idStr := strconv.FormatInt(msg.MeetingID, 10)
	active, err := s.client.SIsMember(ctx, activeMeetingsKey, idStr).Result()
	if err != nil {
		return 0, fmt.Errorf("livestate: append message: %w", err)
	}
	if !active {
		return 0, meeting.ErrNotLive
	}
	joined, err := s.client.SIsMember(ctx, joinedKey(msg.MeetingID), msg.Email).Result()
	if err != nil {
		return 0, fmt.Errorf("livestate: append message: %w", err)
	}
	if !joined {
		return 0, meeting.ErrNotJoined
	}

	payload, err := json.Marshal(chatEntry{Email: msg.Email, Text: msg.Text, Timestamp: msg.Timestamp})
	if err != nil {
		return 0, fmt.Errorf("livestate: append message: %w", err)
	}

	// The lock excludes every other writer of this meeting's log, so the
	// current length is the position the entry will land on. Log entry and
	// index entry ride one MULTI/EXEC so they appear together or not at all.
	position, err := s.client.LLen(ctx, chatKey(msg.MeetingID)).Result()
	if err != nil {
		return 0, fmt.Errorf("livestate: append message: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, chatKey(msg.MeetingID), payload)
		p.RPush(ctx, userChatKey(msg.MeetingID, msg.Email), position)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("livestate: append message: %w", err)
	}
	return position, nil
}

func (s *RedisStore) MeetingMessages(ctx context.Context, meetingID int64) ([]meeting.ChatMessage, error) {
	raw, err := s.client.LRange(ctx, chatKey(meetingID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: meeting messages %d: %w", meetingID, err)
	}
	msgs := make([]meeting.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var entry chatEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("livestate: meeting messages %d: %w", meetingID, err)
		}
		msgs = append(msgs, meeting.ChatMessage{
			MeetingID: meetingID,
			Email:     entry.Email,
			Text:      entry.Text,
			Timestamp: entry.Timestamp,
		})
	}
	return msgs, nil
}

func (s *RedisStore) UserMessages(ctx context.Context, email string, meetingID int64) ([]meeting.ChatMessage, error) {
	idStr := strconv.FormatInt(meetingID, 10)

	active, err := s.client.SIsMember(ctx, activeMeetingsKey, idStr).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: user messages: %w", err)
	}
	if !active {
		return []meeting.ChatMessage{}, nil
	}
	invited, err := s.client.SIsMember(ctx, participantsKey(meetingID), email).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: user messages: %w", err)
	}
	if !invited {
		return []meeting.ChatMessage{}, nil
	}

	positions, err := s.client.LRange(ctx, userChatKey(meetingID, email), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("livestate: user messages: %w", err)
	}
	msgs := make([]meeting.ChatMessage, 0, len(positions))
	for _, posStr := range positions {
		pos, err := strconv.ParseInt(posStr, 10, 64)
		if err != nil {
			continue
		}
		item, err := s.client.LIndex(ctx, chatKey(meetingID), pos).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("livestate: user messages: %w", err)
		}
		var entry chatEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("livestate: user messages: %w", err)
		}
		msgs = append(msgs, meeting.ChatMessage{
			MeetingID: meetingID,
			Email:     entry.Email,
			Text:      entry.Text,
			Timestamp: entry.Timestamp,
		})
	}
	return msgs, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
