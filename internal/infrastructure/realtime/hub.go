package realtime

import "sync"

// Hub coordinates websocket sessions and per-meeting rooms. It keeps one
// active Connection per user (mirroring the single-active-join invariant)
// while allowing fan-out to everyone subscribed to a meeting's chat.
type Hub struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection           // sessionID -> connection
	userSessions map[string]string                // email -> sessionID
	rooms        map[int64]map[string]*Connection // meetingID -> sessionID -> connection
	sessionRooms map[string]map[int64]struct{}    // sessionID -> set of meetingIDs
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		sessions:     make(map[string]*Connection),
		userSessions: make(map[string]string),
		rooms:        make(map[int64]map[string]*Connection),
		sessionRooms: make(map[string]map[int64]struct{}),
	}
}

// Attach registers a connection for the given user. A previous session is
// removed and closed after the swap to enforce one active socket per user.
func (h *Hub) Attach(conn *Connection) {
	var previous *Connection

	h.mu.Lock()
	if existingID, ok := h.userSessions[conn.Email]; ok {
		if existing := h.sessions[existingID]; existing != nil {
			previous = existing
			h.detachLocked(existingID)
		}
	}

	h.sessions[conn.ID] = conn
	h.userSessions[conn.Email] = conn.ID
	h.sessionRooms[conn.ID] = make(map[int64]struct{})
	h.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection if it is still tracked.
func (h *Hub) Detach(conn *Connection) {
	h.mu.Lock()
	h.detachLocked(conn.ID)
	h.mu.Unlock()
}

// Join adds the connection to the meeting's room.
func (h *Hub) Join(meetingID int64, conn *Connection) {
	h.mu.Lock()
	if _, ok := h.sessions[conn.ID]; !ok {
		h.mu.Unlock()
		return
	}

	room := h.rooms[meetingID]
	if room == nil {
		room = make(map[string]*Connection)
		h.rooms[meetingID] = room
	}
	room[conn.ID] = conn

	memberships := h.sessionRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[int64]struct{})
		h.sessionRooms[conn.ID] = memberships
	}
	memberships[meetingID] = struct{}{}
	h.mu.Unlock()
}

// Leave removes the connection from the meeting's room.
func (h *Hub) Leave(meetingID int64, conn *Connection) {
	h.mu.Lock()
	h.leaveLocked(meetingID, conn.ID)
	h.mu.Unlock()
}

// Broadcast writes payload to all members of the meeting's room.
// excludeEmail, when non-empty, prevents delivering back to the sender.
func (h *Hub) Broadcast(meetingID int64, payload []byte, excludeEmail string) int {
	h.mu.RLock()
	room := h.rooms[meetingID]
	if len(room) == 0 {
		h.mu.RUnlock()
		return 0
	}

	delivered := 0
	for _, conn := range room {
		if excludeEmail != "" && conn.Email == excludeEmail {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	h.mu.RUnlock()
	return delivered
}

// CloseRoom drops every session out of the meeting's room, typically when
// the meeting is deactivated.
func (h *Hub) CloseRoom(meetingID int64) {
	h.mu.Lock()
	room := h.rooms[meetingID]
	for sessionID := range room {
		h.leaveLocked(meetingID, sessionID)
	}
	h.mu.Unlock()
}

// Close terminates all tracked connections and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]*Connection, 0, len(h.sessions))
	for _, conn := range h.sessions {
		sessions = append(sessions, conn)
	}
	h.sessions = make(map[string]*Connection)
	h.userSessions = make(map[string]string)
	h.rooms = make(map[int64]map[string]*Connection)
	h.sessionRooms = make(map[string]map[int64]struct{})
	h.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "hub shutdown")
	}
}

func (h *Hub) detachLocked(sessionID string) {
	conn, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)

	if current, ok := h.userSessions[conn.Email]; ok && current == sessionID {
		delete(h.userSessions, conn.Email)
	}

	for roomID := range h.sessionRooms[sessionID] {
		h.leaveLocked(roomID, sessionID)
	}
	delete(h.sessionRooms, sessionID)
}

func (h *Hub) leaveLocked(meetingID int64, sessionID string) {
	room := h.rooms[meetingID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(h.rooms, meetingID)
	}
	if memberships, ok := h.sessionRooms[sessionID]; ok {
		delete(memberships, meetingID)
		if len(memberships) == 0 {
			delete(h.sessionRooms, sessionID)
		}
	}
}
