package core

import (
	"sync"

	"github.com/dkeye/Rendezvous/internal/domain"
)

// JoinResult describes the membership change made by RoomRegistry.Join.
type JoinResult struct {
	Room    domain.RoomID
	Left    domain.RoomID // previous room, empty if none or unchanged
	Created bool          // Room did not exist before this join
	Removed bool          // Left became empty and was deleted
}

// RoomRegistry is the single source of truth for room membership.
// One lock guards both the room sets and every session's room pointer,
// so the two always agree.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]map[SessionID]*Session
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[domain.RoomID]map[SessionID]*Session)}
}

// Join moves s into room, leaving its previous room first.
func (r *RoomRegistry) Join(s *Session, room domain.RoomID) JoinResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := JoinResult{Room: room}
	if s.room == room {
		return res
	}
	if s.room != "" {
		res.Left = s.room
		res.Removed = r.removeLocked(s)
	}

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[SessionID]*Session)
		r.rooms[room] = members
		res.Created = true
	}
	members[s.id] = s
	s.room = room
	return res
}

// Leave removes s from its room. It is a no-op when s has no room.
func (r *RoomRegistry) Leave(s *Session) (left domain.RoomID, removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.room == "" {
		return "", false
	}
	left = s.room
	removed = r.removeLocked(s)
	return left, removed
}

// removeLocked clears s.room and drops the room once empty.
func (r *RoomRegistry) removeLocked(s *Session) bool {
	room := s.room
	s.room = ""
	members, ok := r.rooms[room]
	if !ok {
		return false
	}
	delete(members, s.id)
	if len(members) == 0 {
		delete(r.rooms, room)
		return true
	}
	return false
}

// RoomOf returns the room s currently belongs to.
func (r *RoomRegistry) RoomOf(s *Session) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return s.room, s.room != ""
}

// MembersExcept returns a copy of room's members without the session sid.
func (r *RoomRegistry) MembersExcept(room domain.RoomID, sid SessionID) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.membersLocked(room, sid)
}

// Members returns a copy of every member of room.
func (r *RoomRegistry) Members(room domain.RoomID) []*Session {
	return r.MembersExcept(room, "")
}

// Peers returns the room of s and its other members, read under one lock.
func (r *RoomRegistry) Peers(s *Session) (domain.RoomID, []*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s.room == "" {
		return "", nil, false
	}
	return s.room, r.membersLocked(s.room, s.id), true
}

func (r *RoomRegistry) membersLocked(room domain.RoomID, except SessionID) []*Session {
	members := r.rooms[room]
	out := make([]*Session, 0, len(members))
	for sid, s := range members {
		if sid == except {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Snapshot returns room -> member count. Empty rooms never appear.
func (r *RoomRegistry) Snapshot() map[domain.RoomID]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[domain.RoomID]int, len(r.rooms))
	for room, members := range r.rooms {
		out[room] = len(members)
	}
	return out
}

// Len returns the number of rooms.
func (r *RoomRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
