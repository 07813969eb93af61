package realtime

import (
	"sync"

	"boardsync/internal/core/domain"
)

// roomRegistry tracks which sessions currently occupy which rooms. It is
// pure bookkeeping; access decisions and fan-out live in the hub.
type roomRegistry struct {
	mu    sync.RWMutex
	rooms map[domain.BoardID]map[domain.SessionID]struct{}
}

func newRoomRegistry() *roomRegistry {
	return &roomRegistry{
		rooms: make(map[domain.BoardID]map[domain.SessionID]struct{}),
	}
}

// Add puts the session into the room, creating the room on first use.
// Returns true if the session was not already a member.
func (r *roomRegistry) Add(room domain.BoardID, sessionID domain.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[domain.SessionID]struct{})
		r.rooms[room] = members
	}
	if _, exists := members[sessionID]; exists {
		return false
	}
	members[sessionID] = struct{}{}
	return true
}

// Remove takes the session out of the room. The room itself is dropped
// when its last member leaves; the second return reports that.
func (r *roomRegistry) Remove(room domain.BoardID, sessionID domain.SessionID) (removed, emptied bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		return false, false
	}
	if _, exists := members[sessionID]; !exists {
		return false, false
	}
	delete(members, sessionID)
	if len(members) == 0 {
		delete(r.rooms, room)
		return true, true
	}
	return true, false
}

// Members returns a snapshot of the room's occupants.
func (r *roomRegistry) Members(room domain.BoardID) []domain.SessionID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[room]
	if !ok {
		return nil
	}
	snapshot := make([]domain.SessionID, 0, len(members))
	for id := range members {
		snapshot = append(snapshot, id)
	}
	return snapshot
}

// Contains reports whether the session is a member of the room.
func (r *roomRegistry) Contains(room domain.BoardID, sessionID domain.SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[room]
	if !ok {
		return false
	}
	_, exists := members[sessionID]
	return exists
}

// RoomCount returns the number of rooms with at least one member.
func (r *roomRegistry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
