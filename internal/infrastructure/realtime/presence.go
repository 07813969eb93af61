package realtime

import (
	"sync"
	"time"

	"boardsync/internal/core/domain"
)

// presenceTracker keeps the last-known cursor of every session per room.
// Entries decay: a session that stops sending cursor events has its entry
// swept after the staleness threshold, without any broadcast. Peers run
// the same timeout client-side, so the sweep only reclaims memory.
type presenceTracker struct {
	mu      sync.RWMutex
	entries map[domain.BoardID]map[domain.SessionID]*domain.PresenceEntry

	staleThreshold time.Duration
}

func newPresenceTracker(staleThreshold time.Duration) *presenceTracker {
	return &presenceTracker{
		entries:        make(map[domain.BoardID]map[domain.SessionID]*domain.PresenceEntry),
		staleThreshold: staleThreshold,
	}
}

// Update upserts the cursor entry for the session in the given room.
func (p *presenceTracker) Update(room domain.BoardID, sessionID domain.SessionID, pos domain.CursorPosition, color, username string, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	roomEntries, ok := p.entries[room]
	if !ok {
		roomEntries = make(map[domain.SessionID]*domain.PresenceEntry)
		p.entries[room] = roomEntries
	}
	roomEntries[sessionID] = &domain.PresenceEntry{
		SessionID: sessionID,
		Room:      room,
		Position:  pos,
		Color:     color,
		Username:  username,
		UpdatedAt: now,
	}
}

// Remove drops the session's entry from the given room.
func (p *presenceTracker) Remove(room domain.BoardID, sessionID domain.SessionID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(room, sessionID)
}

// RemoveSession drops the session's entries from every room. Used on
// disconnect, where the session may have presence left behind by an
// implicit leave.
func (p *presenceTracker) RemoveSession(sessionID domain.SessionID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for room := range p.entries {
		p.removeLocked(room, sessionID)
	}
}

func (p *presenceTracker) removeLocked(room domain.BoardID, sessionID domain.SessionID) {
	roomEntries, ok := p.entries[room]
	if !ok {
		return
	}
	delete(roomEntries, sessionID)
	if len(roomEntries) == 0 {
		delete(p.entries, room)
	}
}

// SweepStale removes every entry older than the staleness threshold and
// returns how many were dropped.
func (p *presenceTracker) SweepStale(now time.Time) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	swept := 0
	for room, roomEntries := range p.entries {
		for id, entry := range roomEntries {
			if entry.Stale(now, p.staleThreshold) {
				delete(roomEntries, id)
				swept++
			}
		}
		if len(roomEntries) == 0 {
			delete(p.entries, room)
		}
	}
	return swept
}

// Count returns the number of live presence entries across all rooms.
func (p *presenceTracker) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	total := 0
	for _, roomEntries := range p.entries {
		total += len(roomEntries)
	}
	return total
}
