package realtime

import (
	"testing"
	"time"

	"boardsync/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestPresenceTracker_UpdateAndCount(t *testing.T) {
	p := newPresenceTracker(10 * time.Second)
	now := time.Now()

	p.Update("board-1", "s1", domain.CursorPosition{X: 1, Y: 2}, "#fff", "alice", now)
	p.Update("board-1", "s2", domain.CursorPosition{X: 3, Y: 4}, "#000", "bob", now)
	p.Update("board-2", "s3", domain.CursorPosition{}, "#abc", "carol", now)

	assert.Equal(t, 3, p.Count())

	// Updating the same session replaces, not accumulates.
	p.Update("board-1", "s1", domain.CursorPosition{X: 9, Y: 9}, "#fff", "alice", now)
	assert.Equal(t, 3, p.Count())
}

func TestPresenceTracker_SweepStale(t *testing.T) {
	p := newPresenceTracker(10 * time.Second)
	base := time.Now()

	p.Update("board-1", "s1", domain.CursorPosition{}, "#fff", "alice", base)
	p.Update("board-1", "s2", domain.CursorPosition{}, "#000", "bob", base.Add(8*time.Second))

	// At base+11s only s1 has crossed the threshold.
	swept := p.SweepStale(base.Add(11 * time.Second))
	assert.Equal(t, 1, swept)
	assert.Equal(t, 1, p.Count())

	swept = p.SweepStale(base.Add(30 * time.Second))
	assert.Equal(t, 1, swept)
	assert.Equal(t, 0, p.Count())
}

func TestPresenceTracker_EntryAtThresholdIsKept(t *testing.T) {
	p := newPresenceTracker(10 * time.Second)
	base := time.Now()

	p.Update("board-1", "s1", domain.CursorPosition{}, "#fff", "alice", base)

	swept := p.SweepStale(base.Add(10 * time.Second))
	assert.Equal(t, 0, swept)
	assert.Equal(t, 1, p.Count())
}

func TestPresenceTracker_RemoveSessionAcrossRooms(t *testing.T) {
	p := newPresenceTracker(10 * time.Second)
	now := time.Now()

	p.Update("board-1", "s1", domain.CursorPosition{}, "#fff", "alice", now)
	p.Update("board-2", "s1", domain.CursorPosition{}, "#fff", "alice", now)
	p.Update("board-2", "s2", domain.CursorPosition{}, "#000", "bob", now)

	p.RemoveSession("s1")
	assert.Equal(t, 1, p.Count())

	p.Remove("board-2", "s2")
	assert.Equal(t, 0, p.Count())
}
