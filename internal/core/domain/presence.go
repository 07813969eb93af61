package domain

import "time"

// CursorPosition is a point in board coordinates.
type CursorPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PresenceEntry is the last-known cursor state of one session within one
// room. Entries are upserted on every cursor event and dropped on clean
// disconnect or by the staleness sweep.
type PresenceEntry struct {
	SessionID SessionID
	Room      BoardID
	Position  CursorPosition
	Color     string
	Username  string
	UpdatedAt time.Time
}

// Stale reports whether the entry is older than threshold at time now.
func (e *PresenceEntry) Stale(now time.Time, threshold time.Duration) bool {
	return now.Sub(e.UpdatedAt) > threshold
}
