package domain

import "time"

type UserID string

// SessionID identifies one live websocket connection. It is minted per
// connection and is the value peers see as userId in broadcast payloads.
type SessionID string

// Identity is what the token decoder extracts from a credential.
type Identity struct {
	Subject  UserID
	Username string
	Email    string
}

// Session is one authenticated real-time connection. At most one room
// at a time; Room is empty until the first join-room.
type Session struct {
	ID          SessionID
	Identity    Identity
	Room        BoardID
	ConnectedAt time.Time
}

// InRoom reports whether the session has joined a room.
func (s *Session) InRoom() bool {
	return s.Room != ""
}
