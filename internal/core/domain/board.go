package domain

import (
	"encoding/json"
	"time"
)

// BoardID is the persistent identifier of a whiteboard. The real-time core
// treats it as an opaque room token; only the store interprets it.
type BoardID string

type Board struct {
	ID        BoardID
	Title     string
	Content   json.RawMessage
	CreatedBy UserID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Collaborator struct {
	BoardID   BoardID
	UserID    UserID
	Access    AccessLevel
	CreatedAt time.Time
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

type Invitation struct {
	ID             int64
	BoardID        BoardID
	InviterID      UserID
	InviteeID      UserID
	Access         AccessLevel
	Status         InvitationStatus
	NotificationID int64
	CreatedAt      time.Time
}

type NotificationType string

const (
	NotificationInvitation NotificationType = "invitation"
	NotificationInfo       NotificationType = "info"
)

type Notification struct {
	ID        int64
	UserID    UserID
	Type      NotificationType
	Message   string
	Data      json.RawMessage
	Read      bool
	CreatedAt time.Time
}
