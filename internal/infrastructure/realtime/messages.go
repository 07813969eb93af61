package realtime

import (
	"encoding/json"
	"time"

	"boardsync/internal/core/domain"
)

// Event names accepted from clients.
const (
	EventJoinRoom         = "join-room"
	EventSendCurrentState = "send-current-state"
	EventDraw             = "draw"
	EventCursorMove       = "cursor-move"
	EventChatMessage      = "chat-message"
	EventAddImage         = "add-image"
	EventUpdateImage      = "update-image"
	EventAddEmoji         = "add-emoji"
	EventUpdateEmoji      = "update-emoji"
)

// Event names emitted to clients.
const (
	EventUserJoined          = "user-joined"
	EventRequestCurrentState = "request-current-state"
	EventRoomInfo            = "room-info"
	EventReceiveCurrentState = "receive-current-state"
	EventUserLeft            = "user-left"
)

// Envelope is the wire frame for every realtime message in both
// directions. Data is decoded per event name at the boundary; frames with
// unknown events or malformed data are logged and dropped.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound payloads.

type JoinRoomPayload struct {
	RoomID domain.BoardID `json:"roomId"`
}

type SendCurrentStatePayload struct {
	RoomID       domain.BoardID   `json:"roomId"`
	UserID       domain.SessionID `json:"userId"`
	CurrentState json.RawMessage  `json:"currentState"`
}

type DrawPayload struct {
	RoomID    domain.BoardID  `json:"roomId"`
	Line      json.RawMessage `json:"line"`
	IsNewLine bool            `json:"isNewLine"`
}

type CursorMovePayload struct {
	RoomID   domain.BoardID        `json:"roomId"`
	Position domain.CursorPosition `json:"position"`
	Color    string                `json:"color"`
	Username string                `json:"username"`
}

type ChatMessagePayload struct {
	RoomID   domain.BoardID  `json:"roomId"`
	Message  json.RawMessage `json:"message"`
	Username string          `json:"username"`
}

type AddImagePayload struct {
	RoomID domain.BoardID `json:"roomId"`
	Image  ImagePayload   `json:"image"`
}

type ImagePayload struct {
	Src            string          `json:"src"`
	X              float64         `json:"x"`
	Y              float64         `json:"y"`
	Width          float64         `json:"width"`
	Height         float64         `json:"height"`
	Classification json.RawMessage `json:"classification,omitempty"`
}

type UpdateImagePayload struct {
	RoomID      domain.BoardID        `json:"roomId"`
	ImageIndex  int                   `json:"imageIndex"`
	NewPosition domain.CursorPosition `json:"newPosition"`
}

type AddEmojiPayload struct {
	RoomID domain.BoardID  `json:"roomId"`
	Emoji  json.RawMessage `json:"emoji"`
}

type UpdateEmojiPayload struct {
	RoomID      domain.BoardID        `json:"roomId"`
	EmojiIndex  int                   `json:"emojiIndex"`
	NewPosition domain.CursorPosition `json:"newPosition"`
}

// Outbound payloads.

type UserJoinedEvent struct {
	UserID    domain.SessionID `json:"userId"`
	Username  string           `json:"username"`
	Timestamp string           `json:"timestamp"`
}

type RequestCurrentStateEvent struct {
	UserID    domain.SessionID `json:"userId"`
	Timestamp string           `json:"timestamp"`
}

type RoomInfoEvent struct {
	Clients   []domain.SessionID `json:"clients"`
	Timestamp string             `json:"timestamp"`
}

type ReceiveCurrentStateEvent struct {
	CurrentState json.RawMessage  `json:"currentState"`
	FromUserID   domain.SessionID `json:"fromUserId"`
	Timestamp    string           `json:"timestamp"`
}

type DrawEvent struct {
	Line      json.RawMessage  `json:"line"`
	LineID    string           `json:"lineId,omitempty"`
	UserID    domain.SessionID `json:"userId"`
	IsNewLine bool             `json:"isNewLine"`
	Timestamp string           `json:"timestamp"`
}

type CursorMoveEvent struct {
	Position domain.CursorPosition `json:"position"`
	UserID   domain.SessionID      `json:"userId"`
	Color    string                `json:"color"`
	Username string                `json:"username"`
}

type ChatMessageEvent struct {
	Message   json.RawMessage  `json:"message"`
	UserID    domain.SessionID `json:"userId"`
	Username  string           `json:"username"`
	Timestamp string           `json:"timestamp"`
}

type AddImageEvent struct {
	Image     ImagePayload     `json:"image"`
	UserID    domain.SessionID `json:"userId"`
	Timestamp string           `json:"timestamp"`
}

type UpdateImageEvent struct {
	ImageIndex  int                   `json:"imageIndex"`
	NewPosition domain.CursorPosition `json:"newPosition"`
	UserID      domain.SessionID      `json:"userId"`
	Timestamp   string                `json:"timestamp"`
}

type AddEmojiEvent struct {
	Emoji     json.RawMessage  `json:"emoji"`
	UserID    domain.SessionID `json:"userId"`
	Timestamp string           `json:"timestamp"`
}

type UpdateEmojiEvent struct {
	EmojiIndex  int                   `json:"emojiIndex"`
	NewPosition domain.CursorPosition `json:"newPosition"`
	UserID      domain.SessionID      `json:"userId"`
	Timestamp   string                `json:"timestamp"`
}

type UserLeftEvent struct {
	UserID    domain.SessionID `json:"userId"`
	Timestamp string           `json:"timestamp"`
}

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// lineID pulls the client-assigned line identifier out of an otherwise
// opaque line descriptor, so receivers can extend the right stroke.
func lineID(line json.RawMessage) string {
	var probe struct {
		LineID string `json:"lineId"`
	}
	if err := json.Unmarshal(line, &probe); err != nil {
		return ""
	}
	return probe.LineID
}
