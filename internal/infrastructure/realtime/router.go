package realtime

import (
	"context"
	"encoding/json"
	"time"

	"boardsync/internal/core/domain"
	"boardsync/pkg/tracing"
)

// dispatch decodes the envelope and routes it to the matching handler.
// Malformed or unknown frames are dropped with a log line; a broadcast
// medium has no one useful to error back to.
func (h *Hub) dispatch(ctx context.Context, cl *client, env Envelope) {
	ctx, span := tracing.TraceRealtimeEvent(ctx, env.Event, string(cl.session.ID))
	defer span.End()

	var err error
	switch env.Event {
	case EventJoinRoom:
		err = h.handleJoinRoom(ctx, cl, env.Data)
	case EventSendCurrentState:
		err = h.handleSendCurrentState(ctx, cl, env.Data)
	case EventDraw:
		err = h.handleDraw(ctx, cl, env.Data)
	case EventCursorMove:
		err = h.handleCursorMove(ctx, cl, env.Data)
	case EventChatMessage:
		err = h.handleChatMessage(ctx, cl, env.Data)
	case EventAddImage:
		err = h.handleAddImage(ctx, cl, env.Data)
	case EventUpdateImage:
		err = h.handleUpdateImage(ctx, cl, env.Data)
	case EventAddEmoji:
		err = h.handleAddEmoji(ctx, cl, env.Data)
	case EventUpdateEmoji:
		err = h.handleUpdateEmoji(ctx, cl, env.Data)
	default:
		h.logger.Warnw("dropping unknown event",
			"event", env.Event, "session_id", cl.session.ID)
		return
	}

	if err != nil {
		tracing.RecordError(ctx, err)
		h.logger.Warnw("dropping malformed event",
			"event", env.Event, "session_id", cl.session.ID, "error", err)
		return
	}
	h.metrics.EventRouted(env.Event)
}

// authorizeWrite re-queries the access oracle for the session's user and
// reports whether they may mutate the board. Checked fresh per event so a
// revocation through the invitation flow takes effect mid-session.
func (h *Hub) authorizeWrite(ctx context.Context, cl *client, room domain.BoardID, event string) bool {
	start := time.Now()
	tier := h.access.ResolveAccess(ctx, domain.UserID(cl.session.Identity.Username), room)
	h.metrics.ObserveAccessCheck(time.Since(start))

	if !tier.CanEdit() {
		h.metrics.EventDenied(event)
		h.logger.Infow("denied event for insufficient access",
			"event", event,
			"session_id", cl.session.ID,
			"username", cl.session.Identity.Username,
			"room", room,
			"access", tier,
		)
		return false
	}
	return true
}

// handleJoinRoom implements the three-step late-joiner handshake: announce
// the newcomer to the room, ask existing members for a state snapshot,
// then reply to the newcomer alone with the member list. Rejoining the
// same room only re-sends room-info; joining a different room leaves the
// previous one first.
func (h *Hub) handleJoinRoom(ctx context.Context, cl *client, data json.RawMessage) error {
	var payload JoinRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	if payload.RoomID == "" {
		h.logger.Warnw("join-room without roomId", "session_id", cl.session.ID)
		return nil
	}

	session := cl.session

	if session.Room == payload.RoomID {
		h.sendToSession(session.ID, EventRoomInfo, RoomInfoEvent{
			Clients:   h.registry.Members(payload.RoomID),
			Timestamp: nowTimestamp(),
		})
		return nil
	}

	if session.InRoom() {
		h.leaveRoom(cl, session.Room)
	}

	h.registry.Add(payload.RoomID, session.ID)
	session.Room = payload.RoomID
	h.metrics.SetRoomCount(h.registry.RoomCount())

	now := nowTimestamp()
	h.broadcastToRoom(payload.RoomID, session.ID, EventUserJoined, UserJoinedEvent{
		UserID:    session.ID,
		Username:  session.Identity.Username,
		Timestamp: now,
	})
	h.broadcastToRoom(payload.RoomID, session.ID, EventRequestCurrentState, RequestCurrentStateEvent{
		UserID:    session.ID,
		Timestamp: now,
	})
	h.sendToSession(session.ID, EventRoomInfo, RoomInfoEvent{
		Clients:   h.registry.Members(payload.RoomID),
		Timestamp: now,
	})

	h.logger.Infow("session joined room",
		"session_id", session.ID,
		"username", session.Identity.Username,
		"room", payload.RoomID,
	)
	return nil
}

// leaveRoom removes the session from a room it previously joined,
// announcing the departure to the remaining members.
func (h *Hub) leaveRoom(cl *client, room domain.BoardID) {
	session := cl.session

	h.registry.Remove(room, session.ID)
	h.presence.Remove(room, session.ID)
	session.Room = ""

	h.broadcastToRoom(room, session.ID, EventUserLeft, UserLeftEvent{
		UserID:    session.ID,
		Timestamp: nowTimestamp(),
	})
	h.metrics.SetRoomCount(h.registry.RoomCount())
	h.metrics.SetPresenceCount(h.presence.Count())
}

// handleSendCurrentState relays a state snapshot from a volunteering peer
// to the session that asked for it. Sending to an already-disconnected
// requester is a no-op.
func (h *Hub) handleSendCurrentState(ctx context.Context, cl *client, data json.RawMessage) error {
	var payload SendCurrentStatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	if !h.registry.Contains(payload.RoomID, cl.session.ID) {
		return nil
	}

	h.sendToSession(payload.UserID, EventReceiveCurrentState, ReceiveCurrentStateEvent{
		CurrentState: payload.CurrentState,
		FromUserID:   cl.session.ID,
		Timestamp:    nowTimestamp(),
	})
	return nil
}

func (h *Hub) handleDraw(ctx context.Context, cl *client, data json.RawMessage) error {
	var payload DrawPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	if !h.authorizeWrite(ctx, cl, payload.RoomID, EventDraw) {
		return nil
	}

	h.broadcastToRoom(payload.RoomID, cl.session.ID, EventDraw, DrawEvent{
		Line:      payload.Line,
		LineID:    lineID(payload.Line),
		UserID:    cl.session.ID,
		IsNewLine: payload.IsNewLine,
		Timestamp: nowTimestamp(),
	})
	return nil
}

// handleCursorMove upserts the sender's presence entry and relays the
// cursor to the rest of the room. No timestamp on the wire; receivers
// track their own arrival times for staleness.
func (h *Hub) handleCursorMove(ctx context.Context, cl *client, data json.RawMessage) error {
	var payload CursorMovePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	h.presence.Update(payload.RoomID, cl.session.ID, payload.Position, payload.Color, payload.Username, time.Now())
	h.metrics.SetPresenceCount(h.presence.Count())

	h.broadcastToRoom(payload.RoomID, cl.session.ID, EventCursorMove, CursorMoveEvent{
		Position: payload.Position,
		UserID:   cl.session.ID,
		Color:    payload.Color,
		Username: payload.Username,
	})
	return nil
}

func (h *Hub) handleChatMessage(ctx context.Context, cl *client, data json.RawMessage) error {
	var payload ChatMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	username := payload.Username
	if username == "" {
		username = cl.session.Identity.Username
	}
	h.broadcastToRoom(payload.RoomID, cl.session.ID, EventChatMessage, ChatMessageEvent{
		Message:   payload.Message,
		UserID:    cl.session.ID,
		Username:  username,
		Timestamp: nowTimestamp(),
	})
	return nil
}

func (h *Hub) handleAddImage(ctx context.Context, cl *client, data json.RawMessage) error {
	var payload AddImagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	if !h.authorizeWrite(ctx, cl, payload.RoomID, EventAddImage) {
		return nil
	}

	h.broadcastToRoom(payload.RoomID, cl.session.ID, EventAddImage, AddImageEvent{
		Image:     payload.Image,
		UserID:    cl.session.ID,
		Timestamp: nowTimestamp(),
	})
	return nil
}

func (h *Hub) handleUpdateImage(ctx context.Context, cl *client, data json.RawMessage) error {
	var payload UpdateImagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	if !h.authorizeWrite(ctx, cl, payload.RoomID, EventUpdateImage) {
		return nil
	}

	h.broadcastToRoom(payload.RoomID, cl.session.ID, EventUpdateImage, UpdateImageEvent{
		ImageIndex:  payload.ImageIndex,
		NewPosition: payload.NewPosition,
		UserID:      cl.session.ID,
		Timestamp:   nowTimestamp(),
	})
	return nil
}

func (h *Hub) handleAddEmoji(ctx context.Context, cl *client, data json.RawMessage) error {
	var payload AddEmojiPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	if !h.authorizeWrite(ctx, cl, payload.RoomID, EventAddEmoji) {
		return nil
	}

	h.broadcastToRoom(payload.RoomID, cl.session.ID, EventAddEmoji, AddEmojiEvent{
		Emoji:     payload.Emoji,
		UserID:    cl.session.ID,
		Timestamp: nowTimestamp(),
	})
	return nil
}

func (h *Hub) handleUpdateEmoji(ctx context.Context, cl *client, data json.RawMessage) error {
	var payload UpdateEmojiPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	if !h.authorizeWrite(ctx, cl, payload.RoomID, EventUpdateEmoji) {
		return nil
	}

	h.broadcastToRoom(payload.RoomID, cl.session.ID, EventUpdateEmoji, UpdateEmojiEvent{
		EmojiIndex:  payload.EmojiIndex,
		NewPosition: payload.NewPosition,
		UserID:      cl.session.ID,
		Timestamp:   nowTimestamp(),
	})
	return nil
}
