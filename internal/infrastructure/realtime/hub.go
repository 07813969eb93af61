package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"
	"boardsync/pkg/config"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// MetricsRecorder receives hub-level observability signals. The prometheus
// collector implements it; tests plug in a recorder of their own.
type MetricsRecorder interface {
	SessionConnected()
	SessionDisconnected()
	SetRoomCount(count int)
	SetPresenceCount(count int)
	EventRouted(event string)
	EventDenied(event string)
	ObserveAccessCheck(duration time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) SessionConnected()                {}
func (nopMetrics) SessionDisconnected()             {}
func (nopMetrics) SetRoomCount(int)                 {}
func (nopMetrics) SetPresenceCount(int)             {}
func (nopMetrics) EventRouted(string)               {}
func (nopMetrics) EventDenied(string)               {}
func (nopMetrics) ObserveAccessCheck(time.Duration) {}

// client is one live websocket connection. Writes go through writeMu so
// broadcast fan-out and the ping ticker never interleave frames.
type client struct {
	session *domain.Session
	conn    *websocket.Conn
	limiter *rate.Limiter

	writeMu sync.Mutex
}

func (c *client) writeJSON(v interface{}, timeout time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(timeout))
	return c.conn.WriteJSON(v)
}

// Hub owns every realtime connection, the room registry and the presence
// tracker. One instance per process.
type Hub struct {
	identity ports.IdentityService
	access   ports.AccessService

	registry *roomRegistry
	presence *presenceTracker

	mu      sync.RWMutex
	clients map[domain.SessionID]*client

	upgrader websocket.Upgrader

	pingInterval time.Duration
	pongTimeout  time.Duration
	writeTimeout time.Duration

	sweepInterval time.Duration

	rateLimitEnabled  bool
	messagesPerSecond float64
	messageBurst      int
	maxMessageSize    int64

	metrics MetricsRecorder
	logger  *zap.SugaredLogger
}

// NewHub wires the hub from config. Pass a nil metrics recorder to run
// without instrumentation.
func NewHub(cfg *config.Config, identity ports.IdentityService, access ports.AccessService, metrics MetricsRecorder, logger *zap.SugaredLogger) *Hub {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	allowed := cfg.Realtime.AllowedOrigins
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r.Header.Get("Origin"), allowed)
		},
	}

	return &Hub{
		identity: identity,
		access:   access,

		registry: newRoomRegistry(),
		presence: newPresenceTracker(cfg.Presence.StaleThreshold),
		clients:  make(map[domain.SessionID]*client),

		upgrader: upgrader,

		pingInterval: cfg.Realtime.PingInterval,
		pongTimeout:  cfg.Realtime.PongTimeout,
		writeTimeout: cfg.Realtime.WriteTimeout,

		sweepInterval: cfg.Presence.SweepInterval,

		rateLimitEnabled:  cfg.RateLimiting.Enabled,
		messagesPerSecond: cfg.RateLimiting.WebSocket.MessagesPerSecond,
		messageBurst:      cfg.RateLimiting.WebSocket.Burst,
		maxMessageSize:    cfg.RateLimiting.WebSocket.MaxMessageSizeBytes,

		metrics: metrics,
		logger:  logger,
	}
}

func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

// Run drives the presence staleness sweeper until the context ends. Swept
// entries are not broadcast; clients age out remote cursors themselves.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if swept := h.presence.SweepStale(now); swept > 0 {
				h.logger.Debugw("swept stale cursor entries", "count", swept)
			}
			h.metrics.SetPresenceCount(h.presence.Count())
		}
	}
}

// HandleWebSocket authenticates the request and, if the credential decodes
// to a usable identity, upgrades it and serves the connection until it
// closes. Requests without a decodable credential are rejected before the
// upgrade with 401.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	credential := extractCredential(r)
	identity, err := h.identity.Resolve(credential)
	if err != nil {
		h.logger.Warnw("rejecting websocket connection", "error", err, "remote", r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	session := &domain.Session{
		ID:          domain.SessionID(uuid.NewString()),
		Identity:    *identity,
		ConnectedAt: time.Now(),
	}

	cl := &client{
		session: session,
		conn:    conn,
	}
	if h.rateLimitEnabled {
		cl.limiter = rate.NewLimiter(rate.Limit(h.messagesPerSecond), h.messageBurst)
	}

	h.mu.Lock()
	h.clients[session.ID] = cl
	h.mu.Unlock()
	h.metrics.SessionConnected()

	h.logger.Infow("session connected",
		"session_id", session.ID,
		"username", identity.Username,
		"remote", r.RemoteAddr,
	)

	h.serve(cl)
	h.handleDisconnect(cl)
}

func extractCredential(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	auth := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return ""
}

// serve pumps messages off the connection until it errors or closes.
// Mirrors the reader-goroutine-plus-select loop so pings keep flowing
// while handlers run.
func (h *Hub) serve(cl *client) {
	conn := cl.conn

	if h.maxMessageSize > 0 {
		conn.SetReadLimit(h.maxMessageSize)
	}
	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
		return nil
	})

	pingTicker := time.NewTicker(h.pingInterval)
	defer pingTicker.Stop()

	messageChan := make(chan Envelope, 16)
	errorChan := make(chan error, 1)

	go func() {
		for {
			var env Envelope
			if err := conn.ReadJSON(&env); err != nil {
				errorChan <- err
				return
			}
			conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
			messageChan <- env
		}
	}()

	for {
		select {
		case env := <-messageChan:
			if cl.limiter != nil && !cl.limiter.Allow() {
				h.logger.Warnw("dropping message over rate limit",
					"session_id", cl.session.ID, "event", env.Event)
				continue
			}
			h.dispatch(context.Background(), cl, env)

		case <-pingTicker.C:
			cl.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			cl.writeMu.Unlock()
			if err != nil {
				h.logger.Infow("ping failed", "session_id", cl.session.ID, "error", err)
				return
			}

		case err := <-errorChan:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Infow("read error", "session_id", cl.session.ID, "error", err)
			}
			return
		}
	}
}

// handleDisconnect tears the session down: deregister the connection, drop
// any presence it left behind, announce user-left to its room and collect
// the room if it emptied.
func (h *Hub) handleDisconnect(cl *client) {
	session := cl.session

	h.mu.Lock()
	delete(h.clients, session.ID)
	h.mu.Unlock()
	h.metrics.SessionDisconnected()

	h.presence.RemoveSession(session.ID)
	h.metrics.SetPresenceCount(h.presence.Count())

	if session.InRoom() {
		room := session.Room
		h.registry.Remove(room, session.ID)
		h.broadcastToRoom(room, session.ID, EventUserLeft, UserLeftEvent{
			UserID:    session.ID,
			Timestamp: nowTimestamp(),
		})
		h.metrics.SetRoomCount(h.registry.RoomCount())
	}

	h.logger.Infow("session disconnected",
		"session_id", session.ID,
		"username", session.Identity.Username,
	)
}

// sendToSession delivers one event to one connection. A send failure is
// logged but never fails the caller; the broken connection will reap
// itself through its own read loop.
func (h *Hub) sendToSession(sessionID domain.SessionID, event string, payload interface{}) {
	h.mu.RLock()
	cl, ok := h.clients[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Errorw("failed to marshal event payload", "event", event, "error", err)
		return
	}
	if err := cl.writeJSON(Envelope{Event: event, Data: data}, h.writeTimeout); err != nil {
		h.logger.Warnw("failed to send event",
			"event", event, "session_id", sessionID, "error", err)
	}
}

// broadcastToRoom fans one event out to every room member except exclude.
func (h *Hub) broadcastToRoom(room domain.BoardID, exclude domain.SessionID, event string, payload interface{}) {
	for _, member := range h.registry.Members(room) {
		if member == exclude {
			continue
		}
		h.sendToSession(member, event, payload)
	}
}

// SessionCount returns the number of live connections.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
