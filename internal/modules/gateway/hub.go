package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"

	pkgredis "github.com/vidsum/core/internal/pkg/redis"
)

// NewHub builds the popup gateway. rc may be nil; fan-out is then
// local-only.
func NewHub(rc *pkgredis.Client, logger *zap.Logger) *Hub {
	sio := socketio.NewServer(nil, nil)
	h := &Hub{
		clients:    make(map[string]struct{}),
		broadcast:  make(chan Message, 256),
		register:   make(chan string, 256),
		unregister: make(chan string, 256),
		id:         uuid.NewString(),
		rc:         rc,
		logger:     logger,
		sio:        sio,
	}
	h.registerNamespace()
	return h
}

// Run starts the hub loop and, when Redis is configured, the
// cross-instance subscriber.
func (h *Hub) Run(ctx context.Context) {
	if h.rc != nil {
		go h.subscribeRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.sio.Close(nil)
			return

		case sid := <-h.register:
			h.mu.Lock()
			h.clients[sid] = struct{}{}
			h.mu.Unlock()

		case sid := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, sid)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.deliver(msg)
			if h.rc == nil {
				continue
			}
			msg.Origin = h.id
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := h.rc.Publish(ctx, redisChanBroadcast, string(data)); err != nil && h.logger != nil {
				h.logger.Warn("gateway publish failed", zap.Error(err))
			}
		}
	}
}

func (h *Hub) registerNamespace() {
	popupNS := h.sio.Of(namespacePopup, nil)
	_ = popupNS.On("connection", func(args ...any) {
		client, ok := args[0].(*socketio.Socket)
		if !ok {
			return
		}
		sid := string(client.Id())
		h.register <- sid
		_ = client.Emit("message", gatewayPayload{Type: eventConnect, Data: "WebSocket connected"})

		_ = client.On("disconnect", func(_ ...any) {
			h.unregister <- sid
		})
	})
}

func (h *Hub) deliver(msg Message) {
	h.sio.Of(namespacePopup, nil).Emit("message", gatewayPayload{Type: msg.Event, Data: msg.Payload})
}

// subscribeRedis relays broadcasts from other server instances, skipping
// this instance's own messages.
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rc.Subscribe(ctx, redisChanBroadcast)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return

		case redisMsg, ok := <-ch:
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				continue
			}
			if msg.Origin == h.id {
				continue
			}
			h.deliver(msg)
		}
	}
}

// Broadcast queues an event for every connected popup. Non-blocking: a
// full queue drops the message, since stream delivery is best-effort.
func (h *Hub) Broadcast(event string, payload interface{}) bool {
	select {
	case h.broadcast <- Message{Event: event, Payload: payload}:
		return true
	default:
		return false
	}
}

// ClientCount returns the number of connected popups.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handler returns the socket.io HTTP handler mounted at /socket.io.
func (h *Hub) Handler() http.Handler {
	return h.sio.ServeHandler(nil)
}
