// Package gateway is the socket.io surface the popup subscribes to for
// stream chunks and late results of streaming summarizations.
package gateway

import (
	"sync"

	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"

	pkgredis "github.com/vidsum/core/internal/pkg/redis"
)

const (
	namespacePopup = "/popup"

	redisChanBroadcast = "vidsum:gateway:broadcast"

	eventConnect     = "GATEWAY_CONNECT"
	eventStreamChunk = "SUMMARIZE_STREAM"
	eventResult      = "SUMMARIZE_RESPONSE"
)

// Message is the envelope used by hub broadcasts and Redis fan-out.
// Origin carries the emitting hub's id so an instance skips its own
// messages coming back through the subscription.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	Origin  string      `json:"origin,omitempty"`
}

type gatewayPayload struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub manages the popup namespace and, when Redis is configured,
// cross-instance fan-out.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]struct{}

	broadcast  chan Message
	register   chan string
	unregister chan string

	id     string
	rc     *pkgredis.Client
	logger *zap.Logger
	sio    *socketio.Server
}
