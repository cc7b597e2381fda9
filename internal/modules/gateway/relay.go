package gateway

import (
	"go.uber.org/zap"

	"github.com/vidsum/core/internal/models"
)

// StreamRelay feeds orchestrator output through the hub. Every delivery
// problem is swallowed and debug-logged: a closed popup must never look
// like a summarization failure.
type StreamRelay struct {
	hub    *Hub
	logger *zap.Logger
}

func NewStreamRelay(hub *Hub, logger *zap.Logger) *StreamRelay {
	return &StreamRelay{hub: hub, logger: logger}
}

func (r *StreamRelay) EmitChunk(chunk string, done bool) {
	if !r.hub.Broadcast(eventStreamChunk, models.StreamChunk{Chunk: chunk, Done: done}) {
		r.logger.Debug("stream chunk dropped, broadcast queue full")
	}
}

func (r *StreamRelay) EmitResult(result models.SummarizeResult) {
	if !r.hub.Broadcast(eventResult, result) {
		r.logger.Debug("stream result dropped, broadcast queue full")
	}
}
