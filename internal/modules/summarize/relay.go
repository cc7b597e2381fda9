package summarize

import "github.com/vidsum/core/internal/models"

// Relay forwards streaming output to whatever UI surface is currently
// listening. Delivery is best-effort: a closed popup is not an
// orchestration failure, so implementations swallow and debug-log
// delivery errors.
type Relay interface {
	// EmitChunk broadcasts one stream fragment. An empty chunk with done
	// set signals end of stream.
	EmitChunk(chunk string, done bool)
	// EmitResult broadcasts a terminal result of a streaming request, so
	// a reopened popup still learns about failures.
	EmitResult(result models.SummarizeResult)
}

// NopRelay drops everything. Used when no gateway is attached.
type NopRelay struct{}

func (NopRelay) EmitChunk(string, bool)            {}
func (NopRelay) EmitResult(models.SummarizeResult) {}
