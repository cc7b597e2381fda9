package summarize

import (
	"sync"
	"time"

	"github.com/vidsum/core/internal/models"
)

type inFlightEntry struct {
	startTime time.Time
	promptID  string
}

// Registry is the single-flight table: at most one outstanding
// summarization per video key. Entries live for exactly the duration of
// one orchestration call; the table resets on process restart by design.
type Registry struct {
	mu      sync.Mutex
	entries map[string]inFlightEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]inFlightEntry)}
}

// IsInProgress reports whether a summarization is running for the key.
func (r *Registry) IsInProgress(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[key]
	return ok
}

// TryMark atomically claims the key. It returns false if another request
// already holds it, closing the check-then-mark race window between
// concurrent callers.
func (r *Registry) TryMark(key, promptID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; ok {
		return false
	}
	r.entries[key] = inFlightEntry{startTime: time.Now(), promptID: promptID}
	return true
}

// MarkComplete releases the key. Idempotent.
func (r *Registry) MarkComplete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

// StatusOf reports the in-flight state for a key.
func (r *Registry) StatusOf(key string) models.InFlightStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[key]
	if !ok {
		return models.InFlightStatus{}
	}
	return models.InFlightStatus{
		InProgress: true,
		StartTime:  entry.startTime.UnixMilli(),
		PromptID:   entry.promptID,
	}
}
