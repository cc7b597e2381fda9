// Package kv provides the key-value partitions behind persisted state.
//
// Two logical partitions exist: a small durable partition for settings and
// prompt templates (file-backed), and a larger cache partition for computed
// summaries (Redis when configured, process memory otherwise). Both speak
// the same Store interface so services never care which one they got.
package kv

import "context"

// Store is one flat string-keyed partition.
type Store interface {
	// Get returns the value for key. The second return is false when the
	// key is absent; absence is not an error.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Keys lists all keys beginning with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
