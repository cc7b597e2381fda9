package summarize

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryLifecycle(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	const key = "youtube:abc123"

	require.False(t, reg.IsInProgress(key))
	require.Equal(t, false, reg.StatusOf(key).InProgress)

	require.True(t, reg.TryMark(key, "general"))
	require.True(t, reg.IsInProgress(key))

	status := reg.StatusOf(key)
	require.True(t, status.InProgress)
	require.Equal(t, "general", status.PromptID)
	require.NotZero(t, status.StartTime)

	reg.MarkComplete(key)
	require.False(t, reg.IsInProgress(key))

	// MarkComplete is idempotent.
	reg.MarkComplete(key)
	require.False(t, reg.IsInProgress(key))
}

func TestRegistryKeysAreIndependent(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.True(t, reg.TryMark("youtube:a", "general"))
	require.True(t, reg.TryMark("vimeo:a", "general"))
	require.False(t, reg.TryMark("youtube:a", "technical"))

	reg.MarkComplete("youtube:a")
	require.True(t, reg.TryMark("youtube:a", "technical"))
}

// TestRegistryTryMarkIsAtomic hammers one key from many goroutines and
// checks exactly one claim succeeds per round.
func TestRegistryTryMarkIsAtomic(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	const key = "youtube:contended"

	for round := 0; round < 50; round++ {
		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if reg.TryMark(key, "general") {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		require.Equal(t, int32(1), wins.Load())
		reg.MarkComplete(key)
	}
}
