package summarize

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRaceDeadlineOperationWins(t *testing.T) {
	t.Parallel()

	out, err := raceDeadline(context.Background(), time.Second, NewTimeoutError(1), func(context.Context) (string, error) {
		return "done", nil
	})
	require.NoError(t, err)
	require.Equal(t, "done", out)
}

func TestRaceDeadlineOperationErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("upstream exploded")
	_, err := raceDeadline(context.Background(), time.Second, NewTimeoutError(1), func(context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)
}

func TestRaceDeadlineTimeout(t *testing.T) {
	t.Parallel()

	timeoutErr := NewTimeoutError(5)
	started := time.Now()
	_, err := raceDeadline(context.Background(), 50*time.Millisecond, timeoutErr, func(context.Context) (string, error) {
		time.Sleep(5 * time.Second)
		return "too late", nil
	})
	elapsed := time.Since(started)

	require.ErrorIs(t, err, timeoutErr)
	require.Less(t, elapsed, time.Second)

	var classified *Error
	require.ErrorAs(t, err, &classified)
	require.Equal(t, CodeTimeout, classified.Code)
}

// The losing operation is abandoned, not cancelled: it keeps running
// and its context stays alive after the race settles.
func TestRaceDeadlineAbandonsWithoutCancel(t *testing.T) {
	t.Parallel()

	var cancelled atomic.Bool
	finished := make(chan struct{})

	_, err := raceDeadline(context.Background(), 20*time.Millisecond, NewTimeoutError(1), func(opCtx context.Context) (string, error) {
		defer close(finished)
		time.Sleep(100 * time.Millisecond)
		if opCtx.Err() != nil {
			cancelled.Store(true)
		}
		return "late result", nil
	})
	require.Error(t, err)

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("abandoned operation never finished")
	}
	require.False(t, cancelled.Load())
}
