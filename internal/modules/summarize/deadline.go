package summarize

import (
	"context"
	"time"
)

type raceOutcome struct {
	text string
	err  error
}

// raceDeadline runs op against a deadline. If the deadline elapses first
// the given timeout error is returned and op is abandoned, not
// cancelled: the upstream transport has no cancellation primitive, so
// the call runs to completion in the background and its outcome is
// discarded. op receives a context detached from the caller's
// cancellation for the same reason.
func raceDeadline(ctx context.Context, deadline time.Duration, timeoutErr error, op func(context.Context) (string, error)) (string, error) {
	done := make(chan raceOutcome, 1)
	go func() {
		text, err := op(context.WithoutCancel(ctx))
		done <- raceOutcome{text: text, err: err}
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case outcome := <-done:
		return outcome.text, outcome.err
	case <-timer.C:
		return "", timeoutErr
	}
}
