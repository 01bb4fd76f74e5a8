package turn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/logging"
)

var ErrPhaseFailed = errors.New("turn phase failed")

// Sleeper waits between steps. An error ends pacing for the rest of the
// turn; the turn itself still runs to TurnEnd.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Drive runs r to completion, sleeping between steps with sleep (nil means
// no waiting). Cancelling ctx or a failing sleep only drops the remaining
// waits: phases always run to TurnEnd unless the battle finishes. Whatever
// happens, the in-flight guard is cleared before Drive returns.
func Drive(ctx context.Context, r *Run, sleep Sleeper) (steps []Step, err error) {
	defer r.release()
	defer func() {
		if p := recover(); p != nil {
			r.Abort()
			logging.Error("turn phase panicked", fmt.Errorf("%v", p), logging.Fields{
				constants.LogFieldBattleID: r.deps.BattleID,
				constants.LogFieldPhase:    r.phase.String(),
			})
			err = fmt.Errorf("%s: %w", r.phase, ErrPhaseFailed)
		}
	}()
	for {
		st, ok := r.Next()
		if !ok {
			return steps, nil
		}
		steps = append(steps, st)
		if sleep == nil || st.Wait <= 0 {
			continue
		}
		serr := ctx.Err()
		if serr == nil {
			serr = sleep(ctx, st.Wait)
		}
		if serr != nil {
			logging.Warn("turn pacing stopped, finishing without waits", logging.Fields{
				constants.LogFieldBattleID: r.deps.BattleID,
				constants.LogFieldPhase:    st.Phase.String(),
				"error":                    serr.Error(),
			})
			sleep = nil
		}
	}
}
