package reactor

import (
	"time"

	"github.com/thejerf/abtime"
)

// WaitToken is the abtime id used for every wait_until sleep. wait_until
// only ever has one sleep outstanding at a time, so a single constant
// token is sufficient to let tests built on abtime.NewManual drive it
// deterministically via ManualTime.Trigger(reactor.WaitToken).
const WaitToken = 1

// Clock abstracts the monotonic physical clock and an interruptible sleep
// primitive. It wraps abtime.AbstractTime (github.com/thejerf/abtime)
// rather than the standard time package directly, so tests can substitute
// abtime.NewManual() for deterministic control over physical-time
// advancement — the same substitution abtime itself exists to provide.
type Clock struct {
	time abtime.AbstractTime
}

// NewRealClock returns a Clock backed by the real wall clock.
func NewRealClock() *Clock {
	return &Clock{time: abtime.NewRealTime()}
}

// NewClock returns a Clock backed by the given abtime.AbstractTime,
// typically abtime.NewManual() in tests.
func NewClock(t abtime.AbstractTime) *Clock {
	return &Clock{time: t}
}

// Now returns the current physical time as an Instant.
func (c *Clock) Now() Instant {
	return Instant(c.time.Now().UnixNano())
}

// waitUntil blocks until the physical clock reaches target, or wake fires
// first, including the stop_time clamp and the three-way interrupted-sleep
// classification.
//
// hasStopTime/stopTime carry Scheduler.stopTime; fast carries the -fast
// flag; currentTime carries Scheduler.current_time (used to classify a
// partial advance on interruption). Returns (newCurrentTime, interrupted).
func (c *Clock) waitUntil(target Instant, hasStopTime bool, stopTime Instant, fast bool, currentTime Instant, wake *wakeSource) (Instant, bool) {
	sentinel := false
	if hasStopTime && stopTime > 0 && target > stopTime {
		target = stopTime
		sentinel = true
	}

	if fast {
		return target, sentinel
	}

	now := c.Now()
	nsToWait := int64(target) - int64(now)
	if nsToWait <= 0 {
		return target, sentinel
	}

	ch := c.time.After(time.Duration(nsToWait), WaitToken)
	select {
	case <-ch:
		return target, sentinel
	case <-wake.Chan():
		// Sleep was interrupted: an asynchronous Schedule call or a
		// stop() request woke us. Reclassify against logical time.
		physicalNow := c.Now()
		if physicalNow > currentTime {
			if physicalNow < target {
				return physicalNow, true
			}
			return target, sentinel
		}
		return currentTime, true
	}
}
