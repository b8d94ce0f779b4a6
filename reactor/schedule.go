package reactor

import (
	"errors"
	"sync/atomic"
)

// ErrScheduleAfterShutdown is returned by ScheduleAsync once the
// scheduler has entered Wrapup; the request is dropped, mirroring the
// original reactor.c's behavior of ignoring schedule calls once
// stop_requested has fired.
var ErrScheduleAfterShutdown = errors.New("reactor: schedule called after shutdown")

// ErrNegativeTarget is returned when a computed target tag would precede
// current_time, which is treated as a programmer error
// rather than a value to silently clamp.
var ErrNegativeTarget = errors.New("reactor: schedule target precedes current_time")

// handleCounter hands out monotonically increasing Handle values, 0
// reserved as a null/invalid marker — the same "start at 1" convention
// as eventloop/registry.go's registry.nextID.
type handleCounter struct {
	next atomic.Uint64
}

func newHandleCounter() *handleCounter {
	c := &handleCounter{}
	c.next.Store(1)
	return c
}

func (c *handleCounter) take() Handle {
	return Handle(c.next.Add(1) - 1)
}

// schedule is the internal __schedule primitive: it is always
// called on the scheduler's owning goroutine (either synchronously from
// Schedule, or from Next's ingress-drain step) and assumes exclusive,
// unsynchronized access to the event queue and pool. It always folds in
// trigger.Offset itself — callers pass only the extra delay, never
// offset+delay pre-added (see the periodic re-arm call in
// Scheduler.drainTag, which relies on this to cancel the offset via
// period-offset).
//
// The original reactor.c's public schedule() calls
// __schedule(trigger, trigger->offset + extra_delay) and __schedule
// itself adds trigger->offset again, adding the offset twice through the
// public entry point — almost certainly a bug, since the source's own
// periodic re-arm call (passing period-offset directly to __schedule,
// never through the public schedule()) only cancels correctly if
// __schedule's own addition is the sole one. The two entry points give the
// single-offset formula for both entry points; this implementation
// follows that, treating the original's double-add as the bug it
// appears to be rather than a behavior to reproduce.
func (s *Scheduler) schedule(trigger *Trigger, delay Interval) (Handle, error) {
	target := Instant(int64(s.currentTime) + int64(trigger.Offset) + int64(delay))
	if target < s.currentTime {
		return 0, ErrNegativeTarget
	}

	e := s.pool.Get()
	e.time = target
	e.trigger = trigger
	s.eventQueue.Insert(e)

	return s.handles.take(), nil
}

// Schedule is the public, synchronous entry point called from within a
// reaction body (via Env.Schedule), always running on the scheduler's
// own goroutine. It computes the target tag as
// current_time + trigger.Offset + extraDelay.
func (s *Scheduler) Schedule(trigger *Trigger, extraDelay Interval) (Handle, error) {
	return s.schedule(trigger, extraDelay)
}

// ScheduleAsync is the thread-safe entry point for schedule calls made
// from outside the scheduler goroutine (e.g. an external sensor or
// timer goroutine feeding a physical action). The request is queued and
// applied at the top of the next Next() call, per the
// "asynchronous schedule calls ... applied at a well-defined point in
// the loop" requirement; the wake source is notified so a blocked
// wait_until returns promptly instead of sleeping past the new event.
//
// The returned Handle is allocated immediately so callers observe a
// stable identifier even though the event is not yet visible in the
// queue; it carries no ordering guarantee relative to handles returned
// by Schedule for reactions dispatched in the same tag.
func (s *Scheduler) ScheduleAsync(trigger *Trigger, extraDelay Interval) (Handle, error) {
	h := s.handles.take()
	if !s.inbox.push(trigger, extraDelay) {
		return h, ErrScheduleAfterShutdown
	}
	s.wake.Notify()
	return h, nil
}

// drainIngress applies every pending asynchronous schedule request,
// called once at the top of Next() before computing the next tag.
func (s *Scheduler) drainIngress() {
	for _, req := range s.inbox.drain() {
		_, _ = s.schedule(req.trigger, req.delay)
	}
}
