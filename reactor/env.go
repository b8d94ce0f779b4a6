package reactor

// Env is the handle a running reaction body uses to reach the scheduler
// that is executing it: GetLogicalTime, Schedule, and Stop are the whole
// of the core API exposed to reaction bodies. It exists so scheduler
// state is a value owned by one *Scheduler rather than something every
// reaction body reaches through a package-level global.
type Env struct {
	sched *Scheduler
}

// GetLogicalTime returns current_time, the tag at which the calling
// reaction is executing.
func (e *Env) GetLogicalTime() Instant {
	return e.sched.currentTime
}

// Schedule enqueues trigger to fire at current_time + trigger.Offset +
// extraDelay. Must be called from within a reaction body (i.e. on the
// scheduler's own goroutine); for external goroutines use
// Scheduler.ScheduleAsync instead.
func (e *Env) Schedule(trigger *Trigger, extraDelay Interval) (Handle, error) {
	return e.sched.Schedule(trigger, extraDelay)
}

// Stop requests termination at the boundary of the current tag, per
// the cancellation semantics: the driver loop finishes every
// reaction at current_time before Next returns done.
func (e *Env) Stop() {
	e.sched.Stop()
}
