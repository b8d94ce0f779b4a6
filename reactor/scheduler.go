package reactor

// Scheduler is the tagged-time runtime: it owns the event queue, the
// reaction queue, the event pool, the physical clock, and the
// current_time/stop_time bookkeeping. It is
// not safe for concurrent use except via ScheduleAsync and Stop, which
// are the only entry points intended to be called from a goroutine other
// than the one driving Run/Next.
type Scheduler struct {
	cfg     *config
	program Program

	clock *Clock
	wake  *wakeSource
	inbox *ingress

	handles *handleCounter

	eventQueue    *PriorityQueue[*event]
	reactionQueue *PriorityQueue[*Reaction]
	pool          *eventPool

	state schedulerState

	currentTime       Instant
	physicalStartTime Instant
	stopTime          Instant
	hasStopTime       bool

	initialized bool
}

// New constructs a Scheduler bound to program and backed by clock. Pass
// NewRealClock() for production use, or NewClock(abtime.NewManual(...))
// in tests for deterministic control over physical time.
func New(program Program, clock *Clock, opts ...Option) *Scheduler {
	cfg := resolveOptions(opts)
	if cfg.logger == nil {
		cfg.logger = disabledLogger()
	}

	s := &Scheduler{
		cfg:      cfg,
		program:  program,
		clock:    clock,
		wake:     newWakeSource(),
		inbox:    newIngress(),
		handles:  newHandleCounter(),
		pool:     newEventPool(cfg.eventPoolLimit),
		stopTime: NoInstant,
	}

	s.eventQueue = NewPriorityQueue[*event](
		cfg.initialQueueCap,
		func(a, b *event) bool { return a.time < b.time },
		func(e *event) int { return e.pos },
		func(e *event, i int) { e.pos = i },
		func(a, b *event) bool { return a == b },
	)
	s.reactionQueue = NewPriorityQueue[*Reaction](
		cfg.initialQueueCap,
		func(a, b *Reaction) bool { return a.Index < b.Index },
		func(r *Reaction) int { return r.pos },
		func(r *Reaction, i int) { r.pos = i },
		func(a, b *Reaction) bool { return a == b },
	)

	return s
}

func (s *Scheduler) env() *Env { return &Env{sched: s} }

// Initialize runs the initialize step: records
// physicalStartTime, establishes current_time as the start instant,
// computes stop_time if a duration was configured via WithStopAfter, and
// invokes the external InitializeTriggerObjects hook. Returns
// ErrAlreadyInitialized if called twice.
func (s *Scheduler) Initialize() error {
	if s.initialized {
		return ErrAlreadyInitialized
	}

	start := s.clock.Now()
	s.physicalStartTime = start
	s.currentTime = start

	if s.cfg.hasStopAfter {
		s.hasStopTime = true
		s.stopTime = Instant(int64(start) + int64(s.cfg.stopAfter))
	}

	s.cfg.logger.Info().
		Int64("start_ns", int64(start)).
		Bool("fast", s.cfg.fast).
		Bool("wait_forever", s.cfg.waitForever).
		Log("initialize")

	s.program.InitializeTriggerObjects(s.env())
	s.initialized = true
	s.state.Store(StateIdle)
	return nil
}

// Run drives the tag-advance loop to completion: it invokes the external
// StartTimers hook once, then calls Next repeatedly until it returns
// false or Stop has been requested, then calls Wrapup. Returns
// ErrNotInitialized if Initialize was never called, or ErrAlreadyRunning
// if Run is already in progress on another goroutine.
func (s *Scheduler) Run() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if !s.state.TryTransition(StateIdle, StateRunning) {
		return ErrAlreadyRunning
	}

	s.program.StartTimers(s.env())

	for {
		if s.state.IsStopping() {
			break
		}
		if !s.Next() {
			break
		}
	}

	s.wrapup()
	return nil
}

// Stop requests termination at the boundary of the current tag. Safe to
// call from any goroutine, including from within a reaction body.
func (s *Scheduler) Stop() {
	if s.state.RequestStop() {
		s.wake.Notify()
	}
}

// GetLogicalTime returns current_time. Provided on Scheduler as well as
// Env so tests and drivers outside a reaction body can observe it.
func (s *Scheduler) GetLogicalTime() Instant {
	return s.currentTime
}

// Next implements the tag-advance loop. It returns true to continue,
// false when the run is done (event queue exhausted without -wait,
// current_time has reached stop_time, or a concurrent Stop() landed
// while this goroutine was blocked in waitUntil).
func (s *Scheduler) Next() bool {
	if s.state.IsStopping() {
		return false
	}
	s.state.TryTransition(StateIdle, StateRunning)

	var target Instant
	for {
		s.drainIngress()

		head, hasHead := s.eventQueue.Peek()
		if !hasHead {
			if !s.cfg.waitForever {
				return false
			}
			target = MaxInstant
		} else {
			target = head.time
		}

		if !s.state.TryTransition(StateRunning, StateWaiting) {
			// A concurrent Stop() landed before the wait began.
			return false
		}
		newCurrent, interrupted := s.clock.waitUntil(target, s.hasStopTime, s.stopTime, s.cfg.fast, s.currentTime, s.wake)
		// A concurrent Stop() may have CASed the state to StateStopping
		// while this goroutine was parked in waitUntil; only reclaim
		// StateRunning if that didn't happen, so the stop request isn't
		// silently overwritten.
		s.state.TryTransition(StateWaiting, StateRunning)
		s.currentTime = newCurrent

		if s.state.IsStopping() {
			return false
		}

		if !interrupted {
			break
		}

		s.drainIngress()
		newHead, hasNewHead := s.eventQueue.Peek()
		peekUnchanged := hasHead == hasNewHead && (!hasHead || head == newHead)
		if peekUnchanged && (s.currentTime == s.stopTime || !hasNewHead) {
			return false
		}
		// restart: either the peek changed (a new, possibly earlier,
		// event arrived) or current_time advanced toward stop_time but
		// there is still work to do.
	}

	s.program.StartTimeStep(s.env())

	eventsDrained := s.drainTag()
	reactionsRun := s.runReactions()

	logTagAdvance(s.cfg.logger, s.currentTime, eventsDrained, reactionsRun)

	if s.hasStopTime && s.currentTime == s.stopTime {
		return false
	}
	return true
}

// drainTag pops every event at current_time, pushes their reactions onto
// the reaction queue, re-arms periodic triggers, and retires the event
// records into the pool. Returns the number of events drained.
func (s *Scheduler) drainTag() int {
	n := 0
	for {
		head, ok := s.eventQueue.Peek()
		if !ok || head.time != s.currentTime {
			break
		}
		e, _ := s.eventQueue.PeekPop()
		n++

		trig := e.trigger
		for _, r := range trig.Reactions {
			s.enqueueReaction(r)
		}

		if trig.Period > 0 {
			// __schedule(trigger, period - offset): __schedule's own
			// +offset cancels the subtraction, landing exactly on
			// current_time + period regardless of trig.Offset.
			_, _ = s.schedule(trig, trig.Period-trig.Offset)
		}

		s.pool.Put(e)
	}
	return n
}

// enqueueReaction inserts r into the reaction queue, deduplicating by
// identity (the original C permits duplicate insertion and therefore
// duplicate execution within a tag;
// this implementation adopts the recommended, safer dedup behavior).
func (s *Scheduler) enqueueReaction(r *Reaction) {
	if r.queued {
		return
	}
	r.queued = true
	s.reactionQueue.Insert(r)
}

// runReactions drains the reaction queue in index order, enforcing
// deadlines and propagating produced outputs. Returns the number of
// reaction bodies invoked (deadline-violation handlers are not counted).
func (s *Scheduler) runReactions() int {
	n := 0
	for {
		r, ok := s.reactionQueue.PeekPop()
		if !ok {
			break
		}
		r.queued = false

		if r.Deadline > 0 {
			physicalNow := s.clock.Now()
			if int64(physicalNow) > int64(s.currentTime)+int64(r.Deadline) {
				s.runDeadlineViolation(r, physicalNow)
			}
		}

		s.dispatch(r)
		n++

		for i := range r.outputs {
			if !r.outputProduced(i, s.currentTime) {
				continue
			}
			for _, trig := range r.outputs[i].triggers {
				for _, downstream := range trig.Reactions {
					s.enqueueReaction(downstream)
				}
			}
		}
	}
	return n
}

// runDeadlineViolation invokes every reaction listed by r's
// DeadlineViolation trigger, in order, synchronously — these never enter
// the reaction queue.
func (s *Scheduler) runDeadlineViolation(r *Reaction, physicalNow Instant) {
	lateness := int64(physicalNow) - (int64(s.currentTime) + int64(r.Deadline))
	logDeadlineViolation(s.cfg.logger, r.name, r.Index, lateness)

	if r.DeadlineViolation == nil {
		return
	}
	for _, handler := range r.DeadlineViolation.Reactions {
		s.dispatch(handler)
	}
}

// dispatch invokes a reaction body with a panic boundary: a recovered
// panic is logged as a PanicError rather than propagating out of Next
// and killing the driver loop. The original reactor.c has no equivalent
// (a panicking reaction would simply crash the process); this is new
// ambient behavior modeled on PanicError-style wrapping of recovered
// panics.
func (s *Scheduler) dispatch(r *Reaction) {
	defer func() {
		if v := recover(); v != nil {
			logReactionPanic(s.cfg.logger, r.name, v)
		}
	}()
	r.Function(s.env(), r.Self)
}

// wrapup implements the wrapup step: it closes the ingress to
// new asynchronous schedule calls, transitions to the terminal state,
// and logs the elapsed logical and physical durations (the original
// reactor.c's printf banner, as structured fields).
func (s *Scheduler) wrapup() {
	s.inbox.close()
	s.state.Store(StateStopped)

	physicalNow := s.clock.Now()
	elapsedLogical := int64(s.currentTime) - int64(s.physicalStartTime)
	elapsedPhysical := int64(physicalNow) - int64(s.physicalStartTime)

	logWrapup(s.cfg.logger, elapsedLogical, elapsedPhysical)
}
