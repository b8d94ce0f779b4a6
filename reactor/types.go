package reactor

// Instant is a signed count of nanoseconds on the [Clock]'s time line
// (Unix nanoseconds); [Scheduler.Initialize] sets current_time to the
// clock's reading at that moment. A negative value means "not set".
type Instant int64

// Interval is a signed nanosecond duration. It may be negative in internal
// computations (see the periodic re-arm math in Scheduler.drainTag).
type Interval int64

// NoInstant is the sentinel for "not set".
const NoInstant Instant = -1

// MaxInstant is the largest representable tag, used as the effective
// wait-forever target when the event queue is empty and WithWaitForever
// was set.
const MaxInstant Instant = 1<<63 - 1

// Handle identifies a single call to Schedule. It is monotonically
// increasing and currently opaque to callers; no Unschedule is provided
// (reserved for future cancellation).
type Handle uint64

// ReactionFunc is the body of a Reaction. env is the handle bound to the
// running Scheduler; self is the opaque per-reaction state the generator
// attached to the Reaction descriptor.
type ReactionFunc func(env *Env, self any)

// Trigger is a statically allocated descriptor for a timer or schedulable
// event source.
type Trigger struct {
	// Offset is the default delay added by Schedule.
	Offset Interval
	// Period is the re-arm interval; 0 means one-shot, >0 means periodic.
	Period Interval
	// Reactions lists, in no particular order, the reactions bound to
	// this trigger. They are inserted into the reaction queue (and hence
	// ordered by Index) whenever an event for this trigger is drained.
	Reactions []*Reaction

	// name is used only for logging; it has no effect on scheduling.
	name string
}

// NewTrigger constructs a Trigger with the given name (for logging only),
// offset, and period.
func NewTrigger(name string, offset, period Interval) *Trigger {
	return &Trigger{Offset: offset, Period: period, name: name}
}

// Name returns the trigger's diagnostic name, or "" if none was given.
func (t *Trigger) Name() string { return t.name }

// outputBinding is one output slot's triggered-reactions manifest.
type outputBinding struct {
	triggers []*Trigger
}

// Reaction is a statically allocated descriptor for a single callable
// bound to a topological index.
type Reaction struct {
	// Index is the topological-sort rank; lower runs first within a tag.
	Index uint64
	// Function is the reaction body.
	Function ReactionFunc
	// Self is opaque per-reaction state passed back to Function.
	Self any
	// Deadline is an Interval after the reaction's tag beyond which the
	// reaction is late; 0 means no deadline.
	Deadline Interval
	// DeadlineViolation, if non-nil, is invoked (all its reactions, in
	// order) synchronously before Function when Deadline is exceeded.
	DeadlineViolation *Trigger

	outputs []outputBinding
	// producedAt is the last tag at which output slot i was marked as
	// produced; compared against current_time so flags are implicitly
	// "cleared" once the tag advances, matching __start_time_step's
	// per-tag reset without requiring the pre-work hook to iterate every
	// reaction itself.
	producedAt []Instant

	// name is used only for logging.
	name string

	// pos is the reaction queue's heap index, maintained by PriorityQueue.
	pos int
	// queued marks that the reaction is already present in the reaction
	// queue this tag, avoiding duplicate reaction-queue entries within a
	// single tag.
	queued bool
}

// NewReaction constructs a Reaction with numOutputs output slots, all
// initially unbound (use BindOutput to wire an output to downstream
// triggers).
func NewReaction(name string, index uint64, fn ReactionFunc, self any, numOutputs int) *Reaction {
	producedAt := make([]Instant, numOutputs)
	for i := range producedAt {
		producedAt[i] = NoInstant
	}
	return &Reaction{
		Index:      index,
		Function:   fn,
		Self:       self,
		outputs:    make([]outputBinding, numOutputs),
		producedAt: producedAt,
		name:       name,
		pos:        -1,
	}
}

// Name returns the reaction's diagnostic name, or "" if none was given.
func (r *Reaction) Name() string { return r.name }

// BindOutput declares that output slot i, when produced, triggers the
// reactions of each of triggers.
func (r *Reaction) BindOutput(i int, triggers ...*Trigger) {
	r.outputs[i].triggers = triggers
}

// SetOutput marks output slot i as produced for the current tag. A
// reaction body calls this before returning to cause the reactions bound
// (via BindOutput) to slot i to run later in the same tag.
func (r *Reaction) SetOutput(env *Env, i int) {
	r.producedAt[i] = env.sched.currentTime
}

// outputProduced reports whether slot i was marked produced at tag now.
func (r *Reaction) outputProduced(i int, now Instant) bool {
	return r.producedAt[i] == now
}

// event is a dynamically allocated record living in exactly one of the
// event queue, the transient reaction-pipeline drain, or the event pool.
type event struct {
	time    Instant
	trigger *Trigger
	pos     int
}
