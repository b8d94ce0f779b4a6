package reactor

// Program is the set of collaborator hooks the generator-side of a
// reactor program supplies. The core calls them at defined points in
// the lifecycle and never inspects their implementation.
type Program interface {
	// InitializeTriggerObjects populates the static Trigger and Reaction
	// graph. Called once, from Initialize, before any event is
	// scheduled.
	InitializeTriggerObjects(env *Env)
	// StartTimers schedules the initial event for every timer Trigger.
	// Called once, after InitializeTriggerObjects, before the driver
	// loop begins.
	StartTimers(env *Env)
	// StartTimeStep runs once per tag, before any reaction at that tag
	// executes. The reference implementation uses it to clear
	// output-produced flags; this scheduler's own output bookkeeping
	// (Reaction.producedAt, compared against current_time) does not
	// depend on this hook firing, but it is still invoked every tag so
	// a Program can use it for its own per-tag reset logic.
	StartTimeStep(env *Env)
}

// ProgramFuncs is a convenience adapter for constructing a Program out
// of three plain functions, for callers (tests, small examples) who
// don't want to declare a named type.
type ProgramFuncs struct {
	InitFunc      func(env *Env)
	TimersFunc    func(env *Env)
	TimeStepFunc  func(env *Env)
}

func (p ProgramFuncs) InitializeTriggerObjects(env *Env) {
	if p.InitFunc != nil {
		p.InitFunc(env)
	}
}

func (p ProgramFuncs) StartTimers(env *Env) {
	if p.TimersFunc != nil {
		p.TimersFunc(env)
	}
}

func (p ProgramFuncs) StartTimeStep(env *Env) {
	if p.TimeStepFunc != nil {
		p.TimeStepFunc(env)
	}
}
