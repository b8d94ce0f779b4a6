package reactor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thejerf/abtime"
)

type noopProgram struct{}

func (noopProgram) InitializeTriggerObjects(*Env) {}
func (noopProgram) StartTimers(*Env)              {}
func (noopProgram) StartTimeStep(*Env)            {}

// newManualClock anchors the manual clock at the Unix epoch, so tests
// can assert on Instant values directly (e.g. "fires at 0, then 1s")
// instead of against an arbitrary wall-clock offset.
func newManualClock() *abtime.ManualTime {
	return abtime.NewManualAtTime(time.Unix(0, 0))
}

func newTestScheduler(t *testing.T, opts ...Option) (*Scheduler, *abtime.ManualTime) {
	t.Helper()
	mt := newManualClock()
	s := New(noopProgram{}, NewClock(mt), opts...)
	return s, mt
}

// TestS1_PeriodicTimerStopsOnThirdFire exercises scenario S1: a trigger
// with offset 0, period 1s, one reaction that calls Stop on its third
// invocation. Run with -fast, elapsed logical time must be exactly 2s.
func TestS1_PeriodicTimerStopsOnThirdFire(t *testing.T) {
	var fires []Instant
	var tick *Trigger

	prog := ProgramFuncs{
		InitFunc: func(env *Env) {
			tick = NewTrigger("tick", 0, Interval(time.Second))
			tick.Reactions = []*Reaction{
				NewReaction("count", 0, func(env *Env, self any) {
					fires = append(fires, env.GetLogicalTime())
					if len(fires) == 3 {
						env.Stop()
					}
				}, nil, 0),
			}
		},
		TimersFunc: func(env *Env) {
			_, _ = env.Schedule(tick, 0)
		},
	}

	mt := newManualClock()
	s := New(prog, NewClock(mt), WithFast())
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Run())

	require.Len(t, fires, 3)
	assert.Equal(t, Instant(0), fires[0])
	assert.Equal(t, Instant(time.Second), fires[1])
	assert.Equal(t, Instant(2*time.Second), fires[2])
	assert.Equal(t, Instant(2*time.Second), s.GetLogicalTime())
}

// TestS2_EmptyQueueStopTimeWithoutWait exercises scenario S2's first
// half: with no triggers and no -wait, the run returns immediately
// because the event queue is empty, regardless of -stop.
func TestS2_EmptyQueueStopTimeWithoutWait(t *testing.T) {
	s, _ := newTestScheduler(t, WithFast(), WithStopAfter(500*time.Millisecond))
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Run())
	assert.Equal(t, Instant(0), s.GetLogicalTime())
}

// TestS2_WaitForeverRunsUntilStopTime exercises scenario S2's second
// half: with -wait, the scheduler blocks until stop_time.
func TestS2_WaitForeverRunsUntilStopTime(t *testing.T) {
	s, _ := newTestScheduler(t, WithFast(), WithWaitForever(), WithStopAfter(500*time.Millisecond))
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Run())
	assert.Equal(t, Instant(500*time.Millisecond), s.GetLogicalTime())
}

// TestS3_ChainedReactionsRunInIndexOrderSameTag exercises scenario S3:
// A -> B -> C wired via output triggers, all firing at tag 0 in index
// order.
func TestS3_ChainedReactionsRunInIndexOrderSameTag(t *testing.T) {
	var order []string
	var triggerA, triggerB, triggerC *Trigger
	var reactionA, reactionB *Reaction

	prog := ProgramFuncs{
		InitFunc: func(env *Env) {
			triggerA = NewTrigger("A", 0, 0)
			triggerB = NewTrigger("B", 0, 0)
			triggerC = NewTrigger("C", 0, 0)

			reactionA = NewReaction("A", 1, func(env *Env, self any) {
				order = append(order, "A")
				reactionA.SetOutput(env, 0)
			}, nil, 1)
			reactionA.BindOutput(0, triggerB)

			reactionB = NewReaction("B", 2, func(env *Env, self any) {
				order = append(order, "B")
				reactionB.SetOutput(env, 0)
			}, nil, 1)
			reactionB.BindOutput(0, triggerC)

			reactionC := NewReaction("C", 3, func(env *Env, self any) {
				order = append(order, "C")
				env.Stop()
			}, nil, 0)

			triggerA.Reactions = []*Reaction{reactionA}
			triggerB.Reactions = []*Reaction{reactionB}
			triggerC.Reactions = []*Reaction{reactionC}
		},
		TimersFunc: func(env *Env) {
			_, _ = env.Schedule(triggerA, 0)
		},
	}

	mt := newManualClock()
	s := New(prog, NewClock(mt), WithFast())
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Run())

	assert.Equal(t, []string{"A", "B", "C"}, order)
	assert.Equal(t, Instant(0), s.GetLogicalTime())
}

// TestS5_PeriodicExactness exercises scenario S5: a trigger with offset
// 0, period 100ms fires at tags separated by exactly 100ms, regardless
// of how long the reaction itself takes, since -fast decouples logical
// time from physical time entirely.
func TestS5_PeriodicExactness(t *testing.T) {
	var fires []Instant
	var tick *Trigger

	prog := ProgramFuncs{
		InitFunc: func(env *Env) {
			tick = NewTrigger("tick", 0, Interval(100*time.Millisecond))
			tick.Reactions = []*Reaction{
				NewReaction("record", 0, func(env *Env, self any) {
					fires = append(fires, env.GetLogicalTime())
					if len(fires) == 5 {
						env.Stop()
					}
				}, nil, 0),
			}
		},
		TimersFunc: func(env *Env) {
			_, _ = env.Schedule(tick, 0)
		},
	}

	mt := newManualClock()
	s := New(prog, NewClock(mt), WithFast())
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Run())

	require.Len(t, fires, 5)
	for i := 1; i < len(fires); i++ {
		assert.Equal(t, Interval(100*time.Millisecond), Interval(fires[i]-fires[i-1]))
	}
}

// TestDeadlineViolationHandlerRunsBeforeReactionBody exercises scenario
// S4: a reaction with a deadline and a violation handler that sets a
// flag; with -fast and a manual clock whose Now() is advanced past the
// deadline window before the tag fires, the violation handler must run
// first and exactly once.
func TestDeadlineViolationHandlerRunsBeforeReactionBody(t *testing.T) {
	var violated, ranReaction bool
	var callOrder []string

	violationTrigger := NewTrigger("violation", 0, 0)
	violationTrigger.Reactions = []*Reaction{
		NewReaction("onViolation", 0, func(env *Env, self any) {
			violated = true
			callOrder = append(callOrder, "violation")
		}, nil, 0),
	}

	var lateTrigger *Trigger
	prog := ProgramFuncs{
		InitFunc: func(env *Env) {
			lateTrigger = NewTrigger("late", 0, 0)
			r := NewReaction("late", 1, func(env *Env, self any) {
				ranReaction = true
				callOrder = append(callOrder, "reaction")
			}, nil, 0)
			r.Deadline = Interval(time.Millisecond)
			r.DeadlineViolation = violationTrigger
			lateTrigger.Reactions = []*Reaction{r}
		},
		TimersFunc: func(env *Env) {
			_, _ = env.Schedule(lateTrigger, 0)
		},
	}

	mt := newManualClock()
	s := New(prog, NewClock(mt), WithFast())
	require.NoError(t, s.Initialize())

	// Advance the physical clock well past the 1ms deadline after
	// current_time has already been pinned at 0 by Initialize: since the
	// scheduler never blocks in -fast mode, physical time only moves if
	// the clock itself is advanced out of band (simulating a slow
	// machine, or work done between initialize and the first tag).
	mt.Advance(10 * time.Millisecond)

	require.NoError(t, s.Run())

	assert.True(t, violated)
	assert.True(t, ranReaction)
	assert.Equal(t, []string{"violation", "reaction"}, callOrder)
}

// TestReactionQueueDeduplicatesWithinATag covers the reaction queue's
// dedup-on-insertion behavior: a reaction reachable via two separate
// output paths in the same tag executes only once.
func TestReactionQueueDeduplicatesWithinATag(t *testing.T) {
	runs := 0
	var triggerSrc1, triggerSrc2, triggerSink *Trigger
	var sink *Reaction

	prog := ProgramFuncs{
		InitFunc: func(env *Env) {
			triggerSink = NewTrigger("sink", 0, 0)
			sink = NewReaction("sink", 2, func(env *Env, self any) {
				runs++
				env.Stop()
			}, nil, 0)
			triggerSink.Reactions = []*Reaction{sink}

			triggerSrc1 = NewTrigger("src1", 0, 0)
			triggerSrc2 = NewTrigger("src2", 0, 0)

			var r1, r2 *Reaction
			r1 = NewReaction("src1", 0, func(env *Env, self any) {
				r1.SetOutput(env, 0)
			}, nil, 1)
			r1.BindOutput(0, triggerSink)

			r2 = NewReaction("src2", 1, func(env *Env, self any) {
				r2.SetOutput(env, 0)
			}, nil, 1)
			r2.BindOutput(0, triggerSink)

			triggerSrc1.Reactions = []*Reaction{r1}
			triggerSrc2.Reactions = []*Reaction{r2}
		},
		TimersFunc: func(env *Env) {
			_, _ = env.Schedule(triggerSrc1, 0)
			_, _ = env.Schedule(triggerSrc2, 0)
		},
	}

	mt := newManualClock()
	s := New(prog, NewClock(mt), WithFast())
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Run())

	assert.Equal(t, 1, runs, "sink must run exactly once despite two output paths triggering it in the same tag")
}

// TestS6_AsyncStopWhileWaitingUnblocksRunPromptly exercises scenario S6:
// a Stop() call from a goroutine other than the one running Run(), while
// that goroutine is parked in waitUntil on a far-future event. Run must
// return promptly rather than completing the full wait or looping back
// into another wait, which is the race scheduler.go's state handling
// around waitUntil must not drop.
func TestS6_AsyncStopWhileWaitingUnblocksRunPromptly(t *testing.T) {
	var farTrigger *Trigger
	prog := ProgramFuncs{
		InitFunc: func(env *Env) {
			farTrigger = NewTrigger("far", 0, 0)
		},
		TimersFunc: func(env *Env) {
			_, _ = env.Schedule(farTrigger, Interval(10*time.Second))
		},
	}

	mt := newManualClock()
	s := New(prog, NewClock(mt)) // no WithFast: Next must actually block in waitUntil.
	require.NoError(t, s.Initialize())

	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	require.Eventually(t, func() bool {
		return s.state.Load() == StateWaiting
	}, time.Second, time.Millisecond, "scheduler never reached StateWaiting")

	s.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return promptly after Stop was called while waiting")
	}
}
