package main

import (
	"fmt"

	"github.com/marcusrossel/lf-reactor/reactor"
)

// tickerProgram is a minimal built-in Program: a single periodic trigger
// that prints its logical time on every fire, and stops the run after a
// fixed number of ticks. It exists so `lfr` is runnable standalone
// (exercising the full Initialize/StartTimers/Next/Wrapup driver loop)
// without requiring a code generator to have populated a real
// trigger/reaction graph — a generated program would replace this file
// with its own InitializeTriggerObjects/StartTimers.
type tickerProgram struct {
	trigger *reactor.Trigger
	count   int
	limit   int
}

func newTickerProgram(period, offset reactor.Interval, limit int) *tickerProgram {
	p := &tickerProgram{limit: limit}
	p.trigger = reactor.NewTrigger("tick", offset, period)
	tickFn := func(env *reactor.Env, self any) {
		tp := self.(*tickerProgram)
		tp.count++
		fmt.Printf("tick %d at %d ns\n", tp.count, env.GetLogicalTime())
		if tp.count >= tp.limit {
			env.Stop()
		}
	}
	p.trigger.Reactions = []*reactor.Reaction{
		reactor.NewReaction("tick", 0, tickFn, p, 0),
	}
	return p
}

func (p *tickerProgram) InitializeTriggerObjects(env *reactor.Env) {}

func (p *tickerProgram) StartTimers(env *reactor.Env) {
	_, _ = env.Schedule(p.trigger, 0)
}

func (p *tickerProgram) StartTimeStep(env *reactor.Env) {}
