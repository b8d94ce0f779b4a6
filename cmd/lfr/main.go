// Command lfr is the driver binary: it wires a Program's external hooks
// into a reactor.Scheduler and runs the initialize -> start_timers ->
// next() loop -> wrapup sequence, translating -fast, -stop D U, and
// -wait into Scheduler options. The built-in demo Program is a
// one-second periodic ticker; a generated program would supply its own
// Program in place of newTickerProgram.
package main

import (
	"os"

	"github.com/marcusrossel/lf-reactor/reactor"
)

func main() {
	args := parseArgs(os.Args[1:])

	prog := newTickerProgram(1_000_000_000, 0, 5)

	sched := reactor.New(prog, reactor.NewRealClock(), args.options()...)
	if err := sched.Initialize(); err != nil {
		fail("%v", err)
	}
	if err := sched.Run(); err != nil {
		fail("%v", err)
	}
}
