package reactor

import (
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the logiface logger type this package logs through. Callers
// construct one with NewJSONLogger (or stumpy.L.New directly) and pass
// it via WithLogger.
type Logger = logiface.Logger[*stumpy.Event]

// NewJSONLogger returns a stumpy-backed JSON logger writing to w at the
// given level, following logiface-stumpy/factory.go's WithStumpy
// constructor. Passing nil for w defaults to os.Stderr.
func NewJSONLogger(level logiface.Level, w *os.File) *Logger {
	opts := []stumpy.Option{}
	if w != nil {
		opts = append(opts, stumpy.WithWriter(w))
	}
	return stumpy.L.New(
		logiface.WithLevel[*stumpy.Event](level),
		stumpy.WithStumpy(opts...),
	)
}

// disabledLogger returns a logger at LevelDisabled, built exactly the
// way a configured one would be but never emitting a line. It stands in
// for eventloop.getGlobalLogger's "never nil" guarantee: rather than a
// package-level global fallback, each Scheduler holds its own disabled
// logger by default, keeping the log sink bound to the Scheduler
// instance instead of process-wide state.
func disabledLogger() *Logger {
	return stumpy.L.New(logiface.WithLevel[*stumpy.Event](logiface.LevelDisabled))
}

// logTagAdvance records one Next() call's summary: the tag reached, how
// many events were drained into reactions, and how many reactions ran.
func logTagAdvance(l *Logger, tag Instant, eventsDrained, reactionsRun int) {
	l.Info().
		Int64("tag_ns", int64(tag)).
		Int("events_drained", eventsDrained).
		Int("reactions_run", reactionsRun).
		Log("tag advance")
}

// logDeadlineViolation records a reaction running later than its
// declared deadline.
func logDeadlineViolation(l *Logger, reactionName string, index uint64, latenessNS int64) {
	l.Warning().
		Str("reaction", reactionName).
		Uint64("reaction_index", index).
		Int64("lateness_ns", latenessNS).
		Log("deadline violation")
}

// logReactionPanic records a reaction body panic recovered at the
// dispatch site, per PanicError's style in eventloop/errors.go.
func logReactionPanic(l *Logger, reactionName string, recovered any) {
	l.Err().
		Err(&PanicError{Value: recovered, Reaction: reactionName}).
		Str("reaction", reactionName).
		Log("reaction panicked")
}

// logWrapup records the final elapsed-time summary (the original
// reactor.c's wrapup() banner, as structured fields instead of a printf).
func logWrapup(l *Logger, elapsedLogicalNS, elapsedPhysicalNS int64) {
	l.Info().
		Int64("elapsed_logical_ns", elapsedLogicalNS).
		Int64("elapsed_physical_ns", elapsedPhysicalNS).
		Log("wrapup")
}
