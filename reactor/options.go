package reactor

import (
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// config holds the resolved settings a Scheduler is constructed with.
// Unexported; callers only ever see the Option closures.
type config struct {
	fast            bool
	waitForever     bool
	stopAfter       Interval
	hasStopAfter    bool
	logger          *logiface.Logger[*stumpy.Event]
	initialQueueCap int
	eventPoolLimit  int
}

func defaultConfig() *config {
	return &config{
		initialQueueCap: 16,
		eventPoolLimit:  256,
	}
}

// Option configures a Scheduler at construction time. Grounded in
// eventloop/options.go's LoopOption: a closure-over-config shape rather
// than a struct of public fields, so new settings can be added without
// breaking callers.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithFast disables wait_until's physical-clock sleep entirely (the
// -fast CLI flag): the scheduler advances through tags as fast as
// reactions can run, never blocking on the wall clock.
func WithFast() Option {
	return optionFunc(func(c *config) { c.fast = true })
}

// WithWaitForever keeps the scheduler alive after the event queue runs
// dry, waiting indefinitely for an asynchronous Schedule call instead of
// returning from Next (the -wait CLI flag).
func WithWaitForever() Option {
	return optionFunc(func(c *config) { c.waitForever = true })
}

// WithStopAfter sets an absolute logical duration after which the
// scheduler stops (the -stop D U CLI flag), measured from the first
// call to Initialize.
func WithStopAfter(d time.Duration) Option {
	return optionFunc(func(c *config) {
		c.stopAfter = Interval(d.Nanoseconds())
		c.hasStopAfter = true
	})
}

// WithLogger attaches a structured logger. Unset, the scheduler uses a
// disabled logger (logiface's own no-op mode), mirroring
// eventloop.getGlobalLogger's "never nil" guarantee without resorting to
// a package-level global.
func WithLogger(l *logiface.Logger[*stumpy.Event]) Option {
	return optionFunc(func(c *config) { c.logger = l })
}

// WithInitialQueueCapacity pre-sizes the event and reaction queues'
// backing slices, avoiding early growth reallocations for programs with
// a known approximate trigger count.
func WithInitialQueueCapacity(n int) Option {
	return optionFunc(func(c *config) {
		if n > 0 {
			c.initialQueueCap = n
		}
	})
}

// WithEventPoolLimit bounds how many retired event records the event
// pool retains for reuse. 0 means unbounded.
func WithEventPoolLimit(n int) Option {
	return optionFunc(func(c *config) { c.eventPoolLimit = n })
}

func resolveOptions(opts []Option) *config {
	c := defaultConfig()
	for _, o := range opts {
		if o == nil {
			continue
		}
		o.apply(c)
	}
	return c
}
