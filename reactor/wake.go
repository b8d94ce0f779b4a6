package reactor

// wakeSource is a one-shot-per-signal wakeup channel, used to interrupt a
// blocked wait_until when an asynchronous Schedule (or Stop) call arrives.
//
// Grounded in eventloop/loop.go's fastWakeupCh field: a buffered channel of
// capacity 1, written with a non-blocking send (deduplicating concurrent
// wakeups into a single pending signal) and drained by the waiter. This
// avoids cross-thread syscall signaling entirely; the scheduler never
// waits on I/O readiness, so it needs no platform-specific eventfd/self-pipe
// code at all.
type wakeSource struct {
	ch chan struct{}
}

func newWakeSource() *wakeSource {
	return &wakeSource{ch: make(chan struct{}, 1)}
}

// Notify signals the wake channel. Safe to call from any goroutine,
// including concurrently with itself; redundant signals are coalesced.
func (w *wakeSource) Notify() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// Chan returns the channel a waiter selects on.
func (w *wakeSource) Chan() <-chan struct{} {
	return w.ch
}
