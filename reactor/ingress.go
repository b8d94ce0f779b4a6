package reactor

import "sync"

// scheduleRequest is a deferred call to schedule, queued by a goroutine
// other than the scheduler's own, to be applied during the next Next()
// call: asynchronous schedule calls must be queued and applied at a
// well-defined point in the loop, never concurrently with queue
// mutation.
type scheduleRequest struct {
	trigger *Trigger
	delay   Interval
}

// ingress is the thread-safe inbox that asynchronous Schedule callers
// write into, and the scheduler goroutine drains at the top of each
// Next() call. Grounded in eventloop/loop.go's external/internal
// ChunkedIngress pair: a mutex-guarded pending slice is swapped for an
// empty one under lock, then drained lock-free by the single consumer —
// the same "swap buffers, drain outside the lock" shape, simplified
// because this scheduler has no chunk-pool-level allocation budget to
// protect.
type ingress struct {
	mu      sync.Mutex
	pending []scheduleRequest
	closed  bool
}

func newIngress() *ingress {
	return &ingress{}
}

// push enqueues a request. Safe to call from any goroutine. Returns
// false if the ingress has been closed (post-Wrapup), meaning the
// request was dropped.
func (g *ingress) push(trigger *Trigger, delay Interval) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.pending = append(g.pending, scheduleRequest{trigger: trigger, delay: delay})
	return true
}

// drain removes and returns all pending requests, leaving the inbox
// empty. Must only be called from the scheduler goroutine.
func (g *ingress) drain() []scheduleRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.pending) == 0 {
		return nil
	}
	out := g.pending
	g.pending = nil
	return out
}

// close marks the ingress closed; subsequent push calls are rejected.
func (g *ingress) close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
}
