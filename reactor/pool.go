package reactor

// eventPool is a bounded-growth freelist for *event records, so that
// retiring an event returns it here instead of letting it become garbage.
// Grounded in eventloop/ingress.go's chunkPool: a sync.Pool-backed free
// list recycles fixed-size records instead of allocating and freeing them
// per use. Unlike chunkPool this pool is not safe for concurrent use —
// like the event queue it serves, it is private to the scheduler
// goroutine.
type eventPool struct {
	free []*event
	// limit bounds how many retired events are retained; beyond it,
	// retired events are simply dropped for the GC to collect. 0 means
	// unbounded.
	limit int
}

func newEventPool(limit int) *eventPool {
	return &eventPool{limit: limit}
}

// Get returns a recycled event, or a freshly allocated one if the pool is
// empty.
func (p *eventPool) Get() *event {
	if n := len(p.free); n > 0 {
		e := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return e
	}
	return &event{pos: -1}
}

// Put retires e into the pool. The event's time
// is zeroed first so that, were the pool ever iterated in time order, the
// sort would cost nothing — a cheap invariant carried over verbatim from
// the original reactor.c's next().
func (p *eventPool) Put(e *event) {
	e.time = 0
	e.trigger = nil
	e.pos = -1
	if p.limit > 0 && len(p.free) >= p.limit {
		return
	}
	p.free = append(p.free, e)
}

// Len reports the number of retired events currently held.
func (p *eventPool) Len() int { return len(p.free) }
