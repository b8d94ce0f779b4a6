// Package reactor implements the tagged-time event loop that drives a
// statically-known graph of reactions triggered by timed events.
//
// # Architecture
//
// The core is built around a [Scheduler] that owns three ordered
// containers — the event queue (time-ordered), the reaction queue
// (index-ordered), and the event pool (a freelist) — plus a [Clock] used
// to pace logical time (current_time) against physical time.
//
// External code builds a static graph of [Trigger] and [Reaction] values
// (normally produced by a code generator, here supplied by a [Program]
// implementation), calls [New] to construct a [Scheduler], and drives it
// with [Scheduler.Run]. Reaction bodies call back into the running
// scheduler through the [Env] handle passed as their first argument, using
// [Env.Schedule], [Env.GetLogicalTime], and [Env.Stop].
//
// # Thread Safety
//
// [Scheduler.Next] and all reaction bodies execute on a single goroutine,
// and [Scheduler.Schedule] and [Env.Schedule] must be called from it.
// [Scheduler.ScheduleAsync] and [Scheduler.Stop] may be called
// concurrently from other goroutines — asynchronous schedule requests are
// queued through an ingress inbox and drained at the top of each
// [Scheduler.Next] call, and both wake a blocked wait via an internal wake
// channel.
package reactor
