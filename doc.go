// Package delayed provides a frame-driven scheduler for deferred actions.
// An action is inserted together with a delay and executed exactly once
// by the first call to Poll that happens at or after its fire instant.
// Actions never run on their own: the owner, usually a frame loop,
// must call Poll periodically.
// All methods of both the package and a Scheduler instance
// are thread-safe. Callbacks always run on the goroutine calling Poll.
package delayed
