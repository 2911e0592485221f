// Package scheduler orchestrates a full run: a worker pool pulls item
// indices from a shared queue, drives solve -> reserve -> render -> commit
// per item, and emits a single ordered-by-completion event stream.
//
// Workers are an errgroup.Group; the outbound event queue is gated by a
// semaphore.Weighted sized to the run's memory budget, so a worker that
// would push the in-flight composited byte total over budget blocks until
// a consumer drains an event. Cancellation is a single context.Context
// checked at worker-loop top, before compositing, and after compositing.
package scheduler
