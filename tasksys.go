// Package tasksys defines the shared contract for a bulk-synchronous
// parallel task-execution engine: a fixed worker pool that runs
// caller-supplied Runnables once per task index within a bulk launch,
// optionally ordered by dependencies between launches.
//
// Four engines implement this contract, each in its own subpackage:
//
//	sleeping  - fixed worker pool, mutex + condition variables, fine-grained
//	            dispatch. This is the core; see the sleeping package doc.
//	spinning  - same protocol as sleeping, but workers busy-yield instead
//	            of waiting on a condition variable.
//	spawn     - spawns up to the worker count of goroutines each time a
//	            group becomes ready; no persistent pool.
//	serial    - runs every task index on the calling goroutine.
//
// All four share this package's Engine interface so they can be
// benchmarked interchangeably; see cmd/tasysbench.
package tasksys

// Runnable is the capability a caller provides to a bulk launch. The
// engine invokes it once per task index and otherwise treats it as
// opaque: it is never cloned, inspected, or retried.
type Runnable interface {
	// Run executes one task of a bulk launch. taskIndex ranges over
	// [0, numTotalTasks).
	Run(taskIndex, numTotalTasks int)
}

// RunnableFunc adapts a plain function to the Runnable interface.
type RunnableFunc func(taskIndex, numTotalTasks int)

// Run calls f.
func (f RunnableFunc) Run(taskIndex, numTotalTasks int) {
	f(taskIndex, numTotalTasks)
}

// TaskGroupID identifies one bulk launch submitted with
// RunAsyncWithDeps. Ids are dense, monotonically increasing, and
// never reused for the lifetime of an Engine.
type TaskGroupID int64

// Engine is the public contract shared by every task-execution engine
// in this module.
type Engine interface {
	// Run is a blocking bulk launch: it returns after every index in
	// [0, numTotalTasks) has been invoked, and after all previously
	// submitted asynchronous work has also drained.
	Run(r Runnable, numTotalTasks int)

	// RunAsyncWithDeps submits a group of numTotalTasks invocations of
	// r, which will not begin until every group named in deps has
	// finished. It returns immediately with a fresh TaskGroupID.
	RunAsyncWithDeps(r Runnable, numTotalTasks int, deps []TaskGroupID) TaskGroupID

	// Sync blocks until every group submitted before the call has
	// finished.
	Sync()

	// Close stops the engine. It blocks until in-flight work has
	// drained. Callers should Sync before Close; groups left
	// unfinished by unmet dependencies are not awaited.
	Close()

	// Name returns a short, human-readable label for the engine
	// variant, e.g. "Parallel + Thread Pool + Sleep".
	Name() string
}
