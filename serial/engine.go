// Package serial implements the reference baseline variant named in
// spec §6: every task index of every group runs synchronously on the
// calling goroutine, in submission order. It exists to validate the
// other three engines' output against a trivially-correct execution
// order, not for throughput.
package serial

import (
	"go.lepak.sg/tasksys"
	"go.lepak.sg/tasksys/internal/tasklog"
	"go.uber.org/zap"
)

// Engine runs every task on the calling goroutine. It implements
// tasksys.Engine but ignores dependency ordering: since nothing ever
// runs concurrently with anything else, a group submitted via
// RunAsyncWithDeps has already finished, in full, by the time the call
// returns.
type Engine struct {
	nextID int64
	log    *zap.Logger
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger injects a *zap.Logger for diagnostics. The default is a
// no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates a serial Engine. There is no worker count: every task
// runs on the calling goroutine.
func New(opts ...Option) *Engine {
	e := &Engine{log: tasklog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns this variant's label.
func (e *Engine) Name() string {
	return "Serial"
}

// Run executes every task index in order on the calling goroutine.
func (e *Engine) Run(r tasksys.Runnable, numTotalTasks int) {
	if numTotalTasks < 0 {
		panic(tasksys.ErrNegativeTaskCount)
	}
	for i := 0; i < numTotalTasks; i++ {
		r.Run(i, numTotalTasks)
	}
}

// RunAsyncWithDeps runs the group to completion inline, ignoring deps:
// every group the caller could have passed as a dependency has already
// finished by the time its own RunAsyncWithDeps returned. It does not
// validate deps against ErrUnknownDependency since nothing can
// possibly still be running.
func (e *Engine) RunAsyncWithDeps(r tasksys.Runnable, numTotalTasks int, deps []tasksys.TaskGroupID) tasksys.TaskGroupID {
	e.Run(r, numTotalTasks)
	id := tasksys.TaskGroupID(e.nextID)
	e.nextID++
	e.log.Debug("group finished inline", zap.Int64("group_id", int64(id)))
	return id
}

// Sync is a no-op: by construction nothing is ever in flight between
// calls.
func (e *Engine) Sync() {}

// Close is a no-op: there is no pool to tear down.
func (e *Engine) Close() {}

var _ tasksys.Engine = (*Engine)(nil)
