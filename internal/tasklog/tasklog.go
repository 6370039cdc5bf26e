// Package tasklog wraps go.uber.org/zap with the small set of fields
// the engine variants log at Debug level: the sleeping engine logs
// group submission and completion, spinning and spawn log group
// completion, and serial logs each group it finishes inline. No
// variant logs the moment a group becomes ready. Logging defaults to a no-op so that it
// never perturbs the scheduling benchmarks this module exists to run;
// callers that want diagnostics inject a real *zap.Logger.
package tasklog

import "go.uber.org/zap"

// Nop returns a logger that discards everything, used as the default
// for every engine constructor.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// Group returns a logger scoped to one task group, used by the
// sleeping engine at submission and completion and by the spinning
// and spawn engines at completion. Per-task
// logging is deliberately not offered here: at one task index per
// call it would dominate any workload this module is built to
// benchmark.
func Group(l *zap.Logger, id int64) *zap.Logger {
	return l.With(zap.Int64("group_id", id))
}
