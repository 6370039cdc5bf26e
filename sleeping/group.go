package sleeping

import (
	"sync/atomic"

	"go.lepak.sg/tasksys"
)

// taskGroup is one bulk launch. completedTasks is incremented with
// sync/atomic outside the engine mutex as workers finish task
// indices; depsLeft is an atomic that is only set and decremented
// while holding the engine mutex. id, runnable and numTotalTasks are
// fixed at submit time and read by workers without the mutex.
type taskGroup struct {
	id            tasksys.TaskGroupID
	runnable      tasksys.Runnable
	numTotalTasks int

	completedTasks int32 // atomic
	depsLeft       int32 // atomic

	// dependents lists the groups that named this group in their
	// deps. Only the submitting goroutine appends to it (at submit
	// time, under the mutex) and only the completing worker ever
	// reads it (also under the mutex), so no further synchronization
	// is needed.
	dependents []tasksys.TaskGroupID
}

// workUnit is one fine-grained dispatch: a single task index of a
// single group. This is the granularity the ready queue holds, so
// that a group with numTotalTasks >> workers fans out across the
// whole pool immediately, per spec §4.3.
type workUnit struct {
	group *taskGroup
	index int
}
