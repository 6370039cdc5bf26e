package spawn

import (
	"go.lepak.sg/tasksys"
)

// taskGroup mirrors sleeping.taskGroup's registry/dependency bookkeeping,
// but replaces the shared ready queue with a single atomic claim
// counter: each spawned goroutine races to claim the next unclaimed
// task index instead of popping a workUnit off a queue.
type taskGroup struct {
	id            tasksys.TaskGroupID
	runnable      tasksys.Runnable
	numTotalTasks int

	claimed        int32 // atomic, next task index to hand out
	completedTasks int32 // atomic
	depsLeft       int32 // atomic

	dependents []tasksys.TaskGroupID
}
