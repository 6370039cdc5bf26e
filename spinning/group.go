package spinning

import (
	"go.lepak.sg/tasksys"
)

// taskGroup mirrors sleeping.taskGroup; see that package's doc for the
// synchronization rationale. completedTasks is an atomic incremented
// outside the engine mutex; depsLeft is an atomic only changed while
// holding it.
type taskGroup struct {
	id            tasksys.TaskGroupID
	runnable      tasksys.Runnable
	numTotalTasks int

	completedTasks int32 // atomic
	depsLeft       int32 // atomic

	dependents []tasksys.TaskGroupID
}

// workUnit is one fine-grained dispatch: a single task index of a
// single group.
type workUnit struct {
	group *taskGroup
	index int
}
