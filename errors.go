package tasksys

import "github.com/pkg/errors"

// Construction and submission errors. Per spec, every other failure
// mode here is a programmer error and is reported by panicking with
// one of these, not by a returned error value: all inputs are
// in-process and there is nothing a caller could usefully retry.
var (
	// ErrInvalidWorkerCount is panicked by every engine constructor
	// when given a non-positive worker count.
	ErrInvalidWorkerCount = errors.New("tasksys: worker count must be positive")

	// ErrNegativeTaskCount is panicked by RunAsyncWithDeps and Run when
	// given a negative numTotalTasks.
	ErrNegativeTaskCount = errors.New("tasksys: num_total_tasks must not be negative")

	// ErrUnknownDependency is panicked when a dependency id was never
	// issued by this engine. A dependency id that was issued but has
	// already finished is treated as satisfied, not as an error.
	ErrUnknownDependency = errors.New("tasksys: dependency id was never issued")
)
