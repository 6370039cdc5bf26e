package spinning

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.lepak.sg/tasksys"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunCompletesEveryIndex(t *testing.T) {
	e := New(4)
	defer e.Close()

	const n = 100
	seen := make([]int32, n)
	e.Run(tasksys.RunnableFunc(func(i, total int) {
		assert.Equal(t, n, total)
		atomic.AddInt32(&seen[i], 1)
	}), n)

	for i, v := range seen {
		assert.Equalf(t, int32(1), v, "index %d ran %d times", i, v)
	}
}

func TestDiamondDependency(t *testing.T) {
	e := New(4)
	defer e.Close()

	var aFinished int32
	a := e.RunAsyncWithDeps(tasksys.RunnableFunc(func(int, int) {
		atomic.StoreInt32(&aFinished, 1)
	}), 2, nil)

	b := e.RunAsyncWithDeps(tasksys.RunnableFunc(func(int, int) {
		assert.Equal(t, int32(1), atomic.LoadInt32(&aFinished))
	}), 2, []tasksys.TaskGroupID{a})

	c := e.RunAsyncWithDeps(tasksys.RunnableFunc(func(int, int) {
		assert.Equal(t, int32(1), atomic.LoadInt32(&aFinished))
	}), 2, []tasksys.TaskGroupID{a})

	var total int32
	e.RunAsyncWithDeps(tasksys.RunnableFunc(func(int, int) {
		atomic.AddInt32(&total, 1)
	}), 2, []tasksys.TaskGroupID{b, c})

	e.Sync()
	assert.Equal(t, int32(2), atomic.LoadInt32(&total))
}

func TestZeroTaskGroupWithDependent(t *testing.T) {
	e := New(2)
	defer e.Close()

	a := e.RunAsyncWithDeps(tasksys.RunnableFunc(func(int, int) {
		t.Fatal("zero-task group must not invoke its runnable")
	}), 0, nil)

	var ran int32
	e.RunAsyncWithDeps(tasksys.RunnableFunc(func(int, int) {
		atomic.AddInt32(&ran, 1)
	}), 4, []tasksys.TaskGroupID{a})

	e.Sync()
	assert.Equal(t, int32(4), atomic.LoadInt32(&ran))
}

func TestUnknownDependencyPanics(t *testing.T) {
	e := New(2)
	defer e.Close()

	assert.PanicsWithValue(t, tasksys.ErrUnknownDependency, func() {
		e.RunAsyncWithDeps(tasksys.RunnableFunc(func(int, int) {}), 1, []tasksys.TaskGroupID{999})
	})
}

func TestInvalidWorkerCountPanics(t *testing.T) {
	assert.PanicsWithValue(t, tasksys.ErrInvalidWorkerCount, func() {
		New(0)
	})
}

func TestName(t *testing.T) {
	e := New(1)
	defer e.Close()
	assert.Equal(t, "Parallel + Thread Pool + Spin", e.Name())
}
