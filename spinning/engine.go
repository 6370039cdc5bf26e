// Package spinning implements the busy-wait reference variant named
// in spec §6: the exact same registry/ready-queue/dependency-release
// protocol as the sleeping package, except idle workers busy-yield
// with runtime.Gosched instead of waiting on a condition variable.
// It is only worthwhile when the ready queue is expected to stay
// continuously non-empty; otherwise it burns a core per idle worker.
package spinning

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.lepak.sg/tasksys"
	"go.lepak.sg/tasksys/internal/depgraph"
	"go.lepak.sg/tasksys/internal/metrics"
	"go.lepak.sg/tasksys/internal/tasklog"
	"go.uber.org/zap"
)

// Engine is a fixed-size busy-wait thread-pool task execution engine.
// It implements tasksys.Engine.
type Engine struct {
	mu       sync.Mutex
	syncCond *sync.Cond

	queue    []workUnit
	registry map[tasksys.TaskGroupID]*taskGroup
	depGraph *depgraph.Digraph[tasksys.TaskGroupID]
	shutdown bool

	nextID       int64 // atomic
	activeGroups int32 // atomic

	workers int
	wg      sync.WaitGroup

	log     *zap.Logger
	reg     prometheus.Registerer
	metrics *metrics.Metrics
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger injects a *zap.Logger for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRegisterer registers this engine's gauges and counters against reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Engine) { e.reg = reg }
}

// New creates an Engine with the given number of workers. workers
// must be positive.
func New(workers int, opts ...Option) *Engine {
	if workers <= 0 {
		panic(tasksys.ErrInvalidWorkerCount)
	}

	e := &Engine{
		registry: make(map[tasksys.TaskGroupID]*taskGroup),
		depGraph: depgraph.New[tasksys.TaskGroupID](),
		workers:  workers,
		log:      tasklog.Nop(),
	}
	e.syncCond = sync.NewCond(&e.mu)

	for _, opt := range opts {
		opt(e)
	}
	e.metrics = metrics.New(e.reg, "spinning")

	e.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go e.worker()
	}

	return e
}

// Name returns this variant's label.
func (e *Engine) Name() string {
	return "Parallel + Thread Pool + Spin"
}

// Run is a blocking bulk launch; see tasksys.Engine.
func (e *Engine) Run(r tasksys.Runnable, numTotalTasks int) {
	e.RunAsyncWithDeps(r, numTotalTasks, nil)
	e.Sync()
}

// RunAsyncWithDeps submits a group; see tasksys.Engine.
func (e *Engine) RunAsyncWithDeps(r tasksys.Runnable, numTotalTasks int, deps []tasksys.TaskGroupID) tasksys.TaskGroupID {
	if numTotalTasks < 0 {
		panic(tasksys.ErrNegativeTaskCount)
	}

	id := tasksys.TaskGroupID(atomic.AddInt64(&e.nextID, 1) - 1)
	g := &taskGroup{
		id:            id,
		runnable:      r,
		numTotalTasks: numTotalTasks,
	}

	e.mu.Lock()

	var depsLeft int32
	for _, depID := range deps {
		if depID < 0 || depID >= id {
			e.mu.Unlock()
			panic(tasksys.ErrUnknownDependency)
		}
		dep, ok := e.registry[depID]
		if !ok {
			continue
		}
		dep.dependents = append(dep.dependents, id)
		e.depGraph.AddEdge(depID, id)
		depsLeft++
	}
	g.depsLeft = depsLeft

	e.registry[id] = g
	e.depGraph.AddNode(id)
	atomic.AddInt32(&e.activeGroups, 1)
	e.metrics.ActiveGroups.Inc()

	if depsLeft == 0 {
		e.readyLocked(g)
	}

	e.mu.Unlock()

	return id
}

// Sync blocks until every group submitted before the call has
// finished; see tasksys.Engine.
func (e *Engine) Sync() {
	e.mu.Lock()
	for atomic.LoadInt32(&e.activeGroups) != 0 {
		e.syncCond.Wait()
	}
	e.mu.Unlock()
}

// Close stops all workers once the ready queue has drained.
func (e *Engine) Close() {
	e.mu.Lock()
	e.shutdown = true
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *Engine) readyLocked(g *taskGroup) {
	if g.numTotalTasks == 0 {
		e.finishGroupLocked(g)
		return
	}
	for i := 0; i < g.numTotalTasks; i++ {
		e.queue = append(e.queue, workUnit{group: g, index: i})
	}
	e.metrics.QueueDepth.Set(float64(len(e.queue)))
}

func (e *Engine) finishGroupLocked(g *taskGroup) {
	for _, depID := range g.dependents {
		dep, ok := e.registry[depID]
		if !ok {
			continue
		}
		if atomic.AddInt32(&dep.depsLeft, -1) == 0 {
			e.readyLocked(dep)
		}
	}

	delete(e.registry, g.id)
	e.depGraph.RemoveNode(g.id)
	e.metrics.ActiveGroups.Dec()

	tasklog.Group(e.log, int64(g.id)).Debug("group finished")

	if atomic.AddInt32(&e.activeGroups, -1) == 0 {
		e.syncCond.Broadcast()
	}
}

// worker busy-yields instead of sleeping on a condition variable when
// the ready queue is empty; this is the only difference from the
// sleeping engine's protocol.
func (e *Engine) worker() {
	defer e.wg.Done()

	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			done := e.shutdown
			e.mu.Unlock()
			if done {
				return
			}
			runtime.Gosched()
			continue
		}

		u := e.queue[0]
		e.queue = e.queue[1:]
		e.metrics.QueueDepth.Set(float64(len(e.queue)))
		e.mu.Unlock()

		e.metrics.WorkersBusy.Inc()
		u.group.runnable.Run(u.index, u.group.numTotalTasks)
		e.metrics.WorkersBusy.Dec()
		e.metrics.TasksCompleted.Inc()

		completed := atomic.AddInt32(&u.group.completedTasks, 1)
		if int(completed) == u.group.numTotalTasks {
			e.mu.Lock()
			e.finishGroupLocked(u.group)
			e.mu.Unlock()
		}
	}
}

var _ tasksys.Engine = (*Engine)(nil)
