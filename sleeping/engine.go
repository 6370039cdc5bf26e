// Package sleeping implements the core of this module: a fixed-size
// worker pool that sleeps on a condition variable when the ready
// queue is empty, instead of spinning (see the spinning package) or
// spawning fresh goroutines per launch (see the spawn package).
//
// The synchronization protocol mirrors the classic mutex + condition
// variable design: one engine mutex guards the task-group registry,
// the ready queue, and the shutdown flag; a worker condition wakes
// workers when work becomes available or the engine is closing; a
// sync condition wakes callers blocked in Sync when the last active
// group finishes. Per-group completedTasks counters are plain atomics,
// incremented outside the mutex so the mutex is never held across a
// runnable's execution; depsLeft is also an atomic but is only
// changed while holding the mutex.
package sleeping

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.lepak.sg/tasksys"
	"go.lepak.sg/tasksys/internal/depgraph"
	"go.lepak.sg/tasksys/internal/metrics"
	"go.lepak.sg/tasksys/internal/tasklog"
	"go.uber.org/zap"
)

// Engine is a fixed-size sleeping thread-pool task execution engine.
// It implements tasksys.Engine.
type Engine struct {
	mu         sync.Mutex
	workerCond *sync.Cond
	syncCond   *sync.Cond

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

// WithLogger injects a *zap.Logger for diagnostics. The default is a
// no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRegisterer registers this engine's gauges and counters against
// reg. If not supplied, metrics are still tracked internally but
// never exported.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Engine) { e.reg = reg }
}

// New creates an Engine with the given number of workers, each
// entering the sleep/wake loop immediately. workers must be positive.
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
	e.workerCond = sync.NewCond(&e.mu)
	e.syncCond = sync.NewCond(&e.mu)

	for _, opt := range opts {
		opt(e)
	}
	e.metrics = metrics.New(e.reg, "sleeping")

	e.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go e.worker()
	}

	return e
}

// Name returns this variant's label.
func (e *Engine) Name() string {
	return "Parallel + Thread Pool + Sleep"
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
			// dep was issued before us but is no longer in the
			// registry: it already finished. Treated as satisfied,
			// not an error, per spec §7/§9.
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

	tasklog.Group(e.log, int64(id)).Debug("group submitted",
		zap.Int("num_total_tasks", numTotalTasks),
		zap.Int32("deps_left", depsLeft))

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

// Close stops all workers once the ready queue has drained. Any group
// still waiting on unmet dependencies is left in the registry; Sync
// before Close to avoid this.
func (e *Engine) Close() {
	e.mu.Lock()
	e.shutdown = true
	e.mu.Unlock()
	e.workerCond.Broadcast()
	e.wg.Wait()
}

// DumpGraph renders the current dependency edges for diagnostics, e.g.
// when a Sync call appears stuck.
func (e *Engine) DumpGraph() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.depGraph.String()
}

// readyLocked marks g ready to run: a zero-task group finishes
// instantly (spec §4.4 tie-break), anything else is fanned out onto
// the ready queue one work unit per task index. Must hold e.mu.
func (e *Engine) readyLocked(g *taskGroup) {
	if g.numTotalTasks == 0 {
		e.finishGroupLocked(g)
		return
	}

	for i := 0; i < g.numTotalTasks; i++ {
		e.queue = append(e.queue, workUnit{group: g, index: i})
	}
	e.metrics.QueueDepth.Set(float64(len(e.queue)))
	e.workerCond.Broadcast()
}

// finishGroupLocked runs the step-7 completion protocol: release
// dependents, remove g from the registry, and signal Sync if this was
// the last active group. Must hold e.mu.
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

// worker is the sleep/wake loop run by every pool goroutine, steps 1-8
// of spec §4.4.
func (e *Engine) worker() {
	defer e.wg.Done()

	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.shutdown {
			e.workerCond.Wait()
		}
		if e.shutdown && len(e.queue) == 0 {
			e.mu.Unlock()
			return
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
