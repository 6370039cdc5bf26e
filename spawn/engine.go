// Package spawn implements the always-spawn baseline named in spec
// §6: there is no persistent worker pool. Every time a group becomes
// ready to run, the engine spawns up to its configured worker count
// of fresh goroutines that race, via an atomic claim counter, to
// execute the group's task indices, then exit. Since more than one
// group can become ready at the same instant (several dependents of a
// just-finished group), spawned goroutines additionally gate their
// actual execution on a shared weighted semaphore sized to the worker
// count, so the number of task bodies running at once stays bounded
// across the whole engine, not just within one group. The registry,
// dependency graph, and completion protocol are otherwise the same
// bookkeeping as the sleeping package.
package spawn

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.lepak.sg/tasksys"
	"go.lepak.sg/tasksys/internal/depgraph"
	"go.lepak.sg/tasksys/internal/metrics"
	"go.lepak.sg/tasksys/internal/tasklog"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Engine spawns fresh goroutines per ready group instead of keeping a
// persistent pool. It implements tasksys.Engine.
type Engine struct {
	mu       sync.Mutex
	syncCond *sync.Cond

	registry map[tasksys.TaskGroupID]*taskGroup
	depGraph *depgraph.Digraph[tasksys.TaskGroupID]

	nextID       int64 // atomic
	activeGroups int32 // atomic

	workers int
	sem     *semaphore.Weighted
	wg      sync.WaitGroup // outstanding spawned goroutines

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
// reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Engine) { e.reg = reg }
}

// New creates an Engine that spawns up to workers goroutines per ready
// group. workers must be positive.
func New(workers int, opts ...Option) *Engine {
	if workers <= 0 {
		panic(tasksys.ErrInvalidWorkerCount)
	}

	e := &Engine{
		registry: make(map[tasksys.TaskGroupID]*taskGroup),
		depGraph: depgraph.New[tasksys.TaskGroupID](),
		workers:  workers,
		sem:      semaphore.NewWeighted(int64(workers)),
		log:      tasklog.Nop(),
	}
	e.syncCond = sync.NewCond(&e.mu)

	for _, opt := range opts {
		opt(e)
	}
	e.metrics = metrics.New(e.reg, "spawn")

	return e
}

// Name returns this variant's label.
func (e *Engine) Name() string {
	return "Parallel + Always Spawn"
}

// Run is a blocking bulk launch; see tasksys.Engine.
func (e *Engine) Run(r tasksys.Runnable, numTotalTasks int) {
	e.RunAsyncWithDeps(r, numTotalTasks, nil)
	e.Sync()
}

// RunAsyncWithDeps submits a group; see tasksys.Engine. A group with
// no unmet dependencies spawns its goroutines before this call
// returns.
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

// Close waits for every goroutine this engine has spawned to exit.
// There is no persistent pool to stop.
func (e *Engine) Close() {
	e.wg.Wait()
}

// readyLocked spawns up to e.workers goroutines to race through g's
// task indices, or finishes g immediately if it has none. Must hold
// e.mu.
func (e *Engine) readyLocked(g *taskGroup) {
	if g.numTotalTasks == 0 {
		e.finishGroupLocked(g)
		return
	}

	n := e.workers
	if n > g.numTotalTasks {
		n = g.numTotalTasks
	}
	e.wg.Add(n)
	for i := 0; i < n; i++ {
		go e.claimLoop(g)
	}
}

// claimLoop races with its siblings to claim task indices of g via an
// atomic counter, executing each one claimed, until g is exhausted.
func (e *Engine) claimLoop(g *taskGroup) {
	defer e.wg.Done()

	for {
		i := atomic.AddInt32(&g.claimed, 1) - 1
		if int(i) >= g.numTotalTasks {
			return
		}

		_ = e.sem.Acquire(context.Background(), 1)
		e.metrics.WorkersBusy.Inc()
		g.runnable.Run(int(i), g.numTotalTasks)
		e.metrics.WorkersBusy.Dec()
		e.sem.Release(1)
		e.metrics.TasksCompleted.Inc()

		if atomic.AddInt32(&g.completedTasks, 1) == int32(g.numTotalTasks) {
			e.mu.Lock()
			e.finishGroupLocked(g)
			e.mu.Unlock()
		}
	}
}

// finishGroupLocked releases dependents, removes g from the registry,
// and signals Sync if this was the last active group. Must hold e.mu.
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

var _ tasksys.Engine = (*Engine)(nil)
