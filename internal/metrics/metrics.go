// Package metrics exposes the prometheus gauges and counters that the
// sleeping, spinning and spawn engines update. ActiveGroups and
// QueueDepth are set inside the critical sections that already touch
// the registry and ready queue; WorkersBusy and TasksCompleted are
// updated around each runnable, outside the engine mutex. Prometheus
// collectors are safe for concurrent use, so instrumentation never
// adds locking of its own.
// spawn has no persistent ready queue, so it leaves QueueDepth at
// zero; the other two gauges and the counter still apply.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds one engine instance's prometheus collectors. All
// fields are always non-nil; construct with New.
type Metrics struct {
	ActiveGroups   prometheus.Gauge
	QueueDepth     prometheus.Gauge
	TasksCompleted prometheus.Counter
	WorkersBusy    prometheus.Gauge
}

// New creates a Metrics bound to engine variant name. If reg is
// non-nil, the collectors are registered against it; registration
// failures (e.g. a duplicate engine name) panic, mirroring
// prometheus.MustRegister's contract.
func New(reg prometheus.Registerer, engine string) *Metrics {
	labels := prometheus.Labels{"engine": engine}

	m := &Metrics{
		ActiveGroups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "tasksys",
			Name:        "active_groups",
			Help:        "Task groups submitted but not yet finished.",
			ConstLabels: labels,
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "tasksys",
			Name:        "queue_depth",
			Help:        "Work units currently sitting in the ready queue.",
			ConstLabels: labels,
		}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "tasksys",
			Name:        "tasks_completed_total",
			Help:        "Individual task invocations completed.",
			ConstLabels: labels,
		}),
		WorkersBusy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "tasksys",
			Name:        "workers_busy",
			Help:        "Workers currently executing a runnable.",
			ConstLabels: labels,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.ActiveGroups, m.QueueDepth, m.TasksCompleted, m.WorkersBusy)
	}

	return m
}
