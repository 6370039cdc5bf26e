package cli

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.lepak.sg/tasksys"
	"go.lepak.sg/tasksys/internal/must"
	"go.lepak.sg/tasksys/serial"
	"go.lepak.sg/tasksys/sleeping"
	"go.lepak.sg/tasksys/spawn"
	"go.lepak.sg/tasksys/spinning"
	"go.uber.org/zap"
)

var allVariants = []string{"sleeping", "spinning", "spawn", "serial"}

// Result is one engine variant's measured performance for a single
// benchmark run.
type Result struct {
	RunID   string
	Host    string
	Variant string
	Workers int
	Tasks   int
	Groups  int
	Elapsed time.Duration
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark workload across one or more engine variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd)
		},
	}

	cmd.Flags().Int("workers", runtime.NumCPU(), "worker count for the parallel variants")
	cmd.Flags().Int("tasks", 10000, "number of tasks per group")
	cmd.Flags().Int("groups", 1, "number of sequential dependent groups to chain")
	cmd.Flags().Duration("cost", 10*time.Microsecond, "simulated work per task")
	cmd.Flags().StringSlice("variants", allVariants, "engine variants to run (sleeping, spinning, spawn, serial)")
	cmd.Flags().StringP("output", "o", "table", "output format: table or json")

	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("tasks", cmd.Flags().Lookup("tasks"))
	_ = viper.BindPFlag("groups", cmd.Flags().Lookup("groups"))
	_ = viper.BindPFlag("cost", cmd.Flags().Lookup("cost"))
	_ = viper.BindPFlag("variants", cmd.Flags().Lookup("variants"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))

	return cmd
}

func runBench(cmd *cobra.Command) error {
	log := newLogger(cmd)
	defer log.Sync() //nolint:errcheck

	workers := viper.GetInt("workers")
	tasks := viper.GetInt("tasks")
	groups := viper.GetInt("groups")
	cost := viper.GetDuration("cost")
	variants := viper.GetStringSlice("variants")
	format := viper.GetString("output")
	noColor := viper.GetBool("no-color")

	if workers <= 0 {
		return errors.New("workers must be positive")
	}
	if groups <= 0 {
		return errors.New("groups must be positive")
	}

	runID := uuid.NewString()
	host := must.Must2(os.Hostname())
	log.Debug("starting benchmark run",
		zap.String("run_id", runID),
		zap.Int("workers", workers),
		zap.Int("tasks", tasks),
		zap.Int("groups", groups),
		zap.Duration("cost", cost),
		zap.Strings("variants", variants))

	results := make([]Result, 0, len(variants))
	for _, v := range variants {
		e, err := newEngine(v, workers, log)
		if err != nil {
			return errors.Wrapf(err, "variant %q", v)
		}

		elapsed := measure(e, tasks, groups, cost)
		e.Close()

		results = append(results, Result{
			RunID:   runID,
			Host:    host,
			Variant: e.Name(),
			Workers: workers,
			Tasks:   tasks,
			Groups:  groups,
			Elapsed: elapsed,
		})
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		return writeJSON(w, results)
	case "table":
		return writeTable(w, results, noColor)
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

// newEngine constructs the named variant with the given worker count.
func newEngine(name string, workers int, log *zap.Logger) (tasksys.Engine, error) {
	switch name {
	case "sleeping":
		return sleeping.New(workers, sleeping.WithLogger(log)), nil
	case "spinning":
		return spinning.New(workers, spinning.WithLogger(log)), nil
	case "spawn":
		return spawn.New(workers, spawn.WithLogger(log)), nil
	case "serial":
		return serial.New(serial.WithLogger(log)), nil
	default:
		return nil, fmt.Errorf("unknown engine variant %q (want one of %v)", name, allVariants)
	}
}

// measure chains groups sequential dependent groups of tasks tasks
// each through e and returns the wall-clock time for the whole chain
// to drain. Each task sleeps for the same cost to simulate work without
// depending on a real payload.
func measure(e tasksys.Engine, tasks, groups int, cost time.Duration) time.Duration {
	work := tasksys.RunnableFunc(func(int, int) {
		if cost > 0 {
			time.Sleep(cost)
		}
	})

	start := time.Now()

	var prev tasksys.TaskGroupID
	for g := 0; g < groups; g++ {
		var deps []tasksys.TaskGroupID
		if g > 0 {
			deps = []tasksys.TaskGroupID{prev}
		}
		prev = e.RunAsyncWithDeps(work, tasks, deps)
	}
	e.Sync()

	return time.Since(start)
}
