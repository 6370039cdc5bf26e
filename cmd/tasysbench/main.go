// Command tasysbench benchmarks the sleeping, spinning, spawn, and
// serial engine variants against the same workload and reports their
// wall-clock times side by side.
package main

import (
	"context"
	"fmt"
	"os"

	"go.lepak.sg/tasksys/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "tasysbench:", err)
		os.Exit(1)
	}
}
