package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lepak.sg/tasksys"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewEngineUnknownVariant(t *testing.T) {
	_, err := newEngine("quantum", 2, zap.NewNop())
	require.Error(t, err)
}

func TestNewEngineEachVariant(t *testing.T) {
	for _, name := range allVariants {
		e, err := newEngine(name, 2, zap.NewNop())
		require.NoErrorf(t, err, "variant %s", name)
		require.NotNil(t, e)
		e.Close()
	}
}

func TestMeasureRunsAllGroups(t *testing.T) {
	e, err := newEngine("serial", 1, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	elapsed := measure(e, 10, 3, 0)
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))

	// The serial engine issues ids 0, 1, 2 to the three chained groups,
	// so the next submission gets id 3.
	next := e.RunAsyncWithDeps(tasksys.RunnableFunc(func(int, int) {}), 0, nil)
	assert.Equal(t, tasksys.TaskGroupID(3), next)
}

func TestRunBenchSerialJSON(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cmd := newRunCmd()
	viper.Set("workers", 2)
	viper.Set("tasks", 20)
	viper.Set("groups", 1)
	viper.Set("cost", time.Duration(0))
	viper.Set("variants", []string{"serial"})
	viper.Set("output", "json")
	viper.Set("no-color", true)

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, runBench(cmd))

	var results []Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Serial", results[0].Variant)
	assert.NotEmpty(t, results[0].RunID)
	assert.NotEmpty(t, results[0].Host)
}

func TestRunBenchRejectsNonPositiveWorkers(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cmd := newRunCmd()
	viper.Set("workers", 0)
	viper.Set("groups", 1)
	viper.Set("variants", []string{"serial"})

	require.Error(t, runBench(cmd))
}
