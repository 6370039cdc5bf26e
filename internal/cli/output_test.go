package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortByElapsedAscending(t *testing.T) {
	results := []Result{
		{Variant: "slow", Elapsed: 300 * time.Millisecond},
		{Variant: "fast", Elapsed: 10 * time.Millisecond},
		{Variant: "mid", Elapsed: 100 * time.Millisecond},
	}
	sortByElapsed(results)
	assert.Equal(t, []string{"fast", "mid", "slow"}, []string{results[0].Variant, results[1].Variant, results[2].Variant})
}

func TestWriteTableNoResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, nil, true))
	assert.Contains(t, buf.String(), "no results")
}

func TestWriteTableContainsVariantNames(t *testing.T) {
	var buf bytes.Buffer
	results := []Result{
		{Variant: "Serial", Workers: 1, Tasks: 10, Groups: 1, Elapsed: time.Second},
		{Variant: "Parallel + Thread Pool + Sleep", Workers: 4, Tasks: 10, Groups: 1, Elapsed: 50 * time.Millisecond},
	}
	require.NoError(t, writeTable(&buf, results, true))
	out := buf.String()
	assert.Contains(t, out, "Serial")
	assert.Contains(t, out, "Parallel + Thread Pool + Sleep")
}

func TestWriteJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	results := []Result{{RunID: "r1", Variant: "Serial", Workers: 1, Tasks: 5, Groups: 1, Elapsed: time.Millisecond}}
	require.NoError(t, writeJSON(&buf, results))

	var decoded []Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "r1", decoded[0].RunID)
	assert.Equal(t, "Serial", decoded[0].Variant)
}

func TestNewColorSchemeDisabledForNonTTY(t *testing.T) {
	var buf bytes.Buffer
	cs := newColorScheme(&buf, false)
	assert.False(t, cs.enabled)
	assert.Equal(t, "hi", cs.Header("hi"))
}
