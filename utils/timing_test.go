package utils

import (
	"bytes"
	"math"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDurationUS(t *testing.T) {
	d := 1234*time.Microsecond + 567*time.Nanosecond
	got := DurationUS(d)
	if math.Abs(got-1234.567) > 0.001 {
		t.Fatalf("want 1234.567µs, got %.3f", got)
	}
}

func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevVerbose := Output, Verbose
	Output, Verbose = &buf, verbose
	t.Cleanup(func() { Output, Verbose = prevOut, prevVerbose })
	return &buf
}

func TestPrintTimingStats(t *testing.T) {
	buf := capture(t, true)
	PrintTimingStats(&TimingStats{
		TotalTime:       10 * time.Second,
		DataLoadingTime: 2 * time.Second,
		ModelInitTime:   0,
		TrainingTime:    7 * time.Second,
		EvaluationTime:  time.Second,
	}, 4)

	out := buf.String()
	require.Contains(t, out, "=== TIMING STATISTICS ===")
	require.Contains(t, out, "Average time per epoch: 2s")
	require.Contains(t, out, "Epochs completed: 4")
	require.Contains(t, out, "Data loading: 2s (20.0%)")
	require.Contains(t, out, "Training: 7s (70.0%)")
	require.Contains(t, out, "Evaluation: 1s (10.0%)")
}

func TestPrintTimingStatsZeroValues(t *testing.T) {
	buf := capture(t, true)
	PrintTimingStats(&TimingStats{}, 0)

	out := buf.String()
	require.Contains(t, out, "Epochs completed: 0")
	require.NotContains(t, out, "NaN")
	require.NotContains(t, out, "Average")
}

func TestPrintTimingStatsQuiet(t *testing.T) {
	buf := capture(t, false)
	PrintTimingStats(&TimingStats{TotalTime: time.Second}, 1)
	require.Empty(t, buf.String())
}

func TestHostInfo(t *testing.T) {
	info := HostInfo()
	require.True(t, strings.Contains(info, runtime.GOOS+"/"+runtime.GOARCH), info)
	require.Contains(t, info, "simd:")
}
