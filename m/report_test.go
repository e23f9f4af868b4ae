package m

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEpochResultAccuracy(t *testing.T) {
	require.Equal(t, 75.0, EpochResult{Correct: 3, Total: 4}.Accuracy())
	require.Equal(t, 0.0, EpochResult{Correct: 0, Total: 0}.Accuracy())
	require.Equal(t, 100.0, EpochResult{Correct: 10, Total: 10}.Accuracy())
}

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := ConsoleReporter{Out: &buf}

	require.NoError(t, rep.Report(EpochResult{
		Epoch:     0,
		Epochs:    30,
		Loss:      0.125,
		Correct:   9123,
		Total:     10000,
		Evaluated: true,
		TrainTime: 1500 * time.Millisecond,
	}))
	require.Equal(t,
		"Epoch 1 of 30 complete | Loss: 0.125000 | Time: 1.50s\n"+
			"9123/10000 correct, 91.23% accuracy\n",
		buf.String())

	buf.Reset()
	require.NoError(t, rep.Report(EpochResult{Epoch: 4, Epochs: 5, Loss: 0.5}))
	require.Equal(t, "Epoch 5 of 5 complete | Loss: 0.500000 | Time: 0.00s\n", buf.String())
}

func TestReportersStopAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var calls []string
	rs := Reporters{
		ReporterFunc(func(EpochResult) error {
			calls = append(calls, "a")
			return nil
		}),
		ReporterFunc(func(EpochResult) error {
			calls = append(calls, "b")
			return boom
		}),
		ReporterFunc(func(EpochResult) error {
			calls = append(calls, "c")
			return nil
		}),
	}
	require.ErrorIs(t, rs.Report(EpochResult{}), boom)
	require.Equal(t, []string{"a", "b"}, calls)
}

func TestAnalysisLogAppendsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "analysis.csv")
	log := NewAnalysisLog(path, []int{784, 30, 10}, TrainConfig{MiniBatchSize: 10, LearningRate: 3})
	require.NotEmpty(t, log.RunID)

	require.NoError(t, log.Report(EpochResult{Epoch: 0, Epochs: 2, Correct: 8, Total: 10, Evaluated: true}))
	require.NoError(t, log.Report(EpochResult{Epoch: 1, Epochs: 2, Correct: 9, Total: 10, Evaluated: true}))

	second := NewAnalysisLog(path, []int{784, 30, 10}, TrainConfig{MiniBatchSize: 10, LearningRate: 3})
	require.NotEqual(t, log.RunID, second.RunID)
	require.NoError(t, second.Report(EpochResult{Epoch: 0, Epochs: 1, Correct: 7, Total: 10, Evaluated: true}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	require.Equal(t, analysisHeaders, records[0])
	require.Equal(t, log.RunID, records[1][0])
	require.Equal(t, "784 30 10", records[1][1])
	require.Equal(t, "1", records[1][2])
	require.Equal(t, "80.00000", records[1][9])
	require.Equal(t, "2", records[2][2])
	require.Equal(t, "90.00000", records[2][9])
	require.Equal(t, second.RunID, records[3][0])
}

func TestFormatSizes(t *testing.T) {
	require.Equal(t, "784 30 10", FormatSizes([]int{784, 30, 10}))
	require.Equal(t, "", FormatSizes(nil))
}

func TestAnalysisLogReportErrors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	log := NewAnalysisLog(filepath.Join(blocker, "analysis.csv"), []int{2, 1}, TrainConfig{MiniBatchSize: 1, LearningRate: 1})
	require.Error(t, log.Report(EpochResult{Epochs: 1}))

	log = NewAnalysisLog(dir, []int{2, 1}, TrainConfig{MiniBatchSize: 1, LearningRate: 1})
	require.Error(t, log.Report(EpochResult{Epochs: 1}))
}
