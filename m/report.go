package m

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EpochResult summarises one completed SGD epoch.
type EpochResult struct {
	Epoch  int // zero-based
	Epochs int
	// Loss is the mean quadratic cost over the epoch's training examples,
	// each measured just before the update that consumed it.
	Loss      float64
	Correct   int
	Total     int
	Evaluated bool
	TrainTime time.Duration
	EvalTime  time.Duration
}

// Accuracy is the percentage of correct test classifications.
func (r EpochResult) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return 100 * float64(r.Correct) / float64(r.Total)
}

// Reporter receives epoch results from SGD. A non-nil error stops training.
type Reporter interface {
	Report(r EpochResult) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(r EpochResult) error

func (f ReporterFunc) Report(r EpochResult) error {
	return f(r)
}

// Reporters fans a result out in order, stopping at the first error.
type Reporters []Reporter

func (rs Reporters) Report(r EpochResult) error {
	for _, rep := range rs {
		if err := rep.Report(r); err != nil {
			return err
		}
	}
	return nil
}

// ConsoleReporter writes the human-readable progress lines.
type ConsoleReporter struct {
	Out io.Writer
}

func (c ConsoleReporter) Report(r EpochResult) error {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	if _, err := fmt.Fprintf(out, "Epoch %d of %d complete | Loss: %.6f | Time: %.2fs\n",
		r.Epoch+1, r.Epochs, r.Loss, r.TrainTime.Seconds()); err != nil {
		return err
	}
	if !r.Evaluated {
		return nil
	}
	_, err := fmt.Fprintf(out, "%d/%d correct, %.2f%% accuracy\n", r.Correct, r.Total, r.Accuracy())
	return err
}

var analysisHeaders = []string{
	"Run", "Architecture", "Epoch", "Epochs", "Batch Size", "LR", "Loss", "Correct", "Total", "Accuracy", "Seconds",
}

// AnalysisLog appends one CSV record per epoch to Path, writing the header
// row when the file is new. Records of one training run share RunID.
type AnalysisLog struct {
	Path          string
	RunID         string
	Sizes         []int
	MiniBatchSize int
	LearningRate  float64
}

// NewAnalysisLog returns a log for a run of the given network and
// hyperparameters under a fresh run id.
func NewAnalysisLog(path string, sizes []int, cfg TrainConfig) *AnalysisLog {
	return &AnalysisLog{
		Path:          path,
		RunID:         uuid.New().String(),
		Sizes:         append([]int(nil), sizes...),
		MiniBatchSize: cfg.MiniBatchSize,
		LearningRate:  cfg.LearningRate,
	}
}

func (a *AnalysisLog) Report(r EpochResult) (err error) {
	if err := os.MkdirAll(filepath.Dir(a.Path), os.ModePerm); err != nil {
		return fmt.Errorf("creating analysis directory: %w", err)
	}
	var needsHeaders bool
	if _, err := os.Stat(a.Path); os.IsNotExist(err) {
		needsHeaders = true
	}
	file, err := os.OpenFile(a.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing analysis log: %w", cerr)
		}
	}()

	w := csv.NewWriter(file)
	if needsHeaders {
		if err := w.Write(analysisHeaders); err != nil {
			return fmt.Errorf("writing csv headers: %w", err)
		}
	}
	record := []string{
		a.RunID,
		FormatSizes(a.Sizes),
		strconv.Itoa(r.Epoch + 1),
		strconv.Itoa(r.Epochs),
		strconv.Itoa(a.MiniBatchSize),
		strconv.FormatFloat(a.LearningRate, 'f', 4, 64),
		strconv.FormatFloat(r.Loss, 'f', 6, 64),
		strconv.Itoa(r.Correct),
		strconv.Itoa(r.Total),
		strconv.FormatFloat(r.Accuracy(), 'f', 5, 64),
		strconv.FormatFloat((r.TrainTime + r.EvalTime).Seconds(), 'f', 3, 64),
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("writing csv record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	return nil
}

// FormatSizes renders layer sizes space-separated, the form
// utils.ParseArchitecture reads.
func FormatSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, " ")
}
