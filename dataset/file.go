// Package dataset turns an MNIST-style CSV, optionally zipped, into the
// training and test examples package m consumes.
package dataset

import (
	"archive/zip"
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sgdnet/m"
)

var (
	// ErrEmptyArchive is returned by Decompress for a zip with no entries.
	ErrEmptyArchive = errors.New("zip archive has no entries")

	// ErrTestSize is returned by Split when the held-out count is negative
	// or larger than the number of samples.
	ErrTestSize = errors.New("invalid test size")
)

// Sample is one CSV row: a class label and pixel intensities scaled to [0, 1].
type Sample struct {
	Label  int
	Pixels []float64
}

// Options controls how Load splits and encodes samples.
type Options struct {
	Classes  int // length of the one-hot targets
	TestSize int // rows held out from the end of the file
}

// DefaultOptions matches the MNIST layout: ten digits, 10000 test rows.
func DefaultOptions() Options {
	return Options{Classes: 10, TestSize: 10000}
}

// RowError locates a malformed CSV row, counting from 1 and including any
// header row.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Load reads path, decompressing it first when it ends in .zip, and splits
// the rows into training and test examples.
func Load(path string, opts Options) ([]m.TrainingExample, []m.TestExample, error) {
	var r io.Reader
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		data, err := Decompress(path)
		if err != nil {
			return nil, nil, err
		}
		r = bytes.NewReader(data)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening dataset: %w", err)
		}
		defer f.Close()
		r = f
	}

	samples, err := ReadSamples(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return Split(samples, opts.TestSize, opts.Classes)
}

// Decompress returns the contents of the first entry of the zip archive at
// path.
func Decompress(path string) ([]byte, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer archive.Close()

	if len(archive.File) == 0 {
		return nil, ErrEmptyArchive
	}
	entry, err := archive.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", archive.File[0].Name, err)
	}
	defer entry.Close()

	data, err := io.ReadAll(entry)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", archive.File[0].Name, err)
	}
	return data, nil
}

// ReadSamples parses rows of "label,pixel,pixel,...". Pixels are integers in
// [0, 255] and are divided by 255. A first row whose label column is not a
// number is taken as a header and skipped.
func ReadSamples(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.TrimLeadingSpace = true

	var samples []Sample
	var row int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		row++
		if row == 1 && isHeader(record) {
			continue
		}

		sample, err := parseRecord(record)
		if err != nil {
			return nil, &RowError{Row: row, Err: err}
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

func isHeader(record []string) bool {
	_, err := strconv.Atoi(record[0])
	return err != nil
}

func parseRecord(record []string) (Sample, error) {
	if len(record) < 2 {
		return Sample{}, fmt.Errorf("expected a label and at least one pixel, got %d values", len(record))
	}
	label, err := strconv.Atoi(record[0])
	if err != nil {
		return Sample{}, fmt.Errorf("parsing label: %w", err)
	}
	if label < 0 {
		return Sample{}, fmt.Errorf("%w: %d", m.ErrLabelOutOfRange, label)
	}

	pixels := make([]float64, len(record)-1)
	for i, field := range record[1:] {
		brightness, err := strconv.ParseUint(field, 10, 8)
		if err != nil {
			return Sample{}, fmt.Errorf("parsing pixel %d: %w", i, err)
		}
		pixels[i] = float64(brightness) / 255.0
	}

	return Sample{Label: label, Pixels: pixels}, nil
}

// OneHot returns a vector of length classes with a single 1 at label.
func OneHot(label, classes int) ([]float64, error) {
	if label < 0 || label >= classes {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", m.ErrLabelOutOfRange, label, classes)
	}
	v := make([]float64, classes)
	v[label] = 1.0
	return v, nil
}

// Split keeps the last testSize samples as test examples and one-hot
// encodes the rest for training.
func Split(samples []Sample, testSize, classes int) ([]m.TrainingExample, []m.TestExample, error) {
	if testSize < 0 || testSize > len(samples) {
		return nil, nil, fmt.Errorf("%w: %d of %d samples", ErrTestSize, testSize, len(samples))
	}
	cut := len(samples) - testSize

	train := make([]m.TrainingExample, 0, cut)
	for i, s := range samples[:cut] {
		target, err := OneHot(s.Label, classes)
		if err != nil {
			return nil, nil, fmt.Errorf("sample %d: %w", i, err)
		}
		train = append(train, m.TrainingExample{Target: target, Input: s.Pixels})
	}

	test := make([]m.TestExample, 0, testSize)
	for i, s := range samples[cut:] {
		if s.Label >= classes {
			return nil, nil, fmt.Errorf("sample %d: %w: %d not in [0, %d)", cut+i, m.ErrLabelOutOfRange, s.Label, classes)
		}
		test = append(test, m.TestExample{Label: s.Label, Input: s.Pixels})
	}

	return train, test, nil
}
