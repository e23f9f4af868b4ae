package m

// TrainingExample pairs a one-hot target with an input vector.
type TrainingExample struct {
	Target []float64
	Input  []float64
}

// TestExample pairs a class index with an input vector.
type TestExample struct {
	Label int
	Input []float64
}
