package m

import "golang.org/x/exp/rand"

// createBatches cuts examples into consecutive batches of batchSize. The
// last batch holds the remainder; a batchSize at or above len(examples)
// yields a single batch.
func createBatches(examples []TrainingExample, batchSize int) [][]TrainingExample {
	if len(examples) == 0 {
		return nil
	}
	if batchSize > len(examples) {
		batchSize = len(examples)
	}
	numBatches := (len(examples) + batchSize - 1) / batchSize
	batches := make([][]TrainingExample, numBatches)

	for i := 0; i < numBatches; i++ {
		startIdx := i * batchSize
		endIdx := startIdx + batchSize

		if endIdx > len(examples) {
			endIdx = len(examples)
		}

		batches[i] = examples[startIdx:endIdx]
	}

	return batches
}

// shuffle permutes examples in place.
func shuffle(rng *rand.Rand, examples []TrainingExample) {
	rng.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
}

// epochBatches shuffles examples and partitions the result.
func epochBatches(rng *rand.Rand, examples []TrainingExample, batchSize int) [][]TrainingExample {
	shuffle(rng, examples)
	return createBatches(examples, batchSize)
}
