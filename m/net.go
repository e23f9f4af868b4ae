package m

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Network is a fully connected feed-forward network of sigmoid layers.
// It owns its parameters; accessors hand out copies.
type Network struct {
	sizes   []int
	weights []*mat.Dense // weights[i] is sizes[i+1] x sizes[i]
	biases  []*mat.Dense // biases[i] is sizes[i+1] x 1
	rng     *rand.Rand
}

// Gradients holds one entry per weight matrix and bias column, shaped like
// the network parameters they belong to.
type Gradients struct {
	Weights []*mat.Dense
	Biases  []*mat.Dense
}

// TrainConfig holds the hyperparameters of an SGD run.
type TrainConfig struct {
	Epochs        int
	MiniBatchSize int
	LearningRate  float64
	// Reporter receives one EpochResult per completed epoch. Nil disables
	// reporting.
	Reporter Reporter
}

func (c TrainConfig) validate() error {
	if c.Epochs <= 0 {
		return fmt.Errorf("%w: epochs must be positive (got %d)", ErrInvalidHyperparameter, c.Epochs)
	}
	if c.MiniBatchSize <= 0 {
		return fmt.Errorf("%w: mini-batch size must be positive (got %d)", ErrInvalidHyperparameter, c.MiniBatchSize)
	}
	if !(c.LearningRate > 0) {
		return fmt.Errorf("%w: learning rate must be positive (got %v)", ErrInvalidHyperparameter, c.LearningRate)
	}
	return nil
}

// NewNetwork allocates a network with the given layer sizes, input layer
// first. Every weight and bias is drawn from N(0, 1) using rng, which is
// also the source for per-epoch shuffling in SGD. A nil rng is replaced by
// a time-seeded one.
func NewNetwork(sizes []int, rng *rand.Rand) (*Network, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 layers, got %d", ErrInvalidSizes, len(sizes))
	}
	for i, size := range sizes {
		if size <= 0 {
			return nil, fmt.Errorf("%w: layer %d has size %d", ErrInvalidSizes, i, size)
		}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	net := &Network{
		sizes:   append([]int(nil), sizes...),
		weights: make([]*mat.Dense, len(sizes)-1),
		biases:  make([]*mat.Dense, len(sizes)-1),
		rng:     rng,
	}
	for i := range net.weights {
		rows, cols := sizes[i+1], sizes[i]
		net.weights[i] = mat.NewDense(rows, cols, normalArray(rows*cols, rng))
		net.biases[i] = mat.NewDense(rows, 1, normalArray(rows, rng))
	}

	return net, nil
}

// Sizes returns a copy of the layer-size sequence.
func (net *Network) Sizes() []int {
	return append([]int(nil), net.sizes...)
}

// Weights returns deep copies of the weight matrices.
func (net *Network) Weights() []*mat.Dense {
	return copyAll(net.weights)
}

// Biases returns deep copies of the bias columns.
func (net *Network) Biases() []*mat.Dense {
	return copyAll(net.biases)
}

func copyAll(ms []*mat.Dense) []*mat.Dense {
	out := make([]*mat.Dense, len(ms))
	for i, m := range ms {
		out[i] = mat.DenseCopyOf(m)
	}
	return out
}

func (net *Network) inputSize() int {
	return net.sizes[0]
}

func (net *Network) outputSize() int {
	return net.sizes[len(net.sizes)-1]
}

func (net *Network) checkInput(input []float64) error {
	if len(input) != net.inputSize() {
		return &ShapeError{What: "input", Got: len(input), Want: net.inputSize()}
	}
	return nil
}

func (net *Network) checkTraining(ex TrainingExample) error {
	if err := net.checkInput(ex.Input); err != nil {
		return err
	}
	if len(ex.Target) != net.outputSize() {
		return &ShapeError{What: "target", Got: len(ex.Target), Want: net.outputSize()}
	}
	return nil
}

func (net *Network) checkTest(ex TestExample) error {
	if err := net.checkInput(ex.Input); err != nil {
		return err
	}
	if ex.Label < 0 || ex.Label >= net.outputSize() {
		return fmt.Errorf("%w: label %d, network has %d outputs", ErrLabelOutOfRange, ex.Label, net.outputSize())
	}
	return nil
}

// FeedForward returns the output activations for input.
func (net *Network) FeedForward(input []float64) ([]float64, error) {
	if err := net.checkInput(input); err != nil {
		return nil, err
	}
	return columnData(net.feedForward(column(input))), nil
}

func (net *Network) feedForward(activation *mat.Dense) *mat.Dense {
	for i := range net.weights {
		activation = SigmoidMatrix(add(dot(net.weights[i], activation), net.biases[i]))
	}
	return activation
}

// Cost returns the quadratic cost ||a - y||² / 2 of the network on ex.
func (net *Network) Cost(ex TrainingExample) (float64, error) {
	if err := net.checkTraining(ex); err != nil {
		return 0, err
	}
	return quadraticCost(net.feedForward(column(ex.Input)), column(ex.Target)), nil
}

// Backpropagate returns the gradient of the quadratic cost on ex with
// respect to every weight and bias. The network is not modified.
func (net *Network) Backpropagate(ex TrainingExample) (*Gradients, error) {
	grads, _, err := net.backprop(ex)
	return grads, err
}

// backprop also returns the cost of ex under the current parameters, which
// falls out of the forward pass for free.
func (net *Network) backprop(ex TrainingExample) (*Gradients, float64, error) {
	if err := net.checkTraining(ex); err != nil {
		return nil, 0, err
	}
	last := len(net.weights) - 1
	nablaW := make([]*mat.Dense, len(net.weights))
	nablaB := make([]*mat.Dense, len(net.biases))

	activation := column(ex.Input)
	activations := make([]*mat.Dense, 0, len(net.sizes))
	activations = append(activations, activation)
	zs := make([]*mat.Dense, 0, len(net.weights))
	for i := range net.weights {
		z := add(dot(net.weights[i], activation), net.biases[i])
		zs = append(zs, z)
		activation = SigmoidMatrix(z)
		activations = append(activations, activation)
	}

	target := column(ex.Target)
	delta := multiply(costDerivative(activation, target), SigmoidPrimeMatrix(zs[last]))
	nablaB[last] = delta
	nablaW[last] = dot(delta, activations[last].T())

	for l := last - 1; l >= 0; l-- {
		delta = multiply(dot(net.weights[l+1].T(), delta), SigmoidPrimeMatrix(zs[l]))
		nablaB[l] = delta
		nablaW[l] = dot(delta, activations[l].T())
	}

	return &Gradients{Weights: nablaW, Biases: nablaB}, quadraticCost(activation, target), nil
}

// UpdateMiniBatch takes one gradient-descent step using the gradient
// averaged over batch. Parameters are written only after every example's
// gradient has been computed, so a failing example leaves them untouched.
func (net *Network) UpdateMiniBatch(batch []TrainingExample, learningRate float64) error {
	_, err := net.updateMiniBatch(batch, learningRate)
	return err
}

// updateMiniBatch returns the summed cost of the batch before the update.
func (net *Network) updateMiniBatch(batch []TrainingExample, learningRate float64) (float64, error) {
	if len(batch) == 0 {
		return 0, ErrEmptyBatch
	}
	if !(learningRate > 0) {
		return 0, fmt.Errorf("%w: learning rate must be positive (got %v)", ErrInvalidHyperparameter, learningRate)
	}

	nablaW := make([]*mat.Dense, len(net.weights))
	nablaB := make([]*mat.Dense, len(net.biases))
	for i := range net.weights {
		nablaW[i] = zerosLike(net.weights[i])
		nablaB[i] = zerosLike(net.biases[i])
	}

	var cost float64
	for n, ex := range batch {
		delta, c, err := net.backprop(ex)
		if err != nil {
			return 0, fmt.Errorf("example %d: %w", n, err)
		}
		for i := range nablaW {
			nablaW[i].Add(nablaW[i], delta.Weights[i])
			nablaB[i].Add(nablaB[i], delta.Biases[i])
		}
		cost += c
	}

	step := learningRate / float64(len(batch))
	for i := range net.weights {
		net.weights[i].Sub(net.weights[i], scale(step, nablaW[i]))
		net.biases[i].Sub(net.biases[i], scale(step, nablaB[i]))
	}

	return cost, nil
}

// SGD trains the network with mini-batch stochastic gradient descent. Each
// epoch shuffles a private copy of trainingData, applies UpdateMiniBatch to
// consecutive batches and then, if testData is non-empty, evaluates it.
// ctx is checked between epochs.
func (net *Network) SGD(ctx context.Context, trainingData []TrainingExample, testData []TestExample, cfg TrainConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if len(trainingData) == 0 {
		return fmt.Errorf("%w: no training data", ErrInvalidHyperparameter)
	}
	for i, ex := range trainingData {
		if err := net.checkTraining(ex); err != nil {
			return fmt.Errorf("training example %d: %w", i, err)
		}
	}
	for i, ex := range testData {
		if err := net.checkTest(ex); err != nil {
			return fmt.Errorf("test example %d: %w", i, err)
		}
	}

	examples := make([]TrainingExample, len(trainingData))
	copy(examples, trainingData)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		var cost float64
		for _, batch := range epochBatches(net.rng, examples, cfg.MiniBatchSize) {
			c, err := net.updateMiniBatch(batch, cfg.LearningRate)
			if err != nil {
				return fmt.Errorf("epoch %d: %w", epoch, err)
			}
			cost += c
		}

		result := EpochResult{
			Epoch:     epoch,
			Epochs:    cfg.Epochs,
			Loss:      cost / float64(len(examples)),
			Total:     len(testData),
			TrainTime: time.Since(start),
		}
		if len(testData) > 0 {
			start = time.Now()
			correct, err := net.Evaluate(testData)
			if err != nil {
				return fmt.Errorf("epoch %d: evaluating: %w", epoch, err)
			}
			result.Correct = correct
			result.Evaluated = true
			result.EvalTime = time.Since(start)
		}

		if cfg.Reporter != nil {
			if err := cfg.Reporter.Report(result); err != nil {
				return fmt.Errorf("reporting epoch %d: %w", epoch, err)
			}
		}
	}

	return nil
}

// Evaluate returns how many test examples the network classifies correctly.
// The predicted class is the index of the largest output; ties go to the
// lowest index.
func (net *Network) Evaluate(testData []TestExample) (int, error) {
	var correct int
	for i, ex := range testData {
		if err := net.checkTest(ex); err != nil {
			return 0, fmt.Errorf("test example %d: %w", i, err)
		}
		output := columnData(net.feedForward(column(ex.Input)))
		if floats.MaxIdx(output) == ex.Label {
			correct++
		}
	}
	return correct, nil
}
