package m

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sigmoid is the logistic function 1 / (1 + e^-z).
func Sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// SigmoidPrime is the derivative of Sigmoid at z.
func SigmoidPrime(z float64) float64 {
	s := Sigmoid(z)
	return s * (1 - s)
}

// activate and deactivate have the shape Dense.Apply expects.
func activate(i, j int, z float64) float64 {
	return Sigmoid(z)
}

func deactivate(i, j int, z float64) float64 {
	return SigmoidPrime(z)
}

// SigmoidMatrix applies Sigmoid element-wise and returns a new matrix.
func SigmoidMatrix(z mat.Matrix) *mat.Dense {
	return apply(activate, z)
}

// SigmoidPrimeMatrix applies SigmoidPrime element-wise and returns a new matrix.
func SigmoidPrimeMatrix(z mat.Matrix) *mat.Dense {
	return apply(deactivate, z)
}
