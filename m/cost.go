package m

import "gonum.org/v1/gonum/mat"

// quadraticCost is ||output - target||² / 2.
func quadraticCost(output, target mat.Matrix) float64 {
	diff := subtract(output, target)
	n := mat.Norm(diff, 2)
	return 0.5 * n * n
}

// costDerivative is the gradient of the quadratic cost with respect to the
// output activations.
func costDerivative(output, target mat.Matrix) *mat.Dense {
	return subtract(output, target)
}
