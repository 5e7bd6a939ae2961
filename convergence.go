package sgd

import (
	"gonum.org/v1/gonum/optimize"
)

// newConverger returns the checkpoint convergence test: no significant
// decrease of the objective (by more than tolerance) for patience consecutive
// checkpoints. A negative tolerance never converges.
func newConverger(tolerance float64, patience int) optimize.Converger {
	if tolerance < 0 {
		return optimize.NeverTerminate{}
	}
	return &optimize.FunctionConverge{Absolute: tolerance, Iterations: patience}
}
