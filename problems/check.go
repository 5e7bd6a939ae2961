package problems

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/n0madic/go-sgd"
)

func withinTolerance(a, b, tol float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tol*scale
}

// CheckGradient compares the analytic gradient of f at x with a central
// finite-difference approximation of Evaluate. Components must agree within
// tol relative to max(1, |analytic|, |numeric|).
func CheckGradient(f sgd.Function, x *mat.Dense, tol float64) error {
	view, err := sgd.NewMatrixView(x)
	if err != nil {
		return errors.Wrap(err, "gradient check point")
	}
	point := view.ToFlat()
	r, c := x.Dims()
	trial := mat.NewDense(r, c, nil)
	numeric := fd.Gradient(nil, func(p []float64) float64 {
		store(trial, p)
		return f.Evaluate(trial)
	}, point, &fd.Settings{Formula: fd.Central})

	var gradient mat.Dense
	f.Gradient(x, &gradient)
	analytic := values(&gradient)
	for i := range numeric {
		if !withinTolerance(analytic[i], numeric[i], tol) {
			return errors.Errorf("gradient component %d: analytic %v, central difference %v", i, analytic[i], numeric[i])
		}
	}
	return nil
}

// CheckBatchAdditivity verifies that the unit batches of f sum to its full
// objective and gradient at x, within tol relative to max(1, |full|).
func CheckBatchAdditivity(f sgd.SeparableFunction, x *mat.Dense, tol float64) error {
	r, c := x.Dims()
	var (
		sum       float64
		full      mat.Dense
		batch     = mat.NewDense(r, c, nil)
		summed    = mat.NewDense(r, c, nil)
		numBatch  = f.NumFunctions()
		objective = f.Evaluate(x)
	)
	for i := 0; i < numBatch; i++ {
		sum += f.EvaluateBatch(x, i, 1)
		f.GradientBatch(x, i, batch, 1)
		summed.Add(summed, batch)
	}
	if !withinTolerance(sum, objective, tol) {
		return errors.Errorf("sum of %d batch objectives is %v, full objective is %v", numBatch, sum, objective)
	}
	f.Gradient(x, &full)
	want, got := values(&full), values(summed)
	for i := range want {
		if !withinTolerance(got[i], want[i], tol) {
			return errors.Errorf("gradient component %d: batch sum %v, full gradient %v", i, got[i], want[i])
		}
	}
	return nil
}
