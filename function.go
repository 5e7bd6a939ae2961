package sgd

import (
	"gonum.org/v1/gonum/mat"
)

// Function is an objective that can be evaluated and differentiated as a
// whole.
type Function interface {
	// Evaluate returns the objective value at coordinates. It must not modify
	// coordinates.
	Evaluate(coordinates *mat.Dense) float64

	// Gradient overwrites gradient with the gradient of the objective at
	// coordinates. An empty gradient receives the shape of coordinates; a
	// non-empty one must already have it.
	Gradient(coordinates *mat.Dense, gradient *mat.Dense)
}

// SeparableFunction is an objective expressible as the sum of NumFunctions
// sub-functions, so it can be evaluated over a batch window
// [begin, begin+batchSize) of them.
//
// Indices in a batch window refer to the function's visitation order, not to
// the sub-functions directly; Shuffle replaces that order. Batched results are
// sums over the window, never means.
//
// A batch window outside [0, NumFunctions) is a contract violation and makes
// EvaluateBatch and GradientBatch panic with a *BatchRangeError.
type SeparableFunction interface {
	Function

	// NumFunctions returns the number of sub-functions, 1 when the objective
	// is not separable.
	NumFunctions() int

	// Shuffle replaces the visitation order. It never changes the value of
	// the full objective.
	Shuffle()

	// EvaluateBatch returns the sum of the batchSize sub-function values
	// starting at visitation index begin.
	EvaluateBatch(coordinates *mat.Dense, begin, batchSize int) float64

	// GradientBatch overwrites gradient with the sum of the gradients of the
	// batchSize sub-functions starting at visitation index begin.
	GradientBatch(coordinates *mat.Dense, begin int, gradient *mat.Dense, batchSize int)
}

// CheckBatch panics with a *BatchRangeError unless the batch window
// [begin, begin+batchSize) is non-empty and lies inside [0, numFunctions).
func CheckBatch(begin, batchSize, numFunctions int) {
	if begin < 0 || batchSize < 1 || begin > numFunctions-batchSize {
		panic(&BatchRangeError{Begin: begin, BatchSize: batchSize, NumFunctions: numFunctions})
	}
}

// ShapeLike zeroes gradient and gives it the shape of coordinates. It panics
// with a *ShapeError when gradient is not empty and has a different shape.
func ShapeLike(gradient, coordinates *mat.Dense) {
	r, c := coordinates.Dims()
	if gradient.IsEmpty() {
		gradient.ReuseAs(r, c)
	}
	if gr, gc := gradient.Dims(); gr != r || gc != c {
		panic(&ShapeError{Name: "gradient", WantRows: r, WantCols: c, Rows: gr, Cols: gc})
	}
	gradient.Zero()
}

// Separable returns f unchanged when it already is a SeparableFunction and
// otherwise wraps it as a single sub-function whose batched calls delegate to
// the full ones.
func Separable(f Function) SeparableFunction {
	if sf, ok := f.(SeparableFunction); ok {
		return sf
	}
	return wholeFunction{f}
}

type wholeFunction struct {
	Function
}

func (wholeFunction) NumFunctions() int { return 1 }

func (wholeFunction) Shuffle() {}

func (w wholeFunction) EvaluateBatch(coordinates *mat.Dense, begin, batchSize int) float64 {
	CheckBatch(begin, batchSize, 1)
	return w.Evaluate(coordinates)
}

func (w wholeFunction) GradientBatch(coordinates *mat.Dense, begin int, gradient *mat.Dense, batchSize int) {
	CheckBatch(begin, batchSize, 1)
	w.Gradient(coordinates, gradient)
}
