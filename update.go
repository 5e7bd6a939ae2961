package sgd

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// UpdatePolicy turns a gradient and a step size into an in-place change of the
// parameters, keeping whatever accumulator state (velocity, scaling) it needs
// between calls.
//
// The life cycle is Initialize once, then Update any number of times. Update
// before Initialize, or with matrices of another shape, returns an error
// instead of computing on wrong dimensions. Update must not modify gradient.
//
// Policies are not goroutine-safe; concurrent runs need independent
// instances.
type UpdatePolicy interface {
	// Initialize sizes the accumulators to rows×cols and zeroes them, also
	// when called again with the shape already in use.
	Initialize(rows, cols int)

	// Update moves iterate by one step of size stepSize along gradient.
	Update(iterate *mat.Dense, stepSize float64, gradient *mat.Dense) error
}

// accumulatorShape tracks the Initialize state shared by every policy.
type accumulatorShape struct {
	rows, cols  int
	initialized bool
	strategy    OptimizationStrategy
}

// initialize records the shape and reports whether the accumulators must be
// (re)allocated. Callers zero retained accumulators otherwise.
func (s *accumulatorShape) initialize(rows, cols int) bool {
	if rows <= 0 || cols <= 0 {
		panic(&ErrInvalidArgument{
			Name:    "shape",
			Value:   [2]int{rows, cols},
			Message: "rows and cols must be > 0",
		})
	}
	if s.initialized && s.rows == rows && s.cols == cols {
		return false
	}
	s.rows, s.cols = rows, cols
	s.initialized = true
	s.strategy = SelectOptimizationStrategy(rows*cols, DefaultAdaptiveConfig())
	return true
}

// check validates the arguments of Update and returns aligned views of
// iterate, gradient and the given accumulators, in that order.
func (s *accumulatorShape) check(iterate *mat.Dense, stepSize float64, gradient *mat.Dense, accumulators ...*mat.Dense) ([]*MatrixView, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	if !(stepSize > 0) || math.IsInf(stepSize, 0) {
		return nil, invalidArgument("stepSize", stepSize, "must be > 0 and finite")
	}
	if iterate == nil || gradient == nil {
		return nil, invalidArgument("iterate", nil, "iterate and gradient must be non-nil")
	}
	if r, c := iterate.Dims(); r != s.rows || c != s.cols {
		return nil, &ShapeError{Name: "iterate", WantRows: s.rows, WantCols: s.cols, Rows: r, Cols: c}
	}
	if r, c := gradient.Dims(); r != s.rows || c != s.cols {
		return nil, &ShapeError{Name: "gradient", WantRows: s.rows, WantCols: s.cols, Rows: r, Cols: c}
	}
	return NewMatrixViews(append([]*mat.Dense{iterate, gradient}, accumulators...)...)
}
