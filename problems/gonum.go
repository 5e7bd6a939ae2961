// Package problems provides objective functions for exercising the sgd
// optimizers: analytic test functions with known minima and separable
// least-squares style problems with seeded shuffling.
//
// Coordinates are column vectors (D×1 matrices); any other shape with the
// right number of elements is accepted and read in row-major order.
package problems

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/functions"

	"github.com/n0madic/go-sgd"
)

// Func is the shape of the test functions in gonum's optimize/functions
// package.
type Func interface {
	Func(x []float64) float64
	Grad(grad, x []float64)
}

// GonumFunction adapts a gonum test function to sgd.SeparableFunction with a
// single sub-function.
type GonumFunction struct {
	f       Func
	initial []float64
}

func NewGonumFunction(f Func, initial []float64) *GonumFunction {
	return &GonumFunction{f: f, initial: append([]float64(nil), initial...)}
}

// NewBeale returns Beale's function, minimum 0 at (3, 0.5), starting at
// (-4.5, 4.5).
func NewBeale() *GonumFunction {
	return NewGonumFunction(functions.Beale{}, []float64{-4.5, 4.5})
}

// NewExtendedRosenbrock returns the dim-dimensional extended Rosenbrock
// function, minimum 0 at (1, …, 1), starting at (-1.2, 1, -1.2, 1, …).
func NewExtendedRosenbrock(dim int) *GonumFunction {
	initial := make([]float64, dim)
	for i := range initial {
		initial[i] = 1
		if i%2 == 0 {
			initial[i] = -1.2
		}
	}
	return NewGonumFunction(functions.ExtendedRosenbrock{}, initial)
}

// InitialPoint returns a fresh copy of the standard starting point.
func (g *GonumFunction) InitialPoint() *mat.Dense {
	return column(g.initial...)
}

func (g *GonumFunction) NumFunctions() int { return 1 }

func (g *GonumFunction) Shuffle() {}

func (g *GonumFunction) Evaluate(coordinates *mat.Dense) float64 {
	return g.f.Func(values(coordinates))
}

func (g *GonumFunction) Gradient(coordinates *mat.Dense, gradient *mat.Dense) {
	sgd.ShapeLike(gradient, coordinates)
	x := values(coordinates)
	grad := make([]float64, len(x))
	g.f.Grad(grad, x)
	store(gradient, grad)
}

func (g *GonumFunction) EvaluateBatch(coordinates *mat.Dense, begin, batchSize int) float64 {
	sgd.CheckBatch(begin, batchSize, 1)
	return g.Evaluate(coordinates)
}

func (g *GonumFunction) GradientBatch(coordinates *mat.Dense, begin int, gradient *mat.Dense, batchSize int) {
	sgd.CheckBatch(begin, batchSize, 1)
	g.Gradient(coordinates, gradient)
}
