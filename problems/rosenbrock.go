package problems

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/n0madic/go-sgd"
)

// GeneralizedRosenbrock is the separable n-dimensional Rosenbrock function
//
//	f(x) = Σ_{i=0}^{n−2} 100(x_{i+1} − x_i²)² + (1 − x_i)²
//
// with one sub-function per term, so NumFunctions is n−1. The minimum is 0 at
// (1, …, 1).
type GeneralizedRosenbrock struct {
	dim int
	visitation
}

// NewGeneralizedRosenbrock creates the dim-dimensional function (dim >= 2)
// whose Shuffle draws from a source seeded with seed.
func NewGeneralizedRosenbrock(dim int, seed uint64) (*GeneralizedRosenbrock, error) {
	if dim < 2 {
		return nil, errors.WithStack(&sgd.ErrInvalidArgument{Name: "dim", Value: dim, Message: "must be >= 2"})
	}
	return &GeneralizedRosenbrock{dim: dim, visitation: newVisitation(dim-1, seed)}, nil
}

// WithSeed returns a function of the same dimension with its own visitation
// order seeded with seed.
func (g *GeneralizedRosenbrock) WithSeed(seed uint64) *GeneralizedRosenbrock {
	return &GeneralizedRosenbrock{dim: g.dim, visitation: newVisitation(g.dim-1, seed)}
}

// InitialPoint returns (-1.2, 1, -1.2, 1, …).
func (g *GeneralizedRosenbrock) InitialPoint() *mat.Dense {
	x := make([]float64, g.dim)
	for i := range x {
		x[i] = 1
		if i%2 == 0 {
			x[i] = -1.2
		}
	}
	return column(x...)
}

func rosenbrockTerm(x []float64, i int) float64 {
	a := x[i+1] - x[i]*x[i]
	b := 1 - x[i]
	return 100*a*a + b*b
}

func rosenbrockTermGrad(grad, x []float64, i int) {
	a := x[i+1] - x[i]*x[i]
	grad[i] += -400*x[i]*a - 2*(1-x[i])
	grad[i+1] += 200 * a
}

func (g *GeneralizedRosenbrock) Evaluate(coordinates *mat.Dense) float64 {
	checkLen("coordinates", coordinates, g.dim)
	x := values(coordinates)
	var sum float64
	for i := 0; i < g.dim-1; i++ {
		sum += rosenbrockTerm(x, i)
	}
	return sum
}

func (g *GeneralizedRosenbrock) EvaluateBatch(coordinates *mat.Dense, begin, batchSize int) float64 {
	checkLen("coordinates", coordinates, g.dim)
	x := values(coordinates)
	var sum float64
	for _, i := range g.window(begin, batchSize) {
		sum += rosenbrockTerm(x, i)
	}
	return sum
}

func (g *GeneralizedRosenbrock) Gradient(coordinates *mat.Dense, gradient *mat.Dense) {
	checkLen("coordinates", coordinates, g.dim)
	sgd.ShapeLike(gradient, coordinates)
	x := values(coordinates)
	grad := make([]float64, g.dim)
	for i := 0; i < g.dim-1; i++ {
		rosenbrockTermGrad(grad, x, i)
	}
	store(gradient, grad)
}

func (g *GeneralizedRosenbrock) GradientBatch(coordinates *mat.Dense, begin int, gradient *mat.Dense, batchSize int) {
	checkLen("coordinates", coordinates, g.dim)
	window := g.window(begin, batchSize)
	sgd.ShapeLike(gradient, coordinates)
	x := values(coordinates)
	grad := make([]float64, g.dim)
	for _, i := range window {
		rosenbrockTermGrad(grad, x, i)
	}
	store(gradient, grad)
}
