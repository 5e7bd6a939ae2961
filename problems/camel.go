package problems

import (
	"gonum.org/v1/gonum/mat"

	"github.com/n0madic/go-sgd"
)

// ThreeHumpCamel is the three-hump camel function
//
//	f(x, y) = 2x² − 1.05x⁴ + x⁶/6 + xy + y²
//
// with global minimum 0 at (0, 0) and two further local minima.
type ThreeHumpCamel struct{}

// InitialPoint returns (-4.5, 4.5).
func (ThreeHumpCamel) InitialPoint() *mat.Dense { return column(-4.5, 4.5) }

func (ThreeHumpCamel) NumFunctions() int { return 1 }

func (ThreeHumpCamel) Shuffle() {}

func (ThreeHumpCamel) Evaluate(coordinates *mat.Dense) float64 {
	checkLen("coordinates", coordinates, 2)
	p := values(coordinates)
	x, y := p[0], p[1]
	x2 := x * x
	return 2*x2 - 1.05*x2*x2 + x2*x2*x2/6 + x*y + y*y
}

func (ThreeHumpCamel) Gradient(coordinates *mat.Dense, gradient *mat.Dense) {
	checkLen("coordinates", coordinates, 2)
	sgd.ShapeLike(gradient, coordinates)
	p := values(coordinates)
	x, y := p[0], p[1]
	x2 := x * x
	store(gradient, []float64{
		4*x - 4.2*x2*x + x2*x2*x + y,
		x + 2*y,
	})
}

func (c ThreeHumpCamel) EvaluateBatch(coordinates *mat.Dense, begin, batchSize int) float64 {
	sgd.CheckBatch(begin, batchSize, 1)
	return c.Evaluate(coordinates)
}

func (c ThreeHumpCamel) GradientBatch(coordinates *mat.Dense, begin int, gradient *mat.Dense, batchSize int) {
	sgd.CheckBatch(begin, batchSize, 1)
	c.Gradient(coordinates, gradient)
}
