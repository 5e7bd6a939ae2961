package problems

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/n0madic/go-sgd"
)

// LevyN13 is Lévy function N.13
//
//	f(x, y) = sin²(3πx) + (x−1)²(1 + sin²(3πy)) + (y−1)²(1 + sin²(2πy))
//
// with global minimum 0 at (1, 1) surrounded by many local minima.
type LevyN13 struct{}

// InitialPoint returns (-10, 10).
func (LevyN13) InitialPoint() *mat.Dense { return column(-10, 10) }

func (LevyN13) NumFunctions() int { return 1 }

func (LevyN13) Shuffle() {}

func (LevyN13) Evaluate(coordinates *mat.Dense) float64 {
	checkLen("coordinates", coordinates, 2)
	p := values(coordinates)
	x, y := p[0], p[1]
	s3x := math.Sin(3 * math.Pi * x)
	s3y := math.Sin(3 * math.Pi * y)
	s2y := math.Sin(2 * math.Pi * y)
	return s3x*s3x + (x-1)*(x-1)*(1+s3y*s3y) + (y-1)*(y-1)*(1+s2y*s2y)
}

func (LevyN13) Gradient(coordinates *mat.Dense, gradient *mat.Dense) {
	checkLen("coordinates", coordinates, 2)
	sgd.ShapeLike(gradient, coordinates)
	p := values(coordinates)
	x, y := p[0], p[1]
	s3x, c3x := math.Sincos(3 * math.Pi * x)
	s3y, c3y := math.Sincos(3 * math.Pi * y)
	s2y, c2y := math.Sincos(2 * math.Pi * y)
	store(gradient, []float64{
		6*math.Pi*s3x*c3x + 2*(x-1)*(1+s3y*s3y),
		6*math.Pi*(x-1)*(x-1)*s3y*c3y + 2*(y-1)*(1+s2y*s2y) + 4*math.Pi*(y-1)*(y-1)*s2y*c2y,
	})
}

func (l LevyN13) EvaluateBatch(coordinates *mat.Dense, begin, batchSize int) float64 {
	sgd.CheckBatch(begin, batchSize, 1)
	return l.Evaluate(coordinates)
}

func (l LevyN13) GradientBatch(coordinates *mat.Dense, begin int, gradient *mat.Dense, batchSize int) {
	sgd.CheckBatch(begin, batchSize, 1)
	l.Gradient(coordinates, gradient)
}
