package problems

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/n0madic/go-sgd"
)

// LinearRegression is the least-squares objective
//
//	f(θ) = Σ_i (a_iᵀθ − y_i)²
//
// over the rows a_i of a predictor matrix, one sub-function per observation.
// Coordinates are the d×1 coefficient vector θ.
type LinearRegression struct {
	predictors *mat.Dense
	responses  []float64
	visitation
}

// NewLinearRegression creates the problem for predictors (n×d) and n
// responses. Shuffle draws from a source seeded with seed. The inputs are
// copied.
func NewLinearRegression(predictors *mat.Dense, responses []float64, seed uint64) (*LinearRegression, error) {
	if predictors == nil || predictors.IsEmpty() {
		return nil, errors.WithStack(&sgd.ErrInvalidArgument{Name: "predictors", Value: "empty", Message: "must have non-zero dimensions"})
	}
	n, _ := predictors.Dims()
	if len(responses) != n {
		return nil, errors.WithStack(&sgd.ErrInvalidArgument{Name: "responses", Value: len(responses), Message: "must have one response per predictor row"})
	}
	return &LinearRegression{
		predictors: mat.DenseCopyOf(predictors),
		responses:  append([]float64(nil), responses...),
		visitation: newVisitation(n, seed),
	}, nil
}

// WithSeed returns a problem sharing the data of l with its own visitation
// order seeded with seed. It is the way to give concurrent runs independent
// instances.
func (l *LinearRegression) WithSeed(seed uint64) *LinearRegression {
	return &LinearRegression{
		predictors: l.predictors,
		responses:  l.responses,
		visitation: newVisitation(len(l.responses), seed),
	}
}

// Dimension returns the number of coefficients d.
func (l *LinearRegression) Dimension() int {
	_, d := l.predictors.Dims()
	return d
}

// InitialPoint returns the zero coefficient vector.
func (l *LinearRegression) InitialPoint() *mat.Dense {
	return mat.NewDense(l.Dimension(), 1, nil)
}

func (l *LinearRegression) residual(theta []float64, i int) float64 {
	return floats.Dot(l.predictors.RawRowView(i), theta) - l.responses[i]
}

func (l *LinearRegression) Evaluate(coordinates *mat.Dense) float64 {
	checkLen("coordinates", coordinates, l.Dimension())
	theta := values(coordinates)
	var sum float64
	for i := range l.responses {
		r := l.residual(theta, i)
		sum += r * r
	}
	return sum
}

func (l *LinearRegression) EvaluateBatch(coordinates *mat.Dense, begin, batchSize int) float64 {
	checkLen("coordinates", coordinates, l.Dimension())
	theta := values(coordinates)
	var sum float64
	for _, i := range l.window(begin, batchSize) {
		r := l.residual(theta, i)
		sum += r * r
	}
	return sum
}

func (l *LinearRegression) Gradient(coordinates *mat.Dense, gradient *mat.Dense) {
	checkLen("coordinates", coordinates, l.Dimension())
	sgd.ShapeLike(gradient, coordinates)
	theta := values(coordinates)
	grad := make([]float64, len(theta))
	for i := range l.responses {
		floats.AddScaled(grad, 2*l.residual(theta, i), l.predictors.RawRowView(i))
	}
	store(gradient, grad)
}

func (l *LinearRegression) GradientBatch(coordinates *mat.Dense, begin int, gradient *mat.Dense, batchSize int) {
	checkLen("coordinates", coordinates, l.Dimension())
	window := l.window(begin, batchSize)
	sgd.ShapeLike(gradient, coordinates)
	theta := values(coordinates)
	grad := make([]float64, len(theta))
	for _, i := range window {
		floats.AddScaled(grad, 2*l.residual(theta, i), l.predictors.RawRowView(i))
	}
	store(gradient, grad)
}
