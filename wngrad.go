package sgd

import (
	"gonum.org/v1/gonum/mat"
)

// WNGradUpdate learns the learning rate from gradient observations (Wu, Ward &
// Bottou, 2018). A single scalar b, starting at 1, grows with the squared
// gradient norm and divides the step:
//
//	b ← b + α²‖G‖²/b
//	P ← P − αG/b
//
// b never decreases, so the effective learning rate α/b never increases and no
// decay schedule is needed.
type WNGradUpdate struct {
	shape accumulatorShape
	b     float64
}

func NewWNGradUpdate() *WNGradUpdate {
	return &WNGradUpdate{b: 1}
}

// B returns the current learning-rate divisor.
func (u *WNGradUpdate) B() float64 { return u.b }

func (u *WNGradUpdate) Initialize(rows, cols int) {
	u.shape.initialize(rows, cols)
	u.b = 1
}

func (u *WNGradUpdate) Update(iterate *mat.Dense, stepSize float64, gradient *mat.Dense) error {
	views, err := u.shape.check(iterate, stepSize, gradient)
	if err != nil {
		return err
	}
	var normSq float64
	for _, segment := range views[1].Segments() {
		normSq += sumSquares(segment)
	}
	u.b += stepSize * stepSize / u.b * normSq

	scale := -stepSize / u.b
	lockstep(views, func(s ...[]float64) {
		axpyVector(scale, s[1], s[0])
	})
	return nil
}

// ResetState sets b back to 1.
func (u *WNGradUpdate) ResetState() {
	u.b = 1
}
