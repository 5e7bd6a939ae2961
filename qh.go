package sgd

import (
	"gonum.org/v1/gonum/mat"
)

// QHUpdate is the quasi-hyperbolic momentum update (Ma & Yarats, ICLR 2019).
// It blends the plain gradient with an exponential moving average of past
// gradients:
//
//	V ← βV + (1−β)G
//	P ← P − α((1−v)G + vV)
//
// v = 0 recovers plain SGD and v = 1 recovers (normalized) classical momentum.
type QHUpdate struct {
	v        float64
	momentum float64

	shape    accumulatorShape
	velocity *mat.Dense
}

// Defaults used by DefaultQHUpdate.
const (
	DefaultQHV        = 0.7
	DefaultQHMomentum = 0.999
)

// NewQHUpdate creates a quasi-hyperbolic update with blend weight v in [0, 1]
// and momentum in [0, 1].
func NewQHUpdate(v, momentum float64) (*QHUpdate, error) {
	if !(v >= 0 && v <= 1) {
		return nil, invalidArgument("v", v, "outside allowed range [0, 1]")
	}
	if !(momentum >= 0 && momentum <= 1) {
		return nil, invalidArgument("momentum", momentum, "outside allowed range [0, 1]")
	}
	return &QHUpdate{v: v, momentum: momentum}, nil
}

func MustNewQHUpdate(v, momentum float64) *QHUpdate {
	u, err := NewQHUpdate(v, momentum)
	if err != nil {
		panic(err)
	}
	return u
}

// DefaultQHUpdate returns a QHUpdate with v = 0.7 and momentum = 0.999.
func DefaultQHUpdate() *QHUpdate {
	return MustNewQHUpdate(DefaultQHV, DefaultQHMomentum)
}

// V returns the blend weight.
func (u *QHUpdate) V() float64 { return u.v }

// Momentum returns the momentum coefficient.
func (u *QHUpdate) Momentum() float64 { return u.momentum }

// Velocity returns the velocity accumulator, nil before Initialize.
func (u *QHUpdate) Velocity() mat.Matrix {
	if u.velocity == nil {
		return nil
	}
	return u.velocity
}

func (u *QHUpdate) Initialize(rows, cols int) {
	if u.shape.initialize(rows, cols) {
		u.velocity = mat.NewDense(rows, cols, nil)
		return
	}
	u.ResetState()
}

func (u *QHUpdate) Update(iterate *mat.Dense, stepSize float64, gradient *mat.Dense) error {
	views, err := u.shape.check(iterate, stepSize, gradient, u.velocity)
	if err != nil {
		return err
	}
	kernel := quasiHyperbolicBLAS
	if u.shape.strategy == StrategyFusion {
		kernel = quasiHyperbolicFusion
	}
	lockstep(views, func(s ...[]float64) {
		kernel(s[0], s[1], s[2], stepSize, u.v, u.momentum)
	})
	return nil
}

// ResetState zeroes the velocity, keeping the hyperparameters.
func (u *QHUpdate) ResetState() {
	if u.velocity != nil {
		u.velocity.Zero()
	}
}
