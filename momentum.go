package sgd

import (
	"gonum.org/v1/gonum/mat"
)

// VanillaUpdate is plain gradient descent: P ← P − αG. It keeps no history.
type VanillaUpdate struct {
	shape accumulatorShape
}

func NewVanillaUpdate() *VanillaUpdate {
	return &VanillaUpdate{}
}

func (u *VanillaUpdate) Initialize(rows, cols int) {
	u.shape.initialize(rows, cols)
}

func (u *VanillaUpdate) Update(iterate *mat.Dense, stepSize float64, gradient *mat.Dense) error {
	views, err := u.shape.check(iterate, stepSize, gradient)
	if err != nil {
		return err
	}
	lockstep(views, func(s ...[]float64) {
		axpyVector(-stepSize, s[1], s[0])
	})
	return nil
}

// ResetState is a no-op; VanillaUpdate has no history.
func (u *VanillaUpdate) ResetState() {}

// MomentumUpdate is classical (heavy-ball) momentum:
//
//	V ← μV − αG
//	P ← P + V
//
// With nesterov set (see NewNesterovMomentumUpdate) the parameters look ahead
// along the new velocity instead: P ← P + μV − αG.
type MomentumUpdate struct {
	momentum float64
	nesterov bool

	shape    accumulatorShape
	velocity *mat.Dense
}

// NewMomentumUpdate creates a classical momentum update with momentum in [0, 1).
func NewMomentumUpdate(momentum float64) (*MomentumUpdate, error) {
	if !(momentum >= 0 && momentum < 1) {
		return nil, invalidArgument("momentum", momentum, "outside allowed range [0, 1)")
	}
	return &MomentumUpdate{momentum: momentum}, nil
}

func MustNewMomentumUpdate(momentum float64) *MomentumUpdate {
	u, err := NewMomentumUpdate(momentum)
	if err != nil {
		panic(err)
	}
	return u
}

// NewNesterovMomentumUpdate creates a Nesterov accelerated momentum update.
func NewNesterovMomentumUpdate(momentum float64) (*MomentumUpdate, error) {
	u, err := NewMomentumUpdate(momentum)
	if err != nil {
		return nil, err
	}
	u.nesterov = true
	return u, nil
}

func MustNewNesterovMomentumUpdate(momentum float64) *MomentumUpdate {
	u, err := NewNesterovMomentumUpdate(momentum)
	if err != nil {
		panic(err)
	}
	return u
}

// Momentum returns the momentum coefficient.
func (u *MomentumUpdate) Momentum() float64 { return u.momentum }

// Nesterov reports whether the update uses Nesterov look-ahead.
func (u *MomentumUpdate) Nesterov() bool { return u.nesterov }

func (u *MomentumUpdate) Initialize(rows, cols int) {
	if u.shape.initialize(rows, cols) {
		u.velocity = mat.NewDense(rows, cols, nil)
		return
	}
	u.ResetState()
}

func (u *MomentumUpdate) Update(iterate *mat.Dense, stepSize float64, gradient *mat.Dense) error {
	views, err := u.shape.check(iterate, stepSize, gradient, u.velocity)
	if err != nil {
		return err
	}
	kernel := momentumBLAS
	if u.shape.strategy == StrategyFusion {
		kernel = momentumFusion
	}
	lockstep(views, func(s ...[]float64) {
		kernel(s[0], s[1], s[2], stepSize, u.momentum, u.nesterov)
	})
	return nil
}

// ResetState zeroes the velocity, keeping the hyperparameters.
func (u *MomentumUpdate) ResetState() {
	if u.velocity != nil {
		u.velocity.Zero()
	}
}
