package sgd

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// AdamUpdate is Adam with bias correction (Kingma & Ba, 2015) and optional
// decoupled weight decay (AdamW, Loshchilov & Hutter, ICLR 2019):
//
//	m ← β1·m + (1−β1)·G
//	v ← β2·v + (1−β2)·G²
//	P ← P − α·m̂/(√v̂ + ε) − α·λ·P
//
// where m̂ = m/(1−β1^t) and v̂ = v/(1−β2^t).
type AdamUpdate struct {
	beta1       float64
	beta2       float64
	eps         float64
	weightDecay float64

	shape    accumulatorShape
	t        int64
	powBeta1 float64
	powBeta2 float64
	m, v     *mat.Dense

	// Working buffers to avoid allocations
	mhat, vhat, update *mat.Dense
}

// AdamOptions configures an AdamUpdate. Zero values select the conventional
// defaults β1 = 0.9, β2 = 0.999, ε = 1e-8 and no weight decay.
type AdamOptions struct {
	Beta1       float64 // β1 in [0,1)
	Beta2       float64 // β2 in [0,1)
	Eps         float64 // ε > 0
	WeightDecay float64 // decoupled λ >= 0
}

func NewAdamUpdate(opt AdamOptions) (*AdamUpdate, error) {
	u := &AdamUpdate{
		beta1:       ifPositiveOr(opt.Beta1, 0.9),
		beta2:       ifPositiveOr(opt.Beta2, 0.999),
		eps:         ifPositiveOr(opt.Eps, 1e-8),
		weightDecay: opt.WeightDecay,
		powBeta1:    1.0,
		powBeta2:    1.0,
	}
	if !(u.beta1 >= 0.0 && u.beta1 < 1.0) {
		return nil, invalidArgument("beta1", opt.Beta1, "outside allowed range [0, 1)")
	}
	if !(u.beta2 >= 0.0 && u.beta2 < 1.0) {
		return nil, invalidArgument("beta2", opt.Beta2, "outside allowed range [0, 1)")
	}
	if !(u.eps > 0.0) || math.IsInf(u.eps, 0) {
		return nil, invalidArgument("eps", opt.Eps, "must be > 0 and finite")
	}
	if !(u.weightDecay >= 0.0) || math.IsInf(u.weightDecay, 0) {
		return nil, invalidArgument("weightDecay", opt.WeightDecay, "must be >= 0 and finite")
	}
	return u, nil
}

func MustNewAdamUpdate(opt AdamOptions) *AdamUpdate {
	u, err := NewAdamUpdate(opt)
	if err != nil {
		panic(err)
	}
	return u
}

func ifPositiveOr(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

// CurrentStep returns t (starting from 1 after the first Update).
func (u *AdamUpdate) CurrentStep() int64 { return u.t }

func (u *AdamUpdate) Initialize(rows, cols int) {
	if !u.shape.initialize(rows, cols) {
		u.ResetState()
		return
	}
	u.m = mat.NewDense(rows, cols, nil)
	u.v = mat.NewDense(rows, cols, nil)
	u.mhat = mat.NewDense(rows, cols, nil)
	u.vhat = mat.NewDense(rows, cols, nil)
	u.update = mat.NewDense(rows, cols, nil)
	u.t = 0
	u.powBeta1 = 1.0
	u.powBeta2 = 1.0
}

func (u *AdamUpdate) Update(iterate *mat.Dense, stepSize float64, gradient *mat.Dense) error {
	views, err := u.shape.check(iterate, stepSize, gradient, u.m, u.v, u.mhat, u.vhat, u.update)
	if err != nil {
		return err
	}

	// t := t + 1
	u.t++

	// Update powers for bias correction factors: (1 - β^t)
	u.powBeta1 *= u.beta1
	u.powBeta2 *= u.beta2
	bc1 := 1.0 - u.powBeta1
	bc2 := 1.0 - u.powBeta2

	kernel := adamPureBLAS
	if u.shape.strategy == StrategyFusion {
		kernel = adamFusion
	}
	lockstep(views, func(s ...[]float64) {
		kernel(s[0], s[1], s[2], s[3], s[4], s[5], s[6], stepSize, u.weightDecay, bc1, bc2, u)
	})
	return nil
}

// ResetState clears moments and counters (keeps hyperparameters).
func (u *AdamUpdate) ResetState() {
	for _, m := range []*mat.Dense{u.m, u.v, u.mhat, u.vhat, u.update} {
		if m != nil {
			m.Zero()
		}
	}
	u.t = 0
	u.powBeta1 = 1.0
	u.powBeta2 = 1.0
}
