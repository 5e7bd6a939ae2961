package sgd

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// clamp helpers
func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return lo
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampBeta(x float64) float64 {
	// keep strictly below 1 to avoid division by zero in bias-correction
	return clamp(x, 0.0, 1.0-1e-12)
}

func buildGradient(dim int, mag float64) []float64 {
	g := make([]float64, dim)
	for i := 0; i < dim; i++ {
		// Deterministic pattern with extremes:
		// mixture of zeros, tiny, big, and alternating signs
		val := mag * math.Sin(float64(i)*1.731+0.123)
		if i%7 == 0 {
			val = mag * 1e-12
		}
		if i%11 == 0 {
			val = -mag
		}
		if i%13 == 0 {
			val = 0.0
		}
		g[i] = val
	}
	return g
}

func buildParams(dim int) []float64 {
	p := make([]float64, dim)
	for i := 0; i < dim; i++ {
		p[i] = 1e-2 * math.Cos(float64(i)*0.777+0.456)
	}
	return p
}

func column(data []float64) *mat.Dense {
	return mat.NewDense(len(data), 1, data)
}

// FuzzQHStability runs many quasi-hyperbolic steps with extreme hyperparameters
// and gradients. Parameters and velocity must stay finite and the velocity,
// an average of gradients, must stay within the gradient magnitude.
func FuzzQHStability(f *testing.F) {
	f.Add(8, 50, 1e-3, 0.7, 0.999, 1.0)
	f.Add(32, 80, 1e-6, 0.0, 0.0, 1e6)
	f.Add(600, 40, 1.0, 1.0, 1.0, 1e-12)
	f.Add(4, 10, 10.0, 0.5, 0.95, 1e3)
	f.Add(3, 5, 1e-4, 0.1, 0.5, 0.0)

	f.Fuzz(func(t *testing.T, dimIn, stepsIn int, stepIn, vIn, momentumIn, gradMagIn float64) {
		dim := int(clamp(float64(dimIn), 1.0, 1024.0))
		steps := int(clamp(float64(stepsIn), 1.0, 500.0))
		step := clamp(stepIn, 1e-8, 10.0)
		v := clamp(vIn, 0.0, 1.0)
		momentum := clamp(momentumIn, 0.0, 1.0)
		gradMag := clamp(gradMagIn, 0.0, 1e12)

		u, err := NewQHUpdate(v, momentum)
		if err != nil {
			t.Fatalf("NewQHUpdate error: %v", err)
		}
		params := column(buildParams(dim))
		grad := column(buildGradient(dim, gradMag))
		u.Initialize(dim, 1)

		for s := 0; s < steps; s++ {
			if err := u.Update(params, step, grad); err != nil {
				t.Fatalf("Update error at %d: %v", s, err)
			}
			if !denseAllFinite(params) {
				t.Fatalf("non-finite params at step %d", s)
			}
			for i := 0; i < dim; i++ {
				vel := u.Velocity().At(i, 0)
				if !isFinite(vel) || math.Abs(vel) > gradMag*(1+1e-12) {
					t.Fatalf("velocity[%d]=%g outside [-%g, %g] at step %d", i, vel, gradMag, gradMag, s)
				}
			}
		}
	})
}

// FuzzWNGradStability checks that the divisor b never decreases and that the
// iterate stays finite.
func FuzzWNGradStability(f *testing.F) {
	f.Add(8, 50, 1e-3, 1.0)
	f.Add(32, 80, 10.0, 1e12)
	f.Add(600, 40, 1.0, 1e-12)
	f.Add(3, 5, 0.5, 0.0)

	f.Fuzz(func(t *testing.T, dimIn, stepsIn int, stepIn, gradMagIn float64) {
		dim := int(clamp(float64(dimIn), 1.0, 1024.0))
		steps := int(clamp(float64(stepsIn), 1.0, 500.0))
		step := clamp(stepIn, 1e-8, 10.0)
		gradMag := clamp(gradMagIn, 0.0, 1e12)

		u := NewWNGradUpdate()
		params := column(buildParams(dim))
		grad := column(buildGradient(dim, gradMag))
		u.Initialize(dim, 1)

		prev := u.B()
		for s := 0; s < steps; s++ {
			if err := u.Update(params, step, grad); err != nil {
				t.Fatalf("Update error at %d: %v", s, err)
			}
			if b := u.B(); !isFinite(b) || b < prev {
				t.Fatalf("b went from %g to %g at step %d", prev, b, s)
			}
			prev = u.B()
			if !denseAllFinite(params) {
				t.Fatalf("non-finite params at step %d", s)
			}
		}
	})
}

// FuzzAdamOneStepMatchesManual verifies that a single Adam update matches an
// independent manual oracle (bias-corrected Adam + decoupled weight decay).
func FuzzAdamOneStepMatchesManual(f *testing.F) {
	f.Add(8, 1e-3, 0.9, 0.999, 1e-8, 1e-2, 1.0)
	f.Add(32, 1e-6, 0.0, 0.999999, 1e-8, 0.0, 1e6)
	f.Add(600, 1.0, 0.999999, 0.999999999, 1e-8, 1e-3, 1e-2)
	f.Add(4, 1e-4, 0.1, 0.999, 1e-6, 0.0, 1e2)

	f.Fuzz(func(t *testing.T, dimIn int, stepIn, b1In, b2In, epsIn, lambdaIn, gradMagIn float64) {
		dim := int(clamp(float64(dimIn), 1.0, 1024.0))
		step := clamp(stepIn, 1e-8, 1.0)
		b1 := clampBeta(b1In)
		b2 := clamp(b2In, 0.90, 1.0-1e-12)
		eps := clamp(epsIn, 1e-12, 1e-2)
		lambda := clamp(lambdaIn, 0.0, 0.9/step)
		gradMag := clamp(gradMagIn, 0.0, 1e9)

		// Zero betas select the defaults, so pin them away from zero.
		if b1 == 0 {
			b1 = 1e-3
		}
		u, err := NewAdamUpdate(AdamOptions{Beta1: b1, Beta2: b2, Eps: eps, WeightDecay: lambda})
		if err != nil {
			t.Fatalf("NewAdamUpdate error: %v", err)
		}
		params0 := buildParams(dim)
		grad := buildGradient(dim, gradMag)

		lib := column(clone(params0))
		u.Initialize(dim, 1)
		if err := u.Update(lib, step, column(clone(grad))); err != nil {
			t.Fatalf("Update error: %v", err)
		}

		man := clone(params0)
		manualAdam(dim, b1, b2, eps, lambda)(man, grad, step)

		if got := flat(lib); !slicesAlmostEqual(got, man, 1e-12, 1e-10) {
			t.Fatalf("one-step mismatch:\nlib=%v\nman=%v\n(α=%g β1=%g β2=%g ε=%g λ=%g)",
				got, man, step, b1, b2, eps, lambda)
		}
	})
}
