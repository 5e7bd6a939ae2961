package sgd

import (
	"math"

	"gonum.org/v1/gonum/blas/blas64"
)

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func allFinite(x []float64) bool {
	for _, v := range x {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// toVector creates a blas64.Vector from a float64 slice for BLAS operations
func toVector(data []float64) blas64.Vector {
	return blas64.Vector{N: len(data), Data: data, Inc: 1}
}

// BLAS-optimized vector operations
func scaleVector(alpha float64, x []float64) {
	blas64.Scal(alpha, toVector(x))
}

func axpyVector(alpha float64, x, y []float64) {
	// y = alpha*x + y
	blas64.Axpy(alpha, toVector(x), toVector(y))
}

func copyVector(x, y []float64) {
	blas64.Copy(toVector(x), toVector(y))
}

func sumSquares(x []float64) float64 {
	return blas64.Dot(toVector(x), toVector(x))
}

// quasiHyperbolicFusion performs the velocity and parameter updates in one pass:
// vel[i] = momentum*vel[i] + (1-momentum)*g[i]
// x[i]  -= step * ((1-v)*g[i] + v*vel[i])
func quasiHyperbolicFusion(x, g, vel []float64, step, v, momentum float64) {
	oneMinusMomentum := 1.0 - momentum
	oneMinusV := 1.0 - v

	for i := range x {
		gi := g[i]
		vel[i] = momentum*vel[i] + oneMinusMomentum*gi
		x[i] -= step * (oneMinusV*gi + v*vel[i])
	}
}

// quasiHyperbolicBLAS is quasiHyperbolicFusion expressed as four level-1 calls.
func quasiHyperbolicBLAS(x, g, vel []float64, step, v, momentum float64) {
	scaleVector(momentum, vel)
	axpyVector(1.0-momentum, g, vel)
	axpyVector(-step*(1.0-v), g, x)
	axpyVector(-step*v, vel, x)
}

// momentumFusion performs vel[i] = mu*vel[i] - step*g[i] followed by
// x[i] += vel[i], or x[i] += mu*vel[i] - step*g[i] when nesterov is set.
func momentumFusion(x, g, vel []float64, step, mu float64, nesterov bool) {
	for i := range x {
		gi := g[i]
		vel[i] = mu*vel[i] - step*gi
		if nesterov {
			x[i] += mu*vel[i] - step*gi
		} else {
			x[i] += vel[i]
		}
	}
}

func momentumBLAS(x, g, vel []float64, step, mu float64, nesterov bool) {
	scaleVector(mu, vel)
	axpyVector(-step, g, vel)
	if nesterov {
		axpyVector(mu, vel, x)
		axpyVector(-step, g, x)
		return
	}
	axpyVector(1.0, vel, x)
}

// elementWiseSquare computes x[i] = x[i]^2 for all i
func elementWiseSquare(x []float64) {
	for i := range x {
		x[i] *= x[i]
	}
}

// clampSqrtAddEps computes x[i] = sqrt(max(x[i], 0)) + eps for all i
func clampSqrtAddEps(x []float64, eps float64) {
	for i := range x {
		if x[i] < 0 {
			x[i] = 0
		}
		x[i] = math.Sqrt(x[i]) + eps
	}
}

// elementWiseDivide computes dst[i] = num[i] / den[i] for all i
func elementWiseDivide(dst, num, den []float64) {
	for i := range dst {
		dst[i] = num[i] / den[i]
	}
}

// momentUpdateFusion performs fused m and v moment updates in one pass:
// m[i] = beta1*m[i] + (1-beta1)*g[i]
// v[i] = beta2*v[i] + (1-beta2)*g[i]^2
func momentUpdateFusion(m, v, g []float64, beta1, beta2 float64) {
	oneMinusBeta1 := 1.0 - beta1
	oneMinusBeta2 := 1.0 - beta2

	for i := range m {
		gi := g[i]
		m[i] = beta1*m[i] + oneMinusBeta1*gi
		v[i] = beta2*v[i] + oneMinusBeta2*gi*gi
	}
}

// biasCorrectClampSqrtFusion performs fused bias correction + clamp + sqrt in one pass:
// result[i] = sqrt(max(src[i] / bc, 0)) + eps
func biasCorrectClampSqrtFusion(result, src []float64, bc, eps float64) {
	invBC := 1.0 / bc

	for i := range result {
		val := src[i] * invBC
		if val < 0 {
			val = 0
		}
		result[i] = math.Sqrt(val) + eps
	}
}

// adamPureBLAS updates one segment of an Adam step using level-1 calls for
// everything BLAS can express. mhat, vhat and update are scratch buffers.
func adamPureBLAS(x, g, m, v, mhat, vhat, update []float64, step, lambda, bc1, bc2 float64, u *AdamUpdate) {
	scaleVector(u.beta1, m)
	axpyVector(1.0-u.beta1, g, m)

	copyVector(g, vhat)
	elementWiseSquare(vhat)
	scaleVector(u.beta2, v)
	axpyVector(1.0-u.beta2, vhat, v)

	copyVector(m, mhat)
	copyVector(v, vhat)
	scaleVector(1.0/bc1, mhat)
	scaleVector(1.0/bc2, vhat)
	clampSqrtAddEps(vhat, u.eps)

	elementWiseDivide(update, mhat, vhat)
	applyDecoupledStep(x, update, step, lambda)
}

// adamFusion is adamPureBLAS with the moment updates and the bias-corrected
// square root fused into single passes.
func adamFusion(x, g, m, v, mhat, vhat, update []float64, step, lambda, bc1, bc2 float64, u *AdamUpdate) {
	momentUpdateFusion(m, v, g, u.beta1, u.beta2)

	copyVector(m, mhat)
	scaleVector(1.0/bc1, mhat)
	biasCorrectClampSqrtFusion(vhat, v, bc2, u.eps)

	elementWiseDivide(update, mhat, vhat)
	applyDecoupledStep(x, update, step, lambda)
}

// applyDecoupledStep computes x = (1 - step*lambda)*x - step*update.
func applyDecoupledStep(x, update []float64, step, lambda float64) {
	if lambda > 0 {
		scaleVector(1.0-step*lambda, x)
	}
	axpyVector(-step, update, x)
}
