package sgd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/optimize"
)

func TestNewConverger(t *testing.T) {
	tests := map[string]struct {
		tolerance  float64
		patience   int
		objectives []float64
		// index of the first checkpoint reporting convergence, -1 for none
		want int
	}{
		"first checkpoint never converges": {
			tolerance:  1,
			patience:   1,
			objectives: []float64{5},
			want:       -1,
		},
		"converges on small decrease": {
			tolerance:  1e-3,
			patience:   1,
			objectives: []float64{5, 4, 3.9999},
			want:       2,
		},
		"patience requires consecutive checkpoints": {
			tolerance:  1e-3,
			patience:   3,
			objectives: []float64{5, 5, 5, 4, 4, 4, 4},
			want:       6,
		},
		"increase is not progress": {
			tolerance:  1e-3,
			patience:   2,
			objectives: []float64{1, 2, 3},
			want:       2,
		},
		"negative tolerance never converges": {
			tolerance:  -1,
			patience:   1,
			objectives: []float64{1, 1, 1, 1},
			want:       -1,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := newConverger(tc.tolerance, tc.patience)
			c.Init(2)
			got := -1
			for i, f := range tc.objectives {
				if c.Converged(&optimize.Location{F: f}) == optimize.FunctionConvergence {
					got = i
					break
				}
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewConverger_InitResets(t *testing.T) {
	c := newConverger(1, 2)
	converged := func(f float64) bool {
		return c.Converged(&optimize.Location{F: f}) == optimize.FunctionConvergence
	}
	c.Init(1)
	assert.False(t, converged(1))
	assert.False(t, converged(1))

	c.Init(1)
	assert.False(t, converged(1))
	assert.False(t, converged(1))
	assert.True(t, converged(1))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "FunctionConvergence", FunctionConvergence.String())
	assert.Equal(t, "NumericalFailure", NumericalFailure.String())
	assert.Equal(t, "Unknown", Status(42).String())

	assert.ErrorIs(t, NumericalFailure.Err(), ErrNumericalFailure)
	for _, s := range []Status{NotTerminated, FunctionConvergence, IterationLimit, Stopped} {
		assert.NoError(t, s.Err())
	}
}
