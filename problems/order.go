package problems

import (
	"golang.org/x/exp/rand"

	"github.com/n0madic/go-sgd"
)

// visitation is the order in which a separable problem visits its
// sub-functions. It is kept apart from the problem coefficients so a problem
// can be cloned for a parallel run by sharing the coefficients and creating a
// new visitation.
type visitation struct {
	order []int
	rnd   *rand.Rand
}

func newVisitation(n int, seed uint64) visitation {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return visitation{order: order, rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle replaces the visitation order with a new random permutation.
func (v *visitation) Shuffle() {
	v.order = v.rnd.Perm(len(v.order))
}

// Order returns a copy of the current visitation order.
func (v *visitation) Order() []int {
	return append([]int(nil), v.order...)
}

// NumFunctions returns the number of sub-functions.
func (v *visitation) NumFunctions() int {
	return len(v.order)
}

// window returns the sub-function indices of the batch window, panicking with
// a *sgd.BatchRangeError if it does not fit.
func (v *visitation) window(begin, batchSize int) []int {
	sgd.CheckBatch(begin, batchSize, len(v.order))
	return v.order[begin : begin+batchSize]
}
