package sgd

import (
	"gonum.org/v1/gonum/mat"
)

// MatrixView provides the storage of a *mat.Dense as a list of contiguous
// segments without copying data. A matrix whose stride equals its column count
// is exposed as a single segment; a view into a wider matrix is exposed row by
// row.
//
// Views built together with NewMatrixViews share the same segmentation, so the
// i-th segment of every view covers the same elements. Element-wise kernels
// rely on this to walk several matrices in lockstep.
type MatrixView struct {
	segments [][]float64
	totalLen int
}

func isContiguous(m *mat.Dense) bool {
	raw := m.RawMatrix()
	return raw.Stride == raw.Cols || raw.Rows == 1
}

func newMatrixView(m *mat.Dense, perRow bool) *MatrixView {
	raw := m.RawMatrix()
	n := raw.Rows * raw.Cols
	if !perRow {
		return &MatrixView{segments: [][]float64{raw.Data[:n:n]}, totalLen: n}
	}
	segments := make([][]float64, raw.Rows)
	for r := 0; r < raw.Rows; r++ {
		off := r * raw.Stride
		segments[r] = raw.Data[off : off+raw.Cols : off+raw.Cols]
	}
	return &MatrixView{segments: segments, totalLen: n}
}

// NewMatrixView creates a MatrixView of m. m must not be empty.
func NewMatrixView(m *mat.Dense) (*MatrixView, error) {
	if m == nil || m.IsEmpty() {
		return nil, invalidArgument("matrix", "empty", "matrix must have non-zero dimensions")
	}
	return newMatrixView(m, !isContiguous(m)), nil
}

// NewMatrixViews creates aligned views of matrices that all share the shape of
// the first one. If any of them is not contiguous, all views are split per row.
func NewMatrixViews(matrices ...*mat.Dense) ([]*MatrixView, error) {
	if len(matrices) == 0 {
		return nil, invalidArgument("matrices", 0, "at least one matrix is required")
	}
	if matrices[0] == nil || matrices[0].IsEmpty() {
		return nil, invalidArgument("matrix", "empty", "matrix must have non-zero dimensions")
	}
	rows, cols := matrices[0].Dims()
	perRow := false
	for _, m := range matrices {
		if m == nil || m.IsEmpty() {
			return nil, invalidArgument("matrix", "empty", "matrix must have non-zero dimensions")
		}
		if r, c := m.Dims(); r != rows || c != cols {
			return nil, &ShapeError{Name: "matrix", WantRows: rows, WantCols: cols, Rows: r, Cols: c}
		}
		if !isContiguous(m) {
			perRow = true
		}
	}
	views := make([]*MatrixView, len(matrices))
	for i, m := range matrices {
		views[i] = newMatrixView(m, perRow)
	}
	return views, nil
}

// Segments returns the underlying storage segments. Writes through them
// modify the viewed matrix.
func (mv *MatrixView) Segments() [][]float64 {
	return mv.segments
}

// ToFlat creates a flat row-major copy of the viewed elements.
func (mv *MatrixView) ToFlat() []float64 {
	flat := make([]float64, 0, mv.totalLen)
	for _, segment := range mv.segments {
		flat = append(flat, segment...)
	}
	return flat
}

// AllFinite reports whether no element is NaN or infinite.
func (mv *MatrixView) AllFinite() bool {
	for _, segment := range mv.segments {
		if !allFinite(segment) {
			return false
		}
	}
	return true
}

// lockstep calls fn once per aligned segment of views.
func lockstep(views []*MatrixView, fn func(segments ...[]float64)) {
	segs := make([][]float64, len(views))
	for s := range views[0].segments {
		for i, v := range views {
			segs[i] = v.segments[s]
		}
		fn(segs...)
	}
}
