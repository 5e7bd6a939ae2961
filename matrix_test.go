package sgd

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestMatrixView_BasicOperations tests basic MatrixView functionality
func TestMatrixView_BasicOperations(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	})

	mv, err := NewMatrixView(m)
	if err != nil {
		t.Fatalf("NewMatrixView failed: %v", err)
	}

	if n := len(mv.Segments()); n != 1 {
		t.Errorf("Expected a contiguous matrix to have 1 segment, got %d", n)
	}

	// Writes through segments are visible in the matrix
	mv.Segments()[0][4] = 50
	if m.At(1, 1) != 50 {
		t.Errorf("Expected At(1, 1) = 50 after segment write, got %f", m.At(1, 1))
	}
}

// TestMatrixView_ToFlat tests data conversion
func TestMatrixView_ToFlat(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	mv, err := NewMatrixView(m)
	if err != nil {
		t.Fatalf("NewMatrixView failed: %v", err)
	}

	flat := mv.ToFlat()
	expected := []float64{1, 2, 3, 4, 5, 6}
	if !slicesAlmostEqual(flat, expected, 0, 0) {
		t.Errorf("ToFlat: expected %v, got %v", expected, flat)
	}

	// The copy is independent of the matrix
	flat[0] = 100
	if m.At(0, 0) != 1 {
		t.Error("ToFlat returned storage shared with the matrix")
	}
}

// TestMatrixView_Strided tests views of sub-matrices whose stride exceeds
// their column count
func TestMatrixView_Strided(t *testing.T) {
	backing := mat.NewDense(3, 4, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	})
	sub := backing.Slice(0, 2, 1, 3).(*mat.Dense)

	mv, err := NewMatrixView(sub)
	if err != nil {
		t.Fatalf("NewMatrixView failed: %v", err)
	}
	if n := len(mv.Segments()); n != 2 {
		t.Errorf("Expected one segment per row, got %d", n)
	}
	expected := []float64{2, 3, 6, 7}
	if flat := mv.ToFlat(); !slicesAlmostEqual(flat, expected, 0, 0) {
		t.Errorf("ToFlat: expected %v, got %v", expected, flat)
	}

	// Writes through segments only touch the viewed elements
	for _, segment := range mv.Segments() {
		for i := range segment {
			segment[i] = 0
		}
	}
	want := mat.NewDense(3, 4, []float64{
		1, 0, 0, 4,
		5, 0, 0, 8,
		9, 10, 11, 12,
	})
	if !mat.Equal(want, backing) {
		t.Errorf("Segment writes on strided view:\n%v", mat.Formatted(backing))
	}

	// A single row slice is contiguous
	row := backing.Slice(2, 3, 0, 3).(*mat.Dense)
	rv, err := NewMatrixView(row)
	if err != nil {
		t.Fatalf("NewMatrixView failed: %v", err)
	}
	if n := len(rv.Segments()); n != 1 {
		t.Errorf("Expected a row slice to have 1 segment, got %d", n)
	}
}

// TestNewMatrixViews_Aligned tests that mixing contiguous and strided
// matrices yields aligned segments
func TestNewMatrixViews_Aligned(t *testing.T) {
	backing := mat.NewDense(2, 4, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	sub := backing.Slice(0, 2, 0, 2).(*mat.Dense)
	dense := mat.NewDense(2, 2, []float64{10, 20, 30, 40})

	views, err := NewMatrixViews(dense, sub)
	if err != nil {
		t.Fatalf("NewMatrixViews failed: %v", err)
	}
	if len(views[0].Segments()) != len(views[1].Segments()) {
		t.Fatalf("Segment counts differ: %d vs %d", len(views[0].Segments()), len(views[1].Segments()))
	}

	lockstep(views, func(s ...[]float64) {
		axpyVector(1, s[0], s[1])
	})
	want := mat.NewDense(2, 4, []float64{11, 22, 3, 4, 35, 46, 7, 8})
	if !mat.Equal(want, backing) {
		t.Errorf("lockstep axpy:\n%v", mat.Formatted(backing))
	}
}

// TestMatrixView_AllFinite tests the finiteness check
func TestMatrixView_AllFinite(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	if !denseAllFinite(m) {
		t.Error("Expected finite matrix")
	}
	m.Set(1, 0, math.Inf(1))
	if denseAllFinite(m) {
		t.Error("Expected +Inf to be detected")
	}
	m.Set(1, 0, math.NaN())
	if denseAllFinite(m) {
		t.Error("Expected NaN to be detected")
	}
}

// TestMatrixView_ErrorCases tests error handling in MatrixView
func TestMatrixView_ErrorCases(t *testing.T) {
	if _, err := NewMatrixView(nil); err == nil {
		t.Error("Expected error for nil matrix")
	}
	if _, err := NewMatrixView(&mat.Dense{}); err == nil {
		t.Error("Expected error for empty matrix")
	}
	if _, err := NewMatrixViews(); err == nil {
		t.Error("Expected error for no matrices")
	}

	_, err := NewMatrixViews(mat.NewDense(2, 2, nil), mat.NewDense(4, 1, nil))
	shapeErr, ok := err.(*ShapeError)
	if !ok {
		t.Fatalf("Expected *ShapeError for mismatched shapes, got %v", err)
	}
	if shapeErr.Rows != 4 || shapeErr.Cols != 1 || shapeErr.WantRows != 2 || shapeErr.WantCols != 2 {
		t.Errorf("Unexpected shape error: %v", shapeErr)
	}
}
