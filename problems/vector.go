package problems

import (
	"gonum.org/v1/gonum/mat"

	"github.com/n0madic/go-sgd"
)

// values returns the elements of m in row-major order. The result shares
// storage with m when m is contiguous and must not be modified.
func values(m *mat.Dense) []float64 {
	raw := m.RawMatrix()
	n := raw.Rows * raw.Cols
	if raw.Stride == raw.Cols || raw.Rows == 1 {
		return raw.Data[:n:n]
	}
	out := make([]float64, 0, n)
	for r := 0; r < raw.Rows; r++ {
		out = append(out, raw.Data[r*raw.Stride:r*raw.Stride+raw.Cols]...)
	}
	return out
}

// store copies row-major data into m, which must hold len(data) elements.
func store(m *mat.Dense, data []float64) {
	raw := m.RawMatrix()
	for r := 0; r < raw.Rows; r++ {
		copy(raw.Data[r*raw.Stride:r*raw.Stride+raw.Cols], data[r*raw.Cols:(r+1)*raw.Cols])
	}
}

// checkLen panics with a *sgd.ShapeError unless m holds want elements.
func checkLen(name string, m *mat.Dense, want int) {
	r, c := m.Dims()
	if r*c != want {
		panic(&sgd.ShapeError{Name: name, WantRows: want, WantCols: 1, Rows: r, Cols: c})
	}
}

func column(data ...float64) *mat.Dense {
	return mat.NewDense(len(data), 1, append([]float64(nil), data...))
}
