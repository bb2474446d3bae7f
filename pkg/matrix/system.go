package matrix

import (
	"errors"
	"fmt"

	"github.com/edp1096/sparse"
)

var ErrIndex = errors.New("matrix index out of bounds")

// System is a small real-valued sparse linear system A x = b.
type System struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64
	solution []float64
	err      error
}

func NewSystem(size int) (*System, error) {
	config := &sparse.Configuration{
		Real:           true,
		Complex:        false,
		Expandable:     true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
		Annotate:       0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating %dx%d sparse matrix: %w", size, size, err)
	}

	return &System{
		Size:     size,
		matrix:   mat,
		rhs:      make([]float64, size+1), // 1-based indexing
		solution: make([]float64, size+1),
	}, nil
}

// AddElement accumulates into A[i][j]. The first out-of-range index is
// remembered and returned by Solve.
func (m *System) AddElement(i, j int, value float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		if m.err == nil {
			m.err = fmt.Errorf("element (%d,%d) of size %d: %w", i, j, m.Size, ErrIndex)
		}
		return
	}
	m.matrix.GetElement(int64(i), int64(j)).Real += value
}

func (m *System) AddRHS(i int, value float64) {
	if i <= 0 || i > m.Size {
		if m.err == nil {
			m.err = fmt.Errorf("rhs %d of size %d: %w", i, m.Size, ErrIndex)
		}
		return
	}
	m.rhs[i] += value
}

// Clear zeroes A and b so the same sparsity pattern can be reloaded.
func (m *System) Clear() {
	m.matrix.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
	m.err = nil
}

func (m *System) Solve() error {
	if m.err != nil {
		return m.err
	}

	if err := m.matrix.Factor(); err != nil {
		return fmt.Errorf("matrix factorization failed: %w", err)
	}

	solution, err := m.matrix.Solve(m.rhs)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %w", err)
	}
	m.solution = solution
	return nil
}

// Solution is 1-based; index 0 is unused.
func (m *System) Solution() []float64 {
	return m.solution
}

func (m *System) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
		m.matrix = nil
	}
}
