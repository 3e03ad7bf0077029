package fem

import "fmt"

// Mesh is a uniform partition of [0, Length] into N cells.
type Mesh struct {
	N      int
	Length float64
	h      float64
}

func NewIntervalMesh(cells int, length float64) (*Mesh, error) {
	if cells < 1 || !(length > 0) {
		return nil, fmt.Errorf("%w: cells=%d length=%g", ErrInvalidMesh, cells, length)
	}
	return &Mesh{N: cells, Length: length, h: length / float64(cells)}, nil
}

// NewUnitInterval is NewIntervalMesh on [0, 1].
func NewUnitInterval(cells int) (*Mesh, error) {
	return NewIntervalMesh(cells, 1.0)
}

func (m *Mesh) Cells() int        { return m.N }
func (m *Mesh) NumVertices() int  { return m.N + 1 }
func (m *Mesh) CellSize() float64 { return m.h }

// Vertices returns the vertex coordinates in increasing order.
func (m *Mesh) Vertices() []float64 {
	x := make([]float64, m.N+1)
	for i := range x {
		x[i] = float64(i) * m.h
	}
	x[m.N] = m.Length
	return x
}

// Cell returns the vertex indices of cell c.
func (m *Mesh) Cell(c int) (int, int) {
	return c, c + 1
}
