package fem

import (
	"fmt"

	"github.com/san-kum/eigenpick/internal/modal"
	"gonum.org/v1/gonum/mat"
)

// FunctionSpace is a CG1 space: one dof per mesh vertex, hat basis functions.
type FunctionSpace struct {
	name   string
	mesh   *Mesh
	family string
	degree int
}

func NewFunctionSpace(name string, mesh *Mesh, family string, degree int) (*FunctionSpace, error) {
	if mesh == nil {
		return nil, ErrInvalidMesh
	}
	if (family != "CG" && family != "Lagrange" && family != "P") || degree != 1 {
		return nil, fmt.Errorf("%w: %s%d", ErrUnsupportedElement, family, degree)
	}
	return &FunctionSpace{name: name, mesh: mesh, family: "CG", degree: degree}, nil
}

func (s *FunctionSpace) Name() string  { return s.name }
func (s *FunctionSpace) Mesh() *Mesh   { return s.mesh }
func (s *FunctionSpace) DofCount() int { return s.mesh.NumVertices() }

func (s *FunctionSpace) String() string {
	return fmt.Sprintf("%s(%s%d, %d dofs)", s.name, s.family, s.degree, s.DofCount())
}

// Coordinates returns the physical location of every dof.
func (s *FunctionSpace) Coordinates() []float64 {
	return s.mesh.Vertices()
}

// MassMatrix assembles M_ij = ∫ φ_i φ_j dx.
func (s *FunctionSpace) MassMatrix() *mat.Dense {
	n := s.DofCount()
	m := mat.NewDense(n, n, nil)
	h := s.mesh.CellSize()
	for c := 0; c < s.mesh.Cells(); c++ {
		a, b := s.mesh.Cell(c)
		m.Set(a, a, m.At(a, a)+h/3)
		m.Set(b, b, m.At(b, b)+h/3)
		m.Set(a, b, m.At(a, b)+h/6)
		m.Set(b, a, m.At(b, a)+h/6)
	}
	return m
}

// DerivativeCoupling assembles C_ij = ∫ φ_i ψ_j' dx where φ is the basis of s
// (test) and ψ the basis of trial. Both spaces must share a mesh.
func (s *FunctionSpace) DerivativeCoupling(trial *FunctionSpace) (*mat.Dense, error) {
	if trial.mesh != s.mesh {
		return nil, fmt.Errorf("fem: spaces %s and %s live on different meshes", s.name, trial.name)
	}
	n, k := s.DofCount(), trial.DofCount()
	c := mat.NewDense(n, k, nil)
	for cell := 0; cell < s.mesh.Cells(); cell++ {
		a, b := s.mesh.Cell(cell)
		// ψ_a' = -1/h, ψ_b' = 1/h and ∫ φ_i dx = h/2 on the cell
		for _, i := range [2]int{a, b} {
			c.Set(i, a, c.At(i, a)-0.5)
			c.Set(i, b, c.At(i, b)+0.5)
		}
	}
	return c, nil
}

// BuildField attaches values to space. For a *FunctionSpace the number of
// values must equal its dof count. Values are copied.
func BuildField(space modal.Space, values []complex128) (*modal.Field, error) {
	if fs, ok := space.(*FunctionSpace); ok && fs.DofCount() != len(values) {
		return nil, fmt.Errorf("%w: %s has %d dofs, got %d values", ErrFieldSize, fs.Name(), fs.DofCount(), len(values))
	}
	return modal.NewField(space, values), nil
}

var _ modal.Space = (*FunctionSpace)(nil)
var _ modal.FieldBuilder = BuildField
