package modal

import (
	"fmt"
	"math/cmplx"
)

// Solver is the view of an eigensolver the selector needs.
type Solver interface {
	// Converged returns the number of eigenpairs that met the solver tolerance.
	Converged() int
	// NewVector returns a zeroed vector with the length of one eigenvector.
	NewVector() []complex128
	// Eigenpair overwrites vr with eigenvector k and returns its eigenvalue.
	Eigenpair(k int, vr []complex128) (complex128, error)
}

// Space is the discretization a field lives on. The selector only passes
// it through to the FieldBuilder.
type Space interface {
	Name() string
}

type Field struct {
	Space  Space
	Values []complex128
}

// NewField copies values into a new field attached to space.
func NewField(space Space, values []complex128) *Field {
	v := make([]complex128, len(values))
	copy(v, values)
	return &Field{Space: space, Values: v}
}

func (f *Field) Len() int { return len(f.Values) }

// Abs returns the pointwise magnitude of the field values.
func (f *Field) Abs() []float64 {
	out := make([]float64, len(f.Values))
	for i, v := range f.Values {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// MaxAbs returns the largest magnitude in the field, 0 for an empty field.
func (f *Field) MaxAbs() float64 {
	m := 0.0
	for _, v := range f.Values {
		if a := cmplx.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// FieldBuilder constructs a field from a discretization handle and a slice
// of dof values. Implementations must not retain values.
type FieldBuilder func(space Space, values []complex128) (*Field, error)

func defaultFieldBuilder(space Space, values []complex128) (*Field, error) {
	return NewField(space, values), nil
}

// Block is one named sub-field of a combined eigenvector.
type Block struct {
	Name string
	Dofs int
}

// Partition lists sub-fields in declaration order. Block i starts right
// after block i-1.
type Partition []Block

// NewPartition returns the two-block partition used for pressure/velocity
// problems.
func NewPartition(p, v int) Partition {
	return Partition{{Name: "p", Dofs: p}, {Name: "v", Dofs: v}}
}

// Size returns the total number of dofs covered by the partition.
func (p Partition) Size() int {
	n := 0
	for _, b := range p {
		n += b.Dofs
	}
	return n
}

// Dofs returns the dof count of the named block.
func (p Partition) Dofs(name string) (int, bool) {
	for _, b := range p {
		if b.Name == name {
			return b.Dofs, true
		}
	}
	return 0, false
}

// Range returns the half-open index range [start, end) of the named block.
func (p Partition) Range(name string) (start, end int, ok bool) {
	for _, b := range p {
		if b.Name == name {
			return start, start + b.Dofs, true
		}
		start += b.Dofs
	}
	return 0, 0, false
}

// Validate checks the partition against an eigenvector length.
func (p Partition) Validate(n int) error {
	for _, b := range p {
		if b.Dofs < 0 {
			return &PartitionError{Want: p.Size(), Got: n, Reason: fmt.Sprintf("block %q has negative dof count %d", b.Name, b.Dofs)}
		}
	}
	if p.Size() != n {
		return &PartitionError{Want: p.Size(), Got: n}
	}
	return nil
}

// Mode is a selected eigenpair with its reconstructed fields.
type Mode struct {
	Index      int
	Eigenvalue complex128
	Distance   float64
	Converged  int
	P          *Field
	V          *Field
}
