// Package acoustic assembles the 1D linear acoustics eigenproblem.
//
// Pressure p and particle velocity v satisfy
//
//	iω p + σ p + ρc² ∂v/∂x = 0
//	iω v + (1/ρ) ∂p/∂x     = 0
//
// With CG1 spaces Q (pressure) and V (velocity) this becomes K x = λ B x,
// x = [p; v], λ = -iω.
package acoustic

import (
	"errors"
	"fmt"

	"github.com/san-kum/eigenpick/internal/fem"
	"github.com/san-kum/eigenpick/internal/modal"
	"gonum.org/v1/gonum/mat"
)

var ErrParameterBounds = errors.New("acoustic: parameter out of valid bounds")

// Problem holds the medium and the two function spaces.
type Problem struct {
	Rho     float64
	C       float64
	Damping float64
	Q       *fem.FunctionSpace
	V       *fem.FunctionSpace
}

// NewProblem builds CG1 pressure and velocity spaces on mesh.
func NewProblem(mesh *fem.Mesh, rho, c, damping float64) (*Problem, error) {
	q, err := fem.NewFunctionSpace("Q", mesh, "CG", 1)
	if err != nil {
		return nil, err
	}
	v, err := fem.NewFunctionSpace("V", mesh, "CG", 1)
	if err != nil {
		return nil, err
	}
	p := &Problem{Q: q, V: v}
	for name, val := range map[string]float64{"rho": rho, "c": c, "damping": damping} {
		if err := p.SetParam(name, val); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Partition returns the dof layout of x = [p; v].
func (p *Problem) Partition() modal.Partition {
	return modal.NewPartition(p.Q.DofCount(), p.V.DofCount())
}

// Assemble returns the operator K and the mass B.
func (p *Problem) Assemble() (k, b *mat.Dense, err error) {
	np, nv := p.Q.DofCount(), p.V.DofCount()
	n := np + nv

	mp := p.Q.MassMatrix()
	mv := p.V.MassMatrix()
	cpv, err := p.Q.DerivativeCoupling(p.V)
	if err != nil {
		return nil, nil, err
	}
	cvp, err := p.V.DerivativeCoupling(p.Q)
	if err != nil {
		return nil, nil, err
	}

	k = mat.NewDense(n, n, nil)
	b = mat.NewDense(n, n, nil)

	kpp := k.Slice(0, np, 0, np).(*mat.Dense)
	kpp.Scale(p.Damping, mp)
	kpv := k.Slice(0, np, np, n).(*mat.Dense)
	kpv.Scale(p.Rho*p.C*p.C, cpv)
	kvp := k.Slice(np, n, 0, np).(*mat.Dense)
	kvp.Scale(1/p.Rho, cvp)

	b.Slice(0, np, 0, np).(*mat.Dense).Copy(mp)
	b.Slice(np, n, np, n).(*mat.Dense).Copy(mv)

	return k, b, nil
}

// Frequency converts a solver eigenvalue λ into the angular frequency ω = iλ.
func Frequency(lambda complex128) complex128 {
	return 1i * lambda
}

// Eigenvalue converts an angular frequency back into λ = -iω.
func Eigenvalue(omega complex128) complex128 {
	return -1i * omega
}

func (p *Problem) GetParams() map[string]float64 {
	return map[string]float64{"rho": p.Rho, "c": p.C, "damping": p.Damping}
}

func (p *Problem) SetParam(name string, value float64) error {
	switch name {
	case "rho":
		if !(value > 0) {
			return fmt.Errorf("%w: rho=%g", ErrParameterBounds, value)
		}
		p.Rho = value
	case "c":
		if !(value > 0) {
			return fmt.Errorf("%w: c=%g", ErrParameterBounds, value)
		}
		p.C = value
	case "damping":
		if !(value >= 0) {
			return fmt.Errorf("%w: damping=%g", ErrParameterBounds, value)
		}
		p.Damping = value
	default:
		return fmt.Errorf("acoustic: unknown parameter %q", name)
	}
	return nil
}
