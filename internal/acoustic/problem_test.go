package acoustic

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/san-kum/eigenpick/internal/eigen"
	"github.com/san-kum/eigenpick/internal/fem"
	"github.com/san-kum/eigenpick/internal/modal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProblem(t *testing.T, cells int, damping float64) *Problem {
	t.Helper()
	mesh, err := fem.NewUnitInterval(cells)
	require.NoError(t, err)
	p, err := NewProblem(mesh, 1.2, 2.0, damping)
	require.NoError(t, err)
	return p
}

func TestNewProblem_RejectsBadParams(t *testing.T) {
	mesh, _ := fem.NewUnitInterval(3)

	_, err := NewProblem(mesh, 0, 1, 0)
	assert.ErrorIs(t, err, ErrParameterBounds)
	_, err = NewProblem(mesh, 1, -1, 0)
	assert.ErrorIs(t, err, ErrParameterBounds)
	_, err = NewProblem(mesh, 1, 1, -0.1)
	assert.ErrorIs(t, err, ErrParameterBounds)
}

func TestProblem_Params(t *testing.T) {
	p := newProblem(t, 3, 0.1)

	assert.Equal(t, map[string]float64{"rho": 1.2, "c": 2.0, "damping": 0.1}, p.GetParams())
	require.NoError(t, p.SetParam("damping", 0.5))
	assert.Equal(t, 0.5, p.Damping)
	assert.Error(t, p.SetParam("gamma", 1))
}

func TestProblem_Partition(t *testing.T) {
	p := newProblem(t, 5, 0)
	part := p.Partition()

	assert.Equal(t, 12, part.Size())
	n, ok := part.Dofs("p")
	assert.True(t, ok)
	assert.Equal(t, 6, n)
}

func TestProblem_AssembleBlocks(t *testing.T) {
	p := newProblem(t, 4, 0.3)
	k, b, err := p.Assemble()
	require.NoError(t, err)

	r, c := k.Dims()
	assert.Equal(t, 10, r)
	assert.Equal(t, 10, c)

	mp := p.Q.MassMatrix()
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			assert.InDelta(t, 0.3*mp.At(i, j), k.At(i, j), 1e-15)
			assert.InDelta(t, mp.At(i, j), b.At(i, j), 1e-15)
			// velocity block of K is empty, off-diagonal blocks of B too
			assert.Zero(t, k.At(5+i, 5+j))
			assert.Zero(t, b.At(i, 5+j))
		}
	}
}

func TestFrequencyRoundTrip(t *testing.T) {
	omega := 3 - 0.25i
	assert.InDelta(t, 0, cmplx.Abs(Frequency(Eigenvalue(omega))-omega), 1e-15)
}

func TestDampedDecayModeIsDoubled(t *testing.T) {
	const sigma = 0.7
	p := newProblem(t, 5, sigma)
	k, b, err := p.Assemble()
	require.NoError(t, err)

	target := complex(0, sigma)
	solver := eigen.NewDenseSolver(eigen.Options{
		Shift:     target,
		Tolerance: 1e-6,
		Transform: Frequency,
	})
	require.NoError(t, solver.Solve(k, b))

	mode, err := modal.NewSelector(modal.WithFieldBuilder(fem.BuildField)).
		Select(solver, target, p.Q, p.V, p.Partition())
	require.NoError(t, err)

	assert.InDelta(t, 0, cmplx.Abs(mode.Eigenvalue-target), 1e-8)
	assert.Equal(t, 0, mode.Index, "solver orders by distance to shift")

	// equal-order p/v spaces double every mode, so iσ is not simple
	near := 0
	for _, v := range solver.Values() {
		if cmplx.Abs(v-target) < 1e-6 {
			near++
		}
	}
	assert.GreaterOrEqual(t, near, 2)

	// any vector of the eigenspace must satisfy K x = λ B x
	x := append(append([]complex128{}, mode.P.Values...), mode.V.Values...)
	lambda := Eigenvalue(mode.Eigenvalue)
	n, _ := k.Dims()
	require.Len(t, x, n)
	var res, norm float64
	for i := 0; i < n; i++ {
		var r complex128
		for j := 0; j < n; j++ {
			r += complex(k.At(i, j), 0)*x[j] - lambda*complex(b.At(i, j), 0)*x[j]
		}
		res += real(r)*real(r) + imag(r)*imag(r)
		norm += real(x[i])*real(x[i]) + imag(x[i])*imag(x[i])
	}
	require.Greater(t, norm, 0.0)
	assert.Less(t, math.Sqrt(res/norm), 1e-8)
	assert.Same(t, p.Q, mode.P.Space)
	assert.Same(t, p.V, mode.V.Space)
}

func TestUndampedHasZeroFrequencyMode(t *testing.T) {
	p := newProblem(t, 4, 0)
	k, b, err := p.Assemble()
	require.NoError(t, err)

	solver := eigen.NewDenseSolver(eigen.Options{Tolerance: 1e-6, Transform: Frequency})
	require.NoError(t, solver.Solve(k, b))
	require.Greater(t, solver.Converged(), 0)

	lambda, _, _, err := modal.ClosestEigenpair(solver, 0, p.Q, p.V, p.Partition())
	require.NoError(t, err)
	// the zero cluster is defective; a dense solve resolves it to about sqrt(eps)
	assert.Less(t, cmplx.Abs(lambda), 1e-4)
	assert.False(t, math.IsNaN(real(lambda)))
}
