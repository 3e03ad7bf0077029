package eigen

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/san-kum/eigenpick/internal/modal"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

const DefaultTolerance = 1e-8

type Options struct {
	// Nev caps the number of kept pairs. 0 keeps all.
	Nev int
	// Shift orders pairs by |value - Shift|, in the transformed space.
	Shift complex128
	// Tolerance is the largest accepted backward error.
	Tolerance float64
	// Transform maps raw eigenvalues λ to reported values (e.g. λ -> ω).
	Transform func(complex128) complex128
	Logger    *zap.Logger
}

type pair struct {
	value    complex128
	vector   []complex128
	residual float64
}

// DenseSolver is read-only after Solve and safe for concurrent Eigenpair calls.
type DenseSolver struct {
	opts  Options
	n     int
	pairs []pair
}

func NewDenseSolver(opts Options) *DenseSolver {
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.Transform == nil {
		opts.Transform = func(l complex128) complex128 { return l }
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &DenseSolver{opts: opts}
}

// Solve computes the eigenpairs of K x = λ B x, replacing any previous result.
func (s *DenseSolver) Solve(k, b mat.Matrix) error {
	s.n, s.pairs = 0, nil

	kr, kc := k.Dims()
	br, bc := b.Dims()
	if kr != kc || br != bc || kr != br || kr == 0 {
		return fmt.Errorf("%w: K is %dx%d, B is %dx%d", ErrDimensionMismatch, kr, kc, br, bc)
	}
	n := kr

	var a mat.Dense
	if err := a.Solve(b, k); err != nil {
		return fmt.Errorf("%w: %v", ErrSingularMass, err)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(&a, mat.EigenRight); !ok {
		return ErrNoConvergence
	}
	values := eig.Values(nil)
	var vecs mat.CDense
	eig.VectorsTo(&vecs)

	normK := mat.Norm(k, 1)
	normB := mat.Norm(b, 1)

	pairs := make([]pair, 0, n)
	rejected := 0
	for j, lambda := range values {
		x := make([]complex128, n)
		for i := range x {
			x[i] = vecs.At(i, j)
		}
		res := backwardError(k, b, lambda, x, normK, normB)
		if !(res <= s.opts.Tolerance) {
			rejected++
			continue
		}
		pairs = append(pairs, pair{value: s.opts.Transform(lambda), vector: x, residual: res})
	}

	shift := s.opts.Shift
	sort.SliceStable(pairs, func(i, j int) bool {
		return cmplx.Abs(pairs[i].value-shift) < cmplx.Abs(pairs[j].value-shift)
	})
	if s.opts.Nev > 0 && len(pairs) > s.opts.Nev {
		pairs = pairs[:s.opts.Nev]
	}

	s.n, s.pairs = n, pairs
	s.opts.Logger.Debug("dense eigensolve",
		zap.Int("size", n),
		zap.Int("converged", len(pairs)),
		zap.Int("rejected", rejected),
		zap.Float64("tolerance", s.opts.Tolerance))
	return nil
}

// backwardError returns ‖Kx − λBx‖ / ((‖K‖ + |λ|‖B‖)‖x‖).
func backwardError(k, b mat.Matrix, lambda complex128, x []complex128, normK, normB float64) float64 {
	n := len(x)
	xr := mat.NewVecDense(n, nil)
	xi := mat.NewVecDense(n, nil)
	for i, v := range x {
		xr.SetVec(i, real(v))
		xi.SetVec(i, imag(v))
	}

	var kr, ki, br, bi mat.VecDense
	kr.MulVec(k, xr)
	ki.MulVec(k, xi)
	br.MulVec(b, xr)
	bi.MulVec(b, xi)

	lr, li := real(lambda), imag(lambda)
	sum, xn := 0.0, 0.0
	for i := 0; i < n; i++ {
		// (λ Bx)_i = (lr + i li)(br + i bi)
		rr := kr.AtVec(i) - (lr*br.AtVec(i) - li*bi.AtVec(i))
		ri := ki.AtVec(i) - (lr*bi.AtVec(i) + li*br.AtVec(i))
		sum += rr*rr + ri*ri
		xn += real(x[i])*real(x[i]) + imag(x[i])*imag(x[i])
	}

	denom := (normK + cmplx.Abs(lambda)*normB) * math.Sqrt(xn)
	if denom == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(sum) / denom
}

func (s *DenseSolver) Converged() int { return len(s.pairs) }

func (s *DenseSolver) NewVector() []complex128 { return make([]complex128, s.n) }

func (s *DenseSolver) Eigenpair(k int, vr []complex128) (complex128, error) {
	if k < 0 || k >= len(s.pairs) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, k, len(s.pairs))
	}
	if len(vr) != s.n {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrBufferSize, len(vr), s.n)
	}
	copy(vr, s.pairs[k].vector)
	return s.pairs[k].value, nil
}

// Residual returns the backward error of eigenpair k.
func (s *DenseSolver) Residual(k int) (float64, error) {
	if k < 0 || k >= len(s.pairs) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, k, len(s.pairs))
	}
	return s.pairs[k].residual, nil
}

// Values returns all kept eigenvalues in solver order.
func (s *DenseSolver) Values() []complex128 {
	out := make([]complex128, len(s.pairs))
	for i, p := range s.pairs {
		out[i] = p.value
	}
	return out
}

var _ modal.Solver = (*DenseSolver)(nil)
