package modal

import (
	"math"
	"math/cmplx"

	"go.uber.org/zap"
)

// Selector picks the eigenpair nearest to a target value.
type Selector struct {
	logger *zap.Logger
	build  FieldBuilder
}

type Option func(*Selector)

// WithLogger enables debug logging of every scanned eigenpair.
func WithLogger(l *zap.Logger) Option {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFieldBuilder replaces the default copying field constructor.
func WithFieldBuilder(b FieldBuilder) Option {
	return func(s *Selector) {
		if b != nil {
			s.build = b
		}
	}
}

func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		logger: zap.NewNop(),
		build:  defaultFieldBuilder,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select scans every converged eigenpair of solver and returns the one whose
// eigenvalue has the smallest |lambda - target|. On equal distance the lower
// index wins. The winning eigenvector is split by part into the "p" and "v"
// blocks, which are built on q and v respectively.
//
// Eigenpair is called exactly Converged() times. Errors from the solver are
// returned as is.
func (s *Selector) Select(solver Solver, target complex128, q, v Space, part Partition) (*Mode, error) {
	n := solver.Converged()
	if n <= 0 {
		return nil, ErrNoConvergedEigenpairs
	}

	buf := solver.NewVector()
	if err := part.Validate(len(buf)); err != nil {
		return nil, err
	}
	pStart, pEnd, okP := part.Range("p")
	vStart, vEnd, okV := part.Range("v")
	if !okP || !okV {
		return nil, &PartitionError{Want: part.Size(), Got: len(buf), Reason: `partition needs blocks "p" and "v"`}
	}

	best := -1
	bestDist := math.Inf(1)
	var bestVal complex128
	bestVec := make([]complex128, len(buf))

	for k := 0; k < n; k++ {
		lambda, err := solver.Eigenpair(k, buf)
		if err != nil {
			return nil, err
		}
		d := cmplx.Abs(lambda - target)
		s.logger.Debug("eigenpair",
			zap.Int("k", k),
			zap.Float64("re", real(lambda)),
			zap.Float64("im", imag(lambda)),
			zap.Float64("distance", d))

		// strict comparison keeps the first index on ties; a NaN best
		// loses to any ordered distance
		if best < 0 || d < bestDist || (math.IsNaN(bestDist) && !math.IsNaN(d)) {
			best, bestDist, bestVal = k, d, lambda
			copy(bestVec, buf)
		}
	}

	fp, err := s.build(q, bestVec[pStart:pEnd])
	if err != nil {
		return nil, err
	}
	fv, err := s.build(v, bestVec[vStart:vEnd])
	if err != nil {
		return nil, err
	}

	s.logger.Debug("selected eigenpair",
		zap.Int("k", best),
		zap.Float64("re", real(bestVal)),
		zap.Float64("im", imag(bestVal)),
		zap.Float64("distance", bestDist),
		zap.Int("converged", n))

	return &Mode{
		Index:      best,
		Eigenvalue: bestVal,
		Distance:   bestDist,
		Converged:  n,
		P:          fp,
		V:          fv,
	}, nil
}

// ClosestEigenpair is Select with default options, returning the eigenvalue
// and the two fields directly.
func ClosestEigenpair(solver Solver, target complex128, q, v Space, part Partition) (complex128, *Field, *Field, error) {
	m, err := NewSelector().Select(solver, target, q, v, part)
	if err != nil {
		return 0, nil, nil, err
	}
	return m.Eigenvalue, m.P, m.V, nil
}
