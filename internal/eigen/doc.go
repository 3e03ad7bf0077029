// Package eigen solves small generalized eigenproblems K x = λ B x densely.
//
// [DenseSolver] reduces the problem to B⁻¹K, factorizes it with gonum and
// exposes the result through the [modal.Solver] contract. Pairs are ordered
// by distance to a shift and filtered by backward error, which gives the
// same view a shift-invert sparse solver would.
//
//	s := eigen.NewDenseSolver(eigen.Options{Nev: 6, Shift: 20 - 3i})
//	if err := s.Solve(k, b); err != nil {
//	    return err
//	}
//	mode, err := modal.NewSelector().Select(s, 20-3i, q, v, part)
package eigen
