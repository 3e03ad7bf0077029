// Package modal selects eigenpairs out of a modal-analysis solve and
// rebuilds the physical fields they describe.
//
// The package defines the narrow contracts it needs from its collaborators:
//
//   - [Solver]: converged eigenpairs with in-place eigenvector fill
//   - [Space]: opaque discretization handle a field is attached to
//   - [Partition]: ordered dof blocks splitting a combined eigenvector
//   - [FieldBuilder]: constructs a [Field] from a space and a slice of values
//
// # Example
//
//	lambda, p, v, err := modal.ClosestEigenpair(solver, 22-3i, q, vs, part)
//	if errors.Is(err, modal.ErrNoConvergedEigenpairs) {
//	    // rerun the solver with a different shift
//	}
//
// # Thread Safety
//
// A [Selector] holds no per-call state and may be shared between goroutines
// as long as the solver it reads from is not mutated concurrently.
package modal
