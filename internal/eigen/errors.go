package eigen

import "errors"

var (
	// ErrDimensionMismatch indicates K and B are not square of equal size.
	ErrDimensionMismatch = errors.New("eigen: operator and mass must be square and of equal size")

	// ErrSingularMass indicates B could not be factorized.
	ErrSingularMass = errors.New("eigen: mass matrix is singular")

	// ErrNoConvergence indicates the eigenvalue factorization failed.
	ErrNoConvergence = errors.New("eigen: eigenvalue factorization did not converge")

	// ErrIndexOutOfRange indicates an eigenpair index outside [0, Converged()).
	ErrIndexOutOfRange = errors.New("eigen: eigenpair index out of range")

	// ErrBufferSize indicates an eigenvector buffer of the wrong length.
	ErrBufferSize = errors.New("eigen: eigenvector buffer has wrong length")
)
