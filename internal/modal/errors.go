package modal

import (
	"errors"
	"fmt"
)

// Domain errors for eigenpair selection.
var (
	// ErrNoConvergedEigenpairs indicates the solver reported zero converged pairs.
	ErrNoConvergedEigenpairs = errors.New("modal: no converged eigenpairs")

	// ErrDofPartitionMismatch indicates the dof partition does not cover the eigenvector.
	ErrDofPartitionMismatch = errors.New("modal: dof partition does not match eigenvector length")
)

// PartitionError carries the sizes involved in a partition mismatch.
type PartitionError struct {
	Want   int
	Got    int
	Reason string
}

func (e *PartitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrDofPartitionMismatch.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: partition covers %d dofs, eigenvector has %d", ErrDofPartitionMismatch.Error(), e.Want, e.Got)
}

func (e *PartitionError) Unwrap() error {
	return ErrDofPartitionMismatch
}
