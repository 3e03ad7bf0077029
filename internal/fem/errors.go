package fem

import "errors"

var (
	// ErrInvalidMesh indicates a mesh with no cells or non-positive length.
	ErrInvalidMesh = errors.New("fem: mesh needs at least one cell and positive length")

	// ErrUnsupportedElement indicates an element family/degree other than CG1.
	ErrUnsupportedElement = errors.New("fem: unsupported element (only CG1)")

	// ErrFieldSize indicates field values that do not match the space dof count.
	ErrFieldSize = errors.New("fem: field values do not match space dof count")
)
