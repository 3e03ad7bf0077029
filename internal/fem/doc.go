// Package fem provides the discretization pieces of a 1D modal problem.
//
//   - [Mesh]: uniform interval mesh
//   - [FunctionSpace]: continuous piecewise-linear (CG1) space on a mesh
//   - [BuildField]: field constructor checking dof counts
//
// Matrices are assembled densely with gonum. The spaces here are small
// enough that sparsity does not matter.
package fem
