package eigen_test

import (
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/eigenpick/internal/eigen"
	"github.com/san-kum/eigenpick/internal/modal"
)

func diag(vals ...float64) mat.Matrix {
	return mat.NewDiagDense(len(vals), vals)
}

var _ = Describe("DenseSolver", func() {
	var solver *eigen.DenseSolver

	Context("before Solve", func() {
		BeforeEach(func() {
			solver = eigen.NewDenseSolver(eigen.Options{})
		})

		It("reports no converged pairs", func() {
			Expect(solver.Converged()).To(Equal(0))
			Expect(solver.NewVector()).To(BeEmpty())
		})

		It("makes the selector fail fast", func() {
			_, _, _, err := modal.ClosestEigenpair(solver, 0, nil, nil, modal.NewPartition(0, 0))
			Expect(err).To(MatchError(modal.ErrNoConvergedEigenpairs))
		})
	})

	Context("with a diagonal standard problem", func() {
		BeforeEach(func() {
			solver = eigen.NewDenseSolver(eigen.Options{Shift: 2.2})
			Expect(solver.Solve(diag(1, 2, 3), diag(1, 1, 1))).To(Succeed())
		})

		It("keeps every pair", func() {
			Expect(solver.Converged()).To(Equal(3))
		})

		It("orders pairs by distance to the shift", func() {
			vals := solver.Values()
			Expect(real(vals[0])).To(BeNumerically("~", 2, 1e-12))
			Expect(real(vals[1])).To(BeNumerically("~", 3, 1e-12))
			Expect(real(vals[2])).To(BeNumerically("~", 1, 1e-12))
		})

		It("fills the buffer with the matching eigenvector", func() {
			vr := solver.NewVector()
			lambda, err := solver.Eigenpair(0, vr)
			Expect(err).NotTo(HaveOccurred())
			Expect(cmplx.Abs(lambda - 2)).To(BeNumerically("<", 1e-12))
			Expect(cmplx.Abs(vr[1])).To(BeNumerically("~", 1, 1e-12))
			Expect(cmplx.Abs(vr[0])).To(BeNumerically("<", 1e-12))
			Expect(cmplx.Abs(vr[2])).To(BeNumerically("<", 1e-12))
		})

		It("reports small residuals", func() {
			for k := 0; k < solver.Converged(); k++ {
				r, err := solver.Residual(k)
				Expect(err).NotTo(HaveOccurred())
				Expect(r).To(BeNumerically("<", eigen.DefaultTolerance))
			}
		})

		It("rejects out of range indices and bad buffers", func() {
			_, err := solver.Eigenpair(3, solver.NewVector())
			Expect(err).To(MatchError(eigen.ErrIndexOutOfRange))
			_, err = solver.Eigenpair(-1, solver.NewVector())
			Expect(err).To(MatchError(eigen.ErrIndexOutOfRange))
			_, err = solver.Eigenpair(0, make([]complex128, 2))
			Expect(err).To(MatchError(eigen.ErrBufferSize))
			_, err = solver.Residual(7)
			Expect(err).To(MatchError(eigen.ErrIndexOutOfRange))
		})
	})

	Context("with a generalized problem", func() {
		It("solves K x = λ B x", func() {
			solver = eigen.NewDenseSolver(eigen.Options{})
			Expect(solver.Solve(diag(2, 6), diag(2, 3))).To(Succeed())

			vals := solver.Values()
			Expect(vals).To(HaveLen(2))
			// zero shift puts the smaller eigenvalue first
			Expect(real(vals[0])).To(BeNumerically("~", 1, 1e-12))
			Expect(real(vals[1])).To(BeNumerically("~", 2, 1e-12))
		})

		It("yields complex pairs for a rotation", func() {
			k := mat.NewDense(2, 2, []float64{0, -1, 1, 0})
			solver = eigen.NewDenseSolver(eigen.Options{Shift: 1i})
			Expect(solver.Solve(k, diag(1, 1))).To(Succeed())

			vals := solver.Values()
			Expect(vals).To(HaveLen(2))
			Expect(cmplx.Abs(vals[0] - 1i)).To(BeNumerically("<", 1e-12))
			Expect(cmplx.Abs(vals[1] + 1i)).To(BeNumerically("<", 1e-12))
		})
	})

	Context("options", func() {
		It("truncates to Nev pairs nearest the shift", func() {
			solver = eigen.NewDenseSolver(eigen.Options{Nev: 2, Shift: 11})
			Expect(solver.Solve(diag(1, 4, 9, 16), diag(1, 1, 1, 1))).To(Succeed())

			Expect(solver.Converged()).To(Equal(2))
			vals := solver.Values()
			Expect(real(vals[0])).To(BeNumerically("~", 9, 1e-12))
			Expect(real(vals[1])).To(BeNumerically("~", 16, 1e-12))
		})

		It("applies the transform before ordering", func() {
			solver = eigen.NewDenseSolver(eigen.Options{
				Shift:     4i,
				Transform: func(l complex128) complex128 { return 1i * l },
			})
			Expect(solver.Solve(diag(1, 4), diag(1, 1))).To(Succeed())

			vals := solver.Values()
			Expect(cmplx.Abs(vals[0] - 4i)).To(BeNumerically("<", 1e-12))
			Expect(cmplx.Abs(vals[1] - 1i)).To(BeNumerically("<", 1e-12))
		})
	})

	Context("invalid input", func() {
		BeforeEach(func() {
			solver = eigen.NewDenseSolver(eigen.Options{})
		})

		It("rejects mismatched dimensions", func() {
			err := solver.Solve(diag(1, 2), diag(1, 2, 3))
			Expect(err).To(MatchError(eigen.ErrDimensionMismatch))
			Expect(solver.Converged()).To(Equal(0))
		})

		It("rejects non-square operators", func() {
			err := solver.Solve(mat.NewDense(2, 3, nil), diag(1, 1))
			Expect(err).To(MatchError(eigen.ErrDimensionMismatch))
		})

		It("rejects a singular mass", func() {
			err := solver.Solve(diag(1, 2), mat.NewDense(2, 2, nil))
			Expect(err).To(MatchError(eigen.ErrSingularMass))
		})

		It("forgets earlier results on failure", func() {
			Expect(solver.Solve(diag(1, 2), diag(1, 1))).To(Succeed())
			Expect(solver.Converged()).To(Equal(2))
			Expect(solver.Solve(diag(1, 2), diag(1, 2, 3))).NotTo(Succeed())
			Expect(solver.Converged()).To(Equal(0))
		})
	})
})
