// Package shifts implements fractional time-shift operators for temporal
// profiles under two boundary conventions, along with the banded and
// circulant linear-algebra kernels induced by them.
//
// A shift operator S_s maps a length-T profile w to the profile sampled at
// offset s, using linear interpolation between adjacent samples. The two
// variants differ only in how indices outside [0, T) are treated:
//
//   - Padded: out-of-range positions read as zero.
//   - Periodic: indices wrap modulo T.
//
// The Gram matrix S_sᵀS_s of a single shift is symmetric tridiagonal; under
// zero padding it is genuinely banded, under wraparound it is circulant.
// The two ProfileSolver implementations exploit this: the padded system is
// solved by projected gradient descent on its banded form, the periodic
// system in closed form by a cyclic tridiagonal solve.
package shifts

// Operator applies fractional shifts to temporal profiles under a fixed
// boundary convention. Implementations are stateless and safe for
// concurrent use; all scratch state lives in caller-provided slices or in
// ProfileSolver values.
type Operator interface {
	// ApplyShift writes into out the profile evaluated at fractional
	// offset shift, so that out[t] interpolates profile at t-shift.
	// out must have the same length as profile and must not alias it.
	ApplyShift(profile []float64, shift float64, out []float64)

	// TransShift applies the adjoint of the shift operator to a residual
	// slice: ⟨TransShift(z, s), w⟩ == ⟨z, ApplyShift(w, s)⟩ for all w.
	// out must have the same length as resid and must not alias it.
	TransShift(resid []float64, shift float64, out []float64)

	// ProfileSolver returns a reusable accumulator for the length-T
	// temporal-profile normal equations under this boundary convention.
	ProfileSolver(t int) ProfileSolver
}

// ProfileSolver accumulates weighted Gram-matrix contributions for one
// temporal-profile update and solves the resulting normal equations.
type ProfileSolver interface {
	// Reset clears the accumulated system.
	Reset()

	// Accumulate adds weight times the Gram matrix of the shift operator
	// at the given offset. weight must be nonnegative.
	Accumulate(shift, weight float64)

	// Solve solves the accumulated system against rhs and writes the
	// solution into w. rhs and w must have length T and not alias.
	Solve(rhs, w []float64)
}

// ForBoundary returns the Operator for the requested boundary convention.
func ForBoundary(periodic bool) Operator {
	if periodic {
		return Periodic{}
	}
	return Padded{}
}

// splitShift decomposes a real shift into its integer and fractional
// parts, with the fraction always in [0, 1).
func splitShift(shift float64) (d int, r float64) {
	f := int(shift)
	if float64(f) > shift {
		f-- // floor for negative shifts
	}
	return f, shift - float64(f)
}
