package shifts

import "math"

// Periodic is the wraparound boundary convention: indices are taken
// modulo T, so the profile is treated as one period of a cyclic signal.
type Periodic struct{}

// ApplyShift writes into out the profile shifted by a fractional offset
// with periodic wraparound.
func (Periodic) ApplyShift(profile []float64, shift float64, out []float64) {
	T := len(profile)
	d, r := splitShift(shift)
	for t := 0; t < T; t++ {
		out[t] = (1-r)*profile[wrap(t-d, T)] + r*profile[wrap(t-d-1, T)]
	}
}

// TransShift applies the adjoint of the periodic shift operator to a
// residual slice.
func (Periodic) TransShift(resid []float64, shift float64, out []float64) {
	T := len(resid)
	d, r := splitShift(shift)
	for j := 0; j < T; j++ {
		out[j] = (1-r)*resid[wrap(j+d, T)] + r*resid[wrap(j+d+1, T)]
	}
}

// ProfileSolver returns a circulant accumulator solved exactly. Under
// wraparound every column of the Gram matrix sees both interpolation
// coefficients, so the whole system is described by two scalars and
// admits an O(T) cyclic tridiagonal solve.
func (Periodic) ProfileSolver(t int) ProfileSolver {
	return &periodicSolver{
		cp: make([]float64, t),
		y:  make([]float64, t),
		q:  make([]float64, t),
	}
}

// periodicSolver accumulates the diagonal and off-diagonal of the
// symmetric circulant tridiagonal normal-equation matrix.
type periodicSolver struct {
	d, off   float64
	cp, y, q []float64
}

func (s *periodicSolver) Reset() {
	s.d, s.off = 0, 0
}

func (s *periodicSolver) Accumulate(shift, weight float64) {
	_, r := splitShift(shift)
	s.d += weight * ((1-r)*(1-r) + r*r)
	s.off += weight * r * (1 - r)
}

func (s *periodicSolver) Solve(rhs, w []float64) {
	rojoSolve(s.d, s.off, rhs, w, s.cp, s.y, s.q)
}

// rojoSolve solves A·x = rhs where A is the T×T symmetric circulant
// tridiagonal matrix with diagonal a, off-diagonal b and matching corner
// entries A[0,T-1] = A[T-1,0] = b. It runs in O(T) by a Sherman-Morrison
// correction of a plain tridiagonal (Thomas) solve: the corners are
// removed by a rank-one update A = B + uvᵀ with u = (γ,0,…,0,b)ᵀ and
// v = (1,0,…,0,b/γ)ᵀ, γ = -a.
//
// cp, y and q are length-T workspaces. x may alias rhs.
func rojoSolve(a, b float64, rhs, x, cp, y, q []float64) {
	T := len(rhs)
	if math.Abs(a) < 1e-15 {
		// Degenerate all-zero system; leave x untouched so the caller's
		// reseeding policy can take over.
		return
	}
	switch T {
	case 1:
		den := a + 2*b
		if math.Abs(den) < 1e-15 {
			// Singular for a = -2b; hand back to the reseeding policy.
			return
		}
		x[0] = rhs[0] / den
		return
	case 2:
		// Corners coincide with the off-diagonal band.
		b2 := 2 * b
		det := a*a - b2*b2
		if math.Abs(det) < 1e-15 {
			// Singular for a = ±2b; hand back to the reseeding policy.
			return
		}
		x0 := (a*rhs[0] - b2*rhs[1]) / det
		x[1] = (a*rhs[1] - b2*rhs[0]) / det
		x[0] = x0
		return
	}

	gamma := -a
	bg := b / gamma

	// Shared Thomas factorization of B, which differs from A only in
	// its first and last diagonal entries and missing corners.
	m := a - gamma
	cp[0] = b / m
	y[0] = rhs[0] / m
	q[0] = gamma / m
	for i := 1; i < T; i++ {
		di := a
		ui := 0.0
		if i == T-1 {
			di = a - b*bg
			ui = b
		}
		m = di - b*cp[i-1]
		cp[i] = b / m
		y[i] = (rhs[i] - b*y[i-1]) / m
		q[i] = (ui - b*q[i-1]) / m
	}
	for i := T - 2; i >= 0; i-- {
		y[i] -= cp[i] * y[i+1]
		q[i] -= cp[i] * q[i+1]
	}

	// Sherman-Morrison correction for the removed corners.
	f := (y[0] + bg*y[T-1]) / (1 + q[0] + bg*q[T-1])
	for i := 0; i < T; i++ {
		x[i] = y[i] - f*q[i]
	}
}

// wrap maps an index onto [0, T) modulo T.
func wrap(i, t int) int {
	i %= t
	if i < 0 {
		i += t
	}
	return i
}
