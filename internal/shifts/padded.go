package shifts

// Padded is the zero-padded boundary convention: positions shifted outside
// [0, T) read as zero.
type Padded struct{}

// ApplyShift writes into out the profile shifted by a fractional offset
// with zero padding outside the valid range.
func (Padded) ApplyShift(profile []float64, shift float64, out []float64) {
	T := len(profile)
	d, r := splitShift(shift)
	for t := 0; t < T; t++ {
		v := 0.0
		if j := t - d; j >= 0 && j < T {
			v += (1 - r) * profile[j]
		}
		if j := t - d - 1; j >= 0 && j < T {
			v += r * profile[j]
		}
		out[t] = v
	}
}

// TransShift applies the adjoint of the padded shift operator to a
// residual slice.
func (Padded) TransShift(resid []float64, shift float64, out []float64) {
	T := len(resid)
	d, r := splitShift(shift)
	for j := 0; j < T; j++ {
		v := 0.0
		if t := j + d; t >= 0 && t < T {
			v += (1 - r) * resid[t]
		}
		if t := j + d + 1; t >= 0 && t < T {
			v += r * resid[t]
		}
		out[j] = v
	}
}

// ProfileSolver returns a banded accumulator solved by projected gradient
// descent. Zero padding breaks the circulant structure, so no closed form
// is available; a fixed number of projected gradient steps is robust and
// keeps the profile nonnegative.
func (Padded) ProfileSolver(t int) ProfileSolver {
	return &paddedSolver{
		diag:    make([]float64, t),
		super:   make([]float64, t),
		scratch: make([]float64, t),
	}
}

// Diagonal ridge added to the banded system for numerical stability.
const paddedRidge = 1e-8

// Number of projected gradient steps per profile update.
const pgdSteps = 10

// paddedSolver holds the symmetric tridiagonal normal-equation matrix in
// banded form: diag[j] = G[j,j] and super[j] = G[j-1,j] (super[0] unused).
type paddedSolver struct {
	diag, super []float64
	scratch     []float64
}

func (s *paddedSolver) Reset() {
	for j := range s.diag {
		s.diag[j] = paddedRidge
		s.super[j] = 0
	}
}

// Accumulate adds weight times the Gram matrix of the padded shift
// operator at the given offset. Column j of the operator receives
// coefficient 1-r from row j+d and r from row j+d+1 when those rows exist.
func (s *paddedSolver) Accumulate(shift, weight float64) {
	T := len(s.diag)
	d, r := splitShift(shift)
	c0 := weight * (1 - r) * (1 - r)
	c1 := weight * r * r
	co := weight * r * (1 - r)
	for j := 0; j < T; j++ {
		if t := j + d; t >= 0 && t < T {
			s.diag[j] += c0
			if j > 0 {
				s.super[j] += co
			}
		}
		if t := j + d + 1; t >= 0 && t < T {
			s.diag[j] += c1
		}
	}
}

// Solve runs projected gradient descent on ½wᵀGw - rhsᵀw subject to w ≥ 0.
// The step size is 0.95/L with L a Gershgorin bound on the spectrum of G.
func (s *paddedSolver) Solve(rhs, w []float64) {
	T := len(rhs)

	// Lipschitz bound by the Gershgorin circle theorem.
	L := 0.0
	for t := 0; t < T; t++ {
		lt := s.diag[t] + s.super[t]
		if t+1 < T {
			lt += s.super[t+1]
		}
		if lt > L {
			L = lt
		}
	}
	if L <= 0 {
		return
	}

	ss := 0.95 / L
	for iter := 0; iter < pgdSteps; iter++ {
		symBandedMulVec(s.diag, s.super, w, s.scratch)
		for t := 0; t < T; t++ {
			wt := w[t] - ss*(s.scratch[t]-rhs[t])
			if wt < 0 {
				wt = 0
			}
			w[t] = wt
		}
	}
}

// symBandedMulVec computes out = G·w for a symmetric tridiagonal G stored
// as diag[j] = G[j,j], super[j] = G[j-1,j]. out must not alias w.
func symBandedMulVec(diag, super, w, out []float64) {
	T := len(w)
	for t := 0; t < T; t++ {
		v := diag[t] * w[t]
		if t > 0 {
			v += super[t] * w[t-1]
		}
		if t+1 < T {
			v += super[t+1] * w[t+1]
		}
		out[t] = v
	}
}
