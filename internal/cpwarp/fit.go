package cpwarp

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/warp-ml/warp/internal/parallel"
	"github.com/warp-ml/warp/internal/shifts"
	"github.com/warp-ml/warp/internal/tensor"
)

// Factor vectors whose entries all fall below this magnitude are reseeded
// from uniform random values to escape degenerate fixed points.
const epsDegenerate = 1e-9

// Denominator guard for the closed-form 1-D least-squares updates.
const epsDenom = 1e-12

// Fit fits a rank-component shifted, semi-nonnegative CP decomposition to
// the third-order array x by block coordinate descent with a random
// search over the per-slice shift parameters.
//
// The factor arrays u (R×N), v (R×K), w (R×T) and shift arrays uShift
// (R×N), vShift (R×K) supply the initialization, random or warm-started
// by the caller, and are mutated in place; the returned Decomposition
// references the same storage. mask may be nil, meaning every entry of x
// is observed. When a mask is present, entries marked false are
// overwritten in place with the current model estimate once per outer
// iteration (missing-data imputation).
//
// Fit returns an error only for invalid configurations or shape
// mismatches, detected before the loop starts. Non-convergence within
// MaxIter is not an error: the current state and the full loss history
// are always returned.
func Fit(x *tensor.Dense3, mask *tensor.Bool3, rank int, u, v, w, uShift, vShift *tensor.Dense, cfg Config) (*Decomposition, error) {
	cfg = cfg.withDefaults()
	if err := validate(x, mask, rank, u, v, w, uShift, vShift, cfg); err != nil {
		return nil, err
	}

	n, k, t := x.Dims()
	op := shifts.ForBoundary(cfg.Periodic)
	src := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	f := &fitter{
		cfg:  cfg,
		op:   op,
		x:    x,
		mask: mask,

		u: u, v: v, w: w,
		uShift: uShift, vShift: vShift,
		rank: rank, n: n, k: k, t: t,
		maxShift0: cfg.MaxShiftAxis0 * float64(t),
		maxShift1: cfg.MaxShiftAxis1 * float64(t),

		xest:           tensor.NewDense3(n, k, t),
		z:              tensor.NewDense3(n, k, t),
		predictScratch: tensor.NewDense(k, t),
		searchScratch:  tensor.NewDense(max(n, k), t),
		cands:          tensor.NewDense(max(n, k), cfg.WarpIterations),
		ww:             make([]float64, t),
		rhs:            make([]float64, t),
		solver:         op.ProfileSolver(t),

		src:   src,
		rng:   rand.New(src),
		uni01: distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
	return f.run(), nil
}

// fitter owns every buffer for the duration of one Fit call. x, xest and
// z never alias each other, so the parallel inner loops can read x and z
// while writing disjoint regions of their outputs.
type fitter struct {
	cfg  Config
	op   shifts.Operator
	x    *tensor.Dense3
	mask *tensor.Bool3

	u, v, w        *tensor.Dense
	uShift, vShift *tensor.Dense
	rank, n, k, t  int

	// Shift bounds in samples: configured fraction times T.
	maxShift0, maxShift1 float64

	xest, z        *tensor.Dense3
	predictScratch *tensor.Dense // one shifted-profile row per k, for predictInto
	searchScratch  *tensor.Dense // one shifted-profile row per search index
	cands          *tensor.Dense // candidate shifts, one row per search index
	ww, rhs        []float64
	solver         shifts.ProfileSolver

	src   *rand.PCG
	rng   *rand.Rand
	uni01 distuv.Uniform

	iter  int
	xnorm float64
}

func (f *fitter) run() *Decomposition {
	// Shift bounds are a hard invariant; warm starts outside the bound
	// are clamped rather than rejected.
	clampAbs(f.uShift.Data(), f.maxShift0)
	clampAbs(f.vShift.Data(), f.maxShift1)

	// With a mask, unobserved entries may hold arbitrary values; impute
	// them from the initial model before the reference norm is taken.
	if f.mask != nil {
		f.predict(noSkip)
		f.impute()
	}
	f.xnorm = f.x.Norm()
	if f.xnorm < epsDenom {
		// All-zero data admits the trivial exact model immediately.
		f.xnorm = 1
	}

	minIter := max(f.cfg.Patience, f.cfg.MinIter)
	lossHist := make([]float64, 0, f.cfg.MaxIter)

	converged := false
	for f.iter = 0; f.iter < f.cfg.MaxIter && !converged; f.iter++ {

		// Visit (component, parameter-group) pairs in random order.
		for _, pair := range f.rng.Perm(f.rank * 5) {
			r := pair / 5

			// Leave-one-out residual for component r.
			f.predict(r)
			tensor.Sub(f.z, f.x, f.xest)

			switch pair % 5 {
			case 0:
				f.updateU(r)
			case 1:
				f.updateV(r)
			case 2:
				f.updateW(r)
			case 3:
				// Shifts stay fixed on the first pass so the weights
				// and profiles can settle first.
				if f.iter > 0 {
					f.updateUShift(r)
				}
			case 4:
				if f.iter > 0 {
					f.updateVShift(r)
				}
			}
		}

		f.predict(noSkip)
		if f.mask != nil {
			f.impute()
		}
		tensor.Sub(f.z, f.x, f.xest)
		lossHist = append(lossHist, floats.Norm(f.z.Data(), 2)/f.xnorm)

		if len(lossHist) > minIter {
			converged = math.Abs(lossHist[len(lossHist)-f.cfg.Patience]-lossHist[len(lossHist)-1]) < f.cfg.Tol
		}
	}

	return &Decomposition{
		U: f.u, V: f.v, W: f.w,
		UShift: f.uShift, VShift: f.vShift,
		Periodic: f.cfg.Periodic,
		LossHist: lossHist,
	}
}

func (f *fitter) predict(skip int) {
	predictInto(f.op, f.u, f.v, f.w, f.uShift, f.vShift, f.xest, skip, f.predictScratch, f.cfg.Parallel)
}

// impute overwrites unobserved entries of x with the current estimate so
// that later residuals treat them as perfectly explained.
func (f *fitter) impute() {
	xd, ed, md := f.x.Data(), f.xest.Data(), f.mask.Data()
	for i, observed := range md {
		if !observed {
			xd[i] = ed[i]
		}
	}
}

// updateU solves the closed-form 1-D least-squares problem for every
// axis-0 weight of component r against the leave-one-out residual.
func (f *fitter) updateU(r int) {
	ur, vr, wr := f.u.Row(r), f.v.Row(r), f.w.Row(r)
	usr, vsr := f.uShift.Row(r), f.vShift.Row(r)

	for i := 0; i < f.n; i++ {
		num, den := 0.0, 0.0
		for j := 0; j < f.k; j++ {
			f.op.ApplyShift(wr, usr[i]+vsr[j], f.ww)
			num += vr[j] * floats.Dot(f.z.Fiber(i, j), f.ww)
			den += vr[j] * vr[j] * floats.Dot(f.ww, f.ww)
		}
		if den > epsDenom {
			ur[i] = num / den
		} else {
			ur[i] = 0
		}
	}

	// An all-negative factor is a sign ambiguity against the temporal
	// profile; flip both together so the product is preserved.
	if allNegative(ur) {
		floats.Scale(-1, ur)
		floats.Scale(-1, wr)
	}
	if f.cfg.UNonneg {
		clampNonneg(ur)
	}
	f.preventZeros(ur)
}

// updateV mirrors updateU with the roles of the first two axes swapped.
func (f *fitter) updateV(r int) {
	ur, vr, wr := f.u.Row(r), f.v.Row(r), f.w.Row(r)
	usr, vsr := f.uShift.Row(r), f.vShift.Row(r)

	for j := 0; j < f.k; j++ {
		num, den := 0.0, 0.0
		for i := 0; i < f.n; i++ {
			f.op.ApplyShift(wr, usr[i]+vsr[j], f.ww)
			num += ur[i] * floats.Dot(f.z.Fiber(i, j), f.ww)
			den += ur[i] * ur[i] * floats.Dot(f.ww, f.ww)
		}
		if den > epsDenom {
			vr[j] = num / den
		} else {
			vr[j] = 0
		}
	}

	if allNegative(vr) {
		floats.Scale(-1, vr)
		floats.Scale(-1, wr)
	}
	if f.cfg.VNonneg {
		clampNonneg(vr)
	}
	f.preventZeros(vr)
}

// updateW assembles the banded or circulant normal equations for the
// temporal profile of component r and solves them with the
// boundary-specific solver.
func (f *fitter) updateW(r int) {
	ur, vr, wr := f.u.Row(r), f.v.Row(r), f.w.Row(r)
	usr, vsr := f.uShift.Row(r), f.vShift.Row(r)

	f.solver.Reset()
	for i := range f.rhs {
		f.rhs[i] = 0
	}
	for i := 0; i < f.n; i++ {
		for j := 0; j < f.k; j++ {
			shift := usr[i] + vsr[j]
			uv := ur[i] * vr[j]
			f.solver.Accumulate(shift, uv*uv)
			f.op.TransShift(f.z.Fiber(i, j), shift, f.ww)
			floats.AddScaled(f.rhs, uv, f.ww)
		}
	}
	f.solver.Solve(f.rhs, wr)

	// The padded solver projects during descent; the periodic solve is
	// exact and unconstrained, so project here to keep the temporal
	// profile nonnegative under either convention.
	clampNonneg(wr)
	f.preventZeros(wr)
}

// updateUShift runs an independent random search per axis-0 index over
// that index's slice of the leave-one-out residual.
func (f *fitter) updateUShift(r int) {
	usr := f.uShift.Row(r)
	f.sampleCandidates(f.n, usr, f.maxShift0)

	ur, vr, wr := f.u.Row(r), f.v.Row(r), f.w.Row(r)
	vsr := f.vShift.Row(r)
	parallel.For(f.n, func(i int) {
		row := func(j int) []float64 { return f.z.Fiber(i, j) }
		usr[i] = shiftSearch(f.op, row, f.k, ur[i], vr, vsr, wr,
			f.cands.Row(i), f.searchScratch.Row(i))
	}, f.cfg.Parallel)
}

// updateVShift mirrors updateUShift along axis 1.
func (f *fitter) updateVShift(r int) {
	vsr := f.vShift.Row(r)
	f.sampleCandidates(f.k, vsr, f.maxShift1)

	ur, vr, wr := f.u.Row(r), f.v.Row(r), f.w.Row(r)
	usr := f.uShift.Row(r)
	parallel.For(f.k, func(j int) {
		row := func(i int) []float64 { return f.z.Fiber(i, j) }
		vsr[j] = shiftSearch(f.op, row, f.n, vr[j], ur, usr, wr,
			f.cands.Row(j), f.searchScratch.Row(j))
	}, f.cfg.Parallel)
}

// sampleCandidates fills one candidate row per search index. Candidate 0
// is the current shift so the search can only improve; the rest are
// uniform draws within the bound. All drawing happens here, on the
// fitter's goroutine, so the search workers never touch the shared
// generator.
func (f *fitter) sampleCandidates(m int, current []float64, bound float64) {
	dist := distuv.Uniform{Min: -bound, Max: bound, Src: f.src}
	for i := 0; i < m; i++ {
		row := f.cands.Row(i)
		row[0] = current[i]
		for c := 1; c < len(row); c++ {
			row[c] = dist.Rand()
		}
	}
}

// preventZeros reseeds a factor vector from uniform [0,1) draws when all
// of its entries have collapsed below the degeneracy threshold.
func (f *fitter) preventZeros(x []float64) {
	for _, xi := range x {
		if math.Abs(xi) > epsDegenerate {
			return
		}
	}
	for i := range x {
		x[i] = f.uni01.Rand()
	}
}

func allNegative(x []float64) bool {
	for _, v := range x {
		if v >= 0 {
			return false
		}
	}
	return len(x) > 0
}

func clampNonneg(x []float64) {
	for i, v := range x {
		if v < 0 {
			x[i] = 0
		}
	}
}

func clampAbs(x []float64, bound float64) {
	for i, v := range x {
		switch {
		case v > bound:
			x[i] = bound
		case v < -bound:
			x[i] = -bound
		}
	}
}
