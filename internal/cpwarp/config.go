// Package cpwarp fits shifted, semi-nonnegative CP decompositions of
// third-order arrays by block coordinate descent.
//
// The model approximates an (N, K, T) array X as
//
//	X[n,k,t] ≈ Σ_r u[r,n] · v[r,k] · w[r, t + uShift[r,n] + vShift[r,k]]
//
// where the temporal profiles w[r] are shifted per slice along the first
// two axes, under either a zero-padded or periodic boundary convention.
package cpwarp

import (
	"fmt"

	"github.com/warp-ml/warp/internal/parallel"
	"github.com/warp-ml/warp/internal/tensor"
)

// Config controls the behavior of a Fit call. The zero value of a numeric
// field selects its default; negative values are rejected.
type Config struct {
	// MinIter is the minimum number of outer iterations before
	// convergence may be declared (default 10). If Patience is larger,
	// Patience is used instead.
	MinIter int

	// MaxIter caps the number of outer iterations (default 1000).
	MaxIter int

	// Tol is the convergence tolerance on the loss history (default 1e-4).
	Tol float64

	// WarpIterations is the number of random-search candidates evaluated
	// per shift update, including the current value (default 10).
	WarpIterations int

	// MaxShiftAxis0 and MaxShiftAxis1 bound the shift magnitudes as
	// fractions of the temporal length T (default 0.1 each).
	MaxShiftAxis0 float64
	MaxShiftAxis1 float64

	// UNonneg and VNonneg project the axis-0 and axis-1 factors onto the
	// nonnegative orthant after each update.
	UNonneg bool
	VNonneg bool

	// Periodic selects the wraparound boundary convention for shifting;
	// the default is zero padding.
	Periodic bool

	// Patience is the loss-history lag used for the convergence test
	// (default 5).
	Patience int

	// Seed initializes the fitter's random generator. Fits with the same
	// seed, inputs and configuration are deterministic.
	Seed uint64

	// Parallel controls worker parallelism for the independent inner
	// loops (shift search and prediction). The zero value selects
	// parallel.DefaultConfig.
	Parallel parallel.Config
}

// withDefaults returns a copy of c with zero-valued fields replaced by
// their defaults.
func (c Config) withDefaults() Config {
	if c.MinIter == 0 {
		c.MinIter = 10
	}
	if c.MaxIter == 0 {
		c.MaxIter = 1000
	}
	if c.Tol == 0 {
		c.Tol = 1e-4
	}
	if c.WarpIterations == 0 {
		c.WarpIterations = 10
	}
	if c.MaxShiftAxis0 == 0 {
		c.MaxShiftAxis0 = 0.1
	}
	if c.MaxShiftAxis1 == 0 {
		c.MaxShiftAxis1 = 0.1
	}
	if c.Patience == 0 {
		c.Patience = 5
	}
	if c.Parallel == (parallel.Config{}) {
		c.Parallel = parallel.DefaultConfig()
	}
	return c
}

// validate rejects invalid configurations and shape mismatches before the
// fit loop starts. It assumes defaults have been applied.
func validate(x *tensor.Dense3, mask *tensor.Bool3, rank int, u, v, w, uShift, vShift *tensor.Dense, cfg Config) error {
	if rank <= 0 {
		return fmt.Errorf("cpwarp: rank must be positive, got %d", rank)
	}
	if cfg.MaxIter <= 0 {
		return fmt.Errorf("cpwarp: MaxIter must be positive, got %d", cfg.MaxIter)
	}
	if cfg.MinIter < 0 {
		return fmt.Errorf("cpwarp: MinIter must not be negative, got %d", cfg.MinIter)
	}
	if cfg.Tol < 0 {
		return fmt.Errorf("cpwarp: Tol must not be negative, got %g", cfg.Tol)
	}
	if cfg.WarpIterations <= 0 {
		return fmt.Errorf("cpwarp: WarpIterations must be positive, got %d", cfg.WarpIterations)
	}
	if cfg.MaxShiftAxis0 <= 0 || cfg.MaxShiftAxis1 <= 0 {
		return fmt.Errorf("cpwarp: shift bounds must be positive, got %g and %g",
			cfg.MaxShiftAxis0, cfg.MaxShiftAxis1)
	}
	if cfg.Patience <= 0 {
		return fmt.Errorf("cpwarp: Patience must be positive, got %d", cfg.Patience)
	}

	n, k, t := x.Dims()
	if mask != nil {
		mn, mk, mt := mask.Dims()
		if mn != n || mk != k || mt != t {
			return fmt.Errorf("cpwarp: mask shape %d×%d×%d does not match data shape %d×%d×%d",
				mn, mk, mt, n, k, t)
		}
	}
	for _, f := range []struct {
		name string
		m    *tensor.Dense
		cols int
	}{
		{"u", u, n},
		{"v", v, k},
		{"w", w, t},
		{"uShift", uShift, n},
		{"vShift", vShift, k},
	} {
		fr, fc := f.m.Dims()
		if fr != rank || fc != f.cols {
			return fmt.Errorf("cpwarp: %s shape %d×%d does not match rank %d and axis length %d",
				f.name, fr, fc, rank, f.cols)
		}
	}
	return nil
}
