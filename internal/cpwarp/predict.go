package cpwarp

import (
	"gonum.org/v1/gonum/floats"

	"github.com/warp-ml/warp/internal/parallel"
	"github.com/warp-ml/warp/internal/shifts"
	"github.com/warp-ml/warp/internal/tensor"
)

// noSkip disables component skipping in predictInto.
const noSkip = -1

// predictInto fills result with the model estimate
//
//	result[n,k,:] = Σ_r u[r,n]·v[r,k]·shift(w[r], uShift[r,n]+vShift[r,k])
//
// optionally excluding component skip (pass noSkip to include all).
// scratch must provide one length-T row per index along the second axis.
// result is zeroed first, and each parallel iteration writes only the
// fibers of its own k index, so the per-k loop is data-race free.
func predictInto(op shifts.Operator, u, v, w, uShift, vShift *tensor.Dense, result *tensor.Dense3, skip int, scratch *tensor.Dense, par parallel.Config) {
	n, k, _ := result.Dims()
	rank, _ := u.Dims()
	result.Fill(0)

	parallel.For(k, func(j int) {
		ws := scratch.Row(j)
		for i := 0; i < n; i++ {
			fiber := result.Fiber(i, j)
			for r := 0; r < rank; r++ {
				if r == skip {
					continue
				}
				op.ApplyShift(w.Row(r), uShift.At(r, i)+vShift.At(r, j), ws)
				floats.AddScaled(fiber, u.At(r, i)*v.At(r, j), ws)
			}
		}
	}, par)
}
