package cpwarp

import (
	"math"

	"github.com/warp-ml/warp/internal/shifts"
)

// shiftSearch evaluates candidate shift values for one slice of the
// leave-one-out residual and returns the best one.
//
// The block has m rows of length T, accessed through row(i); y is the
// factor weight of the slice being updated, f and fShift are the factor
// and shift vectors of the opposite axis. candidates[0] must be the
// current shift value so the search can never regress; ties keep the
// earliest candidate.
//
// Scoring a candidate accumulates squared residuals row by row, which is
// monotone nondecreasing, so the loop may stop as soon as the running
// loss exceeds the best found so far. That pruning is only valid because
// every term is a square; keep it that way.
func shiftSearch(op shifts.Operator, row func(i int) []float64, m int, y float64, f, fShift, w, candidates, scratch []float64) float64 {
	best := candidates[0]
	bestLoss := math.Inf(1)

	for _, s := range candidates {
		loss := 0.0
		for i := 0; i < m; i++ {
			op.ApplyShift(w, s+fShift[i], scratch)
			yf := y * f[i]
			z := row(i)
			for t, zt := range z {
				d := zt - yf*scratch[t]
				loss += d * d
			}
			if loss > bestLoss {
				break
			}
		}
		if loss < bestLoss {
			bestLoss = loss
			best = s
		}
	}
	return best
}
