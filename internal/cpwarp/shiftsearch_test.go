package cpwarp

import (
	"testing"

	"github.com/warp-ml/warp/internal/shifts"
)

// searchBlock builds a synthetic residual block Z[m] = y·f[m]·shift(w, s+fShift[m])
// so the loss is exactly zero at the true shift.
func searchBlock(op shifts.Operator, y float64, f, fShift, w []float64, trueShift float64) [][]float64 {
	m := len(f)
	block := make([][]float64, m)
	for i := 0; i < m; i++ {
		block[i] = make([]float64, len(w))
		op.ApplyShift(w, trueShift+fShift[i], block[i])
		for t := range block[i] {
			block[i][t] *= y * f[i]
		}
	}
	return block
}

func TestShiftSearch_FindsKnownShift(t *testing.T) {
	op := shifts.Periodic{}
	w := []float64{0, 1, 4, 9, 4, 1, 0, 0}
	f := []float64{0.5, 1.5, 1.0}
	fShift := []float64{0.25, -1.0, 0.5}
	const y, trueShift = 2.0, 1.5

	block := searchBlock(op, y, f, fShift, w, trueShift)
	row := func(i int) []float64 { return block[i] }

	candidates := []float64{0, -2.25, trueShift, 3.0}
	scratch := make([]float64, len(w))
	got := shiftSearch(op, row, len(f), y, f, fShift, w, candidates, scratch)

	if got != trueShift {
		t.Fatalf("got shift %g, want %g", got, trueShift)
	}
}

func TestShiftSearch_KeepsSeedWhenOptimal(t *testing.T) {
	op := shifts.Padded{}
	w := []float64{1, 3, 5, 3, 1, 0}
	f := []float64{1, 1}
	fShift := []float64{0, 0}
	const y, seed = 1.0, 0.75

	block := searchBlock(op, y, f, fShift, w, seed)
	row := func(i int) []float64 { return block[i] }

	// The seed is candidate 0; no later candidate can strictly beat its
	// zero loss, so the search must return it unchanged.
	candidates := []float64{seed, 0.5, -1.0, 2.0}
	scratch := make([]float64, len(w))
	got := shiftSearch(op, row, len(f), y, f, fShift, w, candidates, scratch)

	if got != seed {
		t.Fatalf("got shift %g, want seed %g", got, seed)
	}
}

func TestShiftSearch_TieKeepsFirstCandidate(t *testing.T) {
	op := shifts.Periodic{}
	w := []float64{2, 4, 6, 8}
	f := []float64{1}
	fShift := []float64{0}
	const y, trueShift = 1.0, 1.0

	block := searchBlock(op, y, f, fShift, w, trueShift)
	row := func(i int) []float64 { return block[i] }

	// Both candidates score identically; the first must win.
	candidates := []float64{trueShift, trueShift - 4}
	scratch := make([]float64, len(w))
	got := shiftSearch(op, row, len(f), y, f, fShift, w, candidates, scratch)

	if got != trueShift {
		t.Fatalf("got shift %g, want first candidate %g", got, trueShift)
	}
}
