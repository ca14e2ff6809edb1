package cpwarp

import (
	"gonum.org/v1/gonum/mat"

	"github.com/warp-ml/warp/internal/parallel"
	"github.com/warp-ml/warp/internal/shifts"
	"github.com/warp-ml/warp/internal/tensor"
)

// Decomposition bundles the fitted factors, per-slice shifts and loss
// history of a shifted CP model. Factor matrices are component-major:
// row r of each array belongs to component r.
type Decomposition struct {
	U *tensor.Dense // R×N axis-0 weights
	V *tensor.Dense // R×K axis-1 weights
	W *tensor.Dense // R×T temporal profiles

	UShift *tensor.Dense // R×N per-slice shifts along axis 0
	VShift *tensor.Dense // R×K per-slice shifts along axis 1

	// Periodic records the boundary convention the model was fit under.
	Periodic bool

	// LossHist holds one normalized residual norm per outer iteration.
	LossHist []float64
}

// Rank returns the number of components.
func (d *Decomposition) Rank() int {
	r, _ := d.U.Dims()
	return r
}

// Predict fills result with the full model estimate. result must have
// shape N×K×T matching the factors.
func (d *Decomposition) Predict(result *tensor.Dense3) {
	_, k, t := result.Dims()
	scratch := tensor.NewDense(k, t)
	predictInto(shifts.ForBoundary(d.Periodic), d.U, d.V, d.W, d.UShift, d.VShift,
		result, noSkip, scratch, parallel.DefaultConfig())
}

// FactorMatrices returns the factors as column-per-component gonum
// matrices (N×R, K×R and T×R), the layout the kruskal package operates
// on. The per-slice shifts are not representable in that form; the
// matrices describe the unshifted part of the model.
func (d *Decomposition) FactorMatrices() (uf, vf, wf *mat.Dense) {
	return toColumns(d.U), toColumns(d.V), toColumns(d.W)
}

// toColumns transposes a component-major R×M factor array into an M×R
// gonum matrix with one column per component.
func toColumns(f *tensor.Dense) *mat.Dense {
	r, m := f.Dims()
	out := mat.NewDense(m, r, nil)
	for i := 0; i < r; i++ {
		row := f.Row(i)
		for j := 0; j < m; j++ {
			out.Set(j, i, row[j])
		}
	}
	return out
}
