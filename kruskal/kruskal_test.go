package kruskal_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/warp-ml/warp/kruskal"
)

func randMat(rng *rand.Rand, r, c int) *mat.Dense {
	m := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, rng.Float64()-0.5)
		}
	}
	return m
}

func TestKhatriRao_SmallCase(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 2, []float64{5, 6, 7, 8})

	kr, err := kruskal.KhatriRao([]*mat.Dense{a, b})
	require.NoError(t, err)

	want := mat.NewDense(4, 2, []float64{
		1 * 5, 2 * 6,
		1 * 7, 2 * 8,
		3 * 5, 4 * 6,
		3 * 7, 4 * 8,
	})
	assert.True(t, mat.EqualApprox(kr, want, 1e-14), "got %v", mat.Formatted(kr))
}

func TestToTensor_MatchesTripleLoop(t *testing.T) {
	const n, k, T, rank = 3, 4, 5, 2
	rng := rand.New(rand.NewPCG(51, 52))
	factors := []*mat.Dense{
		randMat(rng, n, rank),
		randMat(rng, k, rank),
		randMat(rng, T, rank),
	}

	full, err := kruskal.ToTensor(factors)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			for l := 0; l < T; l++ {
				want := 0.0
				for r := 0; r < rank; r++ {
					want += factors[0].At(i, r) * factors[1].At(j, r) * factors[2].At(l, r)
				}
				assert.InDelta(t, want, full.At(i, j, l), 1e-12)
			}
		}
	}
}

func TestToUnfolded_ModeOne(t *testing.T) {
	const n, k, T, rank = 2, 3, 4, 2
	rng := rand.New(rand.NewPCG(53, 54))
	factors := []*mat.Dense{
		randMat(rng, n, rank),
		randMat(rng, k, rank),
		randMat(rng, T, rank),
	}

	unf, err := kruskal.ToUnfolded(factors, 1)
	require.NoError(t, err)

	r, c := unf.Dims()
	require.Equal(t, k, r)
	require.Equal(t, n*T, c)

	// Column i*T+l of the mode-1 unfolding is the (i, :, l) slice.
	for j := 0; j < k; j++ {
		for i := 0; i < n; i++ {
			for l := 0; l < T; l++ {
				want := 0.0
				for q := 0; q < rank; q++ {
					want += factors[0].At(i, q) * factors[1].At(j, q) * factors[2].At(l, q)
				}
				assert.InDelta(t, want, unf.At(j, i*T+l), 1e-12)
			}
		}
	}
}

func TestToVec_RavelsModeZero(t *testing.T) {
	const n, k, T, rank = 2, 2, 3, 2
	rng := rand.New(rand.NewPCG(55, 56))
	factors := []*mat.Dense{
		randMat(rng, n, rank),
		randMat(rng, k, rank),
		randMat(rng, T, rank),
	}

	vec, err := kruskal.ToVec(factors)
	require.NoError(t, err)
	full, err := kruskal.ToTensor(factors)
	require.NoError(t, err)

	require.Len(t, vec, n*k*T)
	assert.InDeltaSlice(t, full.Data(), vec, 1e-14)
}

func TestStandardize_SortsAndNormalizes(t *testing.T) {
	const n, k, T, rank = 4, 5, 6, 3
	rng := rand.New(rand.NewPCG(57, 58))
	factors := []*mat.Dense{
		randMat(rng, n, rank),
		randMat(rng, k, rank),
		randMat(rng, T, rank),
	}

	normed, lam, err := kruskal.Standardize(factors)
	require.NoError(t, err)
	require.Len(t, lam, rank)

	// Scales are sorted in descending order.
	for r := 1; r < rank; r++ {
		assert.GreaterOrEqual(t, lam[r-1], lam[r])
	}

	// Every factor column has unit norm.
	for _, f := range normed {
		rows, _ := f.Dims()
		col := make([]float64, rows)
		for r := 0; r < rank; r++ {
			mat.Col(col, r, f)
			norm := 0.0
			for _, v := range col {
				norm += v * v
			}
			assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-12)
		}
	}

	// Rescaling by lam reproduces the original tensor.
	rescaled := mat.DenseCopyOf(normed[0])
	rows, _ := rescaled.Dims()
	for r := 0; r < rank; r++ {
		for i := 0; i < rows; i++ {
			rescaled.Set(i, r, rescaled.At(i, r)*lam[r])
		}
	}
	got, err := kruskal.ToTensor([]*mat.Dense{rescaled, normed[1], normed[2]})
	require.NoError(t, err)
	want, err := kruskal.ToTensor(factors)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want.Data(), got.Data(), 1e-10)
}

func TestValidation_Errors(t *testing.T) {
	rng := rand.New(rand.NewPCG(59, 60))

	_, err := kruskal.KhatriRao(nil)
	assert.Error(t, err)

	mismatched := []*mat.Dense{randMat(rng, 3, 2), randMat(rng, 4, 3)}
	_, err = kruskal.KhatriRao(mismatched)
	assert.Error(t, err)

	_, err = kruskal.ToUnfolded([]*mat.Dense{randMat(rng, 3, 2)}, 1)
	assert.Error(t, err)

	_, err = kruskal.ToTensor([]*mat.Dense{randMat(rng, 3, 2), randMat(rng, 4, 2)})
	assert.Error(t, err)
}
