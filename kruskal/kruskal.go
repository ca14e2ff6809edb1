// Copyright 2025 The Warp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package kruskal provides operations on lists of CP factor matrices
// (Kruskal tensors): full reconstruction, mode unfolding, vectorization
// and norm-based standardization.
//
// A Kruskal tensor is a list of matrices, one per mode, each with one
// column per component: factors[i] has shape s_i×R. The package works on
// the column-per-component gonum layout produced by
// cpwarp.Decomposition.FactorMatrices; it describes unshifted CP models
// only, so per-slice shift parameters have no representation here.
package kruskal

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/warp-ml/warp/tensor"
)

// Norms below this are clamped during standardization to avoid division
// by zero on degenerate components.
const minNorm = 1e-20

// validateFactors checks that the factor list is nonempty and shares a
// common number of components, returning that rank.
func validateFactors(factors []*mat.Dense) (rank int, err error) {
	if len(factors) == 0 {
		return 0, fmt.Errorf("kruskal: empty factor list")
	}
	_, rank = factors[0].Dims()
	for i, f := range factors[1:] {
		if _, c := f.Dims(); c != rank {
			return 0, fmt.Errorf("kruskal: factor %d has %d components, want %d", i+1, c, rank)
		}
	}
	return rank, nil
}

// KhatriRao returns the column-wise Khatri-Rao product of the factor
// matrices, in order: the result has one row per combination of input
// rows (leftmost factor varying slowest) and one column per component.
func KhatriRao(factors []*mat.Dense) (*mat.Dense, error) {
	if _, err := validateFactors(factors); err != nil {
		return nil, err
	}
	acc := mat.DenseCopyOf(factors[0])
	for _, f := range factors[1:] {
		acc = khatriRao2(acc, f)
	}
	return acc, nil
}

func khatriRao2(a, b *mat.Dense) *mat.Dense {
	ar, rank := a.Dims()
	br, _ := b.Dims()
	out := mat.NewDense(ar*br, rank, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < br; j++ {
			row := i*br + j
			for r := 0; r < rank; r++ {
				out.Set(row, r, a.At(i, r)*b.At(j, r))
			}
		}
	}
	return out
}

// ToUnfolded returns the mode-`mode` unfolding of the Kruskal tensor,
// a matrix of shape s_mode × Π_{i≠mode} s_i, computed as
// factors[mode] · khatriRao(factors without mode)ᵀ.
func ToUnfolded(factors []*mat.Dense, mode int) (*mat.Dense, error) {
	if _, err := validateFactors(factors); err != nil {
		return nil, err
	}
	if mode < 0 || mode >= len(factors) {
		return nil, fmt.Errorf("kruskal: mode %d out of range for %d factors", mode, len(factors))
	}
	rest := make([]*mat.Dense, 0, len(factors)-1)
	for i, f := range factors {
		if i != mode {
			rest = append(rest, f)
		}
	}
	if len(rest) == 0 {
		return mat.DenseCopyOf(factors[mode]), nil
	}
	kr, err := KhatriRao(rest)
	if err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Mul(factors[mode], kr.T())
	return &out, nil
}

// ToTensor reconstructs the full third-order tensor from exactly three
// factor matrices of shapes N×R, K×R and T×R.
func ToTensor(factors []*mat.Dense) (*tensor.Dense3, error) {
	if len(factors) != 3 {
		return nil, fmt.Errorf("kruskal: ToTensor requires exactly 3 factors, got %d", len(factors))
	}
	unf, err := ToUnfolded(factors, 0)
	if err != nil {
		return nil, err
	}
	n, _ := factors[0].Dims()
	k, _ := factors[1].Dims()
	t, _ := factors[2].Dims()

	// The mode-0 unfolding is row-major over (k, t), which is exactly
	// the Dense3 layout, so the data can be copied straight across.
	out := tensor.NewDense3(n, k, t)
	data := out.Data()
	for i := 0; i < n; i++ {
		copy(data[i*k*t:(i+1)*k*t], unf.RawRowView(i))
	}
	return out, nil
}

// ToVec returns the Kruskal tensor raveled into a vector, the row-major
// flattening of its mode-0 unfolding.
func ToVec(factors []*mat.Dense) ([]float64, error) {
	unf, err := ToUnfolded(factors, 0)
	if err != nil {
		return nil, err
	}
	r, c := unf.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, unf.RawRowView(i)...)
	}
	return out, nil
}

// Standardize normalizes every factor column to unit Euclidean norm,
// accumulates the norms into one scale per component, and reorders the
// components by descending scale. The inputs are not modified; fresh
// factor matrices and the sorted scales are returned.
func Standardize(factors []*mat.Dense) ([]*mat.Dense, []float64, error) {
	rank, err := validateFactors(factors)
	if err != nil {
		return nil, nil, err
	}

	lam := make([]float64, rank)
	for r := range lam {
		lam[r] = 1
	}
	normed := make([]*mat.Dense, len(factors))
	for i, f := range factors {
		rows, _ := f.Dims()
		col := make([]float64, rows)
		nf := mat.NewDense(rows, rank, nil)
		for r := 0; r < rank; r++ {
			mat.Col(col, r, f)
			s := floats.Norm(col, 2)
			if s < minNorm {
				s = minNorm
			}
			for j, v := range col {
				nf.Set(j, r, v/s)
			}
			lam[r] *= s
		}
		normed[i] = nf
	}

	// Permute components by descending scale.
	perm := make([]int, rank)
	for r := range perm {
		perm[r] = r
	}
	sort.SliceStable(perm, func(a, b int) bool { return lam[perm[a]] > lam[perm[b]] })

	sortedLam := make([]float64, rank)
	for r, p := range perm {
		sortedLam[r] = lam[p]
	}
	out := make([]*mat.Dense, len(normed))
	for i, f := range normed {
		rows, _ := f.Dims()
		pf := mat.NewDense(rows, rank, nil)
		for r, p := range perm {
			for j := 0; j < rows; j++ {
				pf.Set(j, r, f.At(j, p))
			}
		}
		out[i] = pf
	}
	return out, sortedLam, nil
}
