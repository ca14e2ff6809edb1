// Copyright 2025 The Warp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/warp-ml/warp/internal/tensor"
)

// Dense is a 2-D float64 array with contiguous row-major storage.
type Dense = tensor.Dense

// Dense3 is a 3-D float64 array with contiguous row-major storage and
// the last axis contiguous.
type Dense3 = tensor.Dense3

// Bool3 is a 3-D boolean observation mask with the same layout as Dense3.
type Bool3 = tensor.Bool3

// NewDense allocates a rows×cols matrix of zeros.
func NewDense(rows, cols int) *Dense {
	return tensor.NewDense(rows, cols)
}

// NewDenseData wraps an existing slice as a rows×cols matrix without
// copying. The slice length must equal rows*cols.
func NewDenseData(rows, cols int, data []float64) (*Dense, error) {
	return tensor.NewDenseData(rows, cols, data)
}

// NewDense3 allocates an n×k×t array of zeros.
func NewDense3(n, k, t int) *Dense3 {
	return tensor.NewDense3(n, k, t)
}

// NewDense3Data wraps an existing slice as an n×k×t array without
// copying. The slice length must equal n*k*t.
func NewDense3Data(n, k, t int, data []float64) (*Dense3, error) {
	return tensor.NewDense3Data(n, k, t, data)
}

// NewBool3 allocates an n×k×t boolean mask (all false).
func NewBool3(n, k, t int) *Bool3 {
	return tensor.NewBool3(n, k, t)
}
