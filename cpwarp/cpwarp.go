// Copyright 2025 The Warp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpwarp

import (
	"github.com/warp-ml/warp/internal/cpwarp"
	"github.com/warp-ml/warp/tensor"
)

// Config controls the behavior of a Fit call. The zero value of a numeric
// field selects its default; see the field documentation for the values.
type Config = cpwarp.Config

// Decomposition bundles the fitted factors, per-slice shifts and loss
// history of a shifted CP model.
type Decomposition = cpwarp.Decomposition

// Fit fits a rank-component shifted, semi-nonnegative CP decomposition to
// x by block coordinate descent with a random search over the per-slice
// shift parameters.
//
// The factor and shift arrays supply the initialization and are mutated
// in place; the returned Decomposition references the same storage. mask
// may be nil, meaning every entry of x is observed; entries marked false
// are imputed from the model once per outer iteration.
func Fit(x *tensor.Dense3, mask *tensor.Bool3, rank int, u, v, w, uShift, vShift *tensor.Dense, cfg Config) (*Decomposition, error) {
	return cpwarp.Fit(x, mask, rank, u, v, w, uShift, vShift, cfg)
}
