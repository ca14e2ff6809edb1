// Copyright 2025 The Warp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 containers the warp library
// fits and predicts with.
//
// # Overview
//
// Three container types cover the library's needs:
//   - Dense: 2-D arrays holding factor and shift matrices (component-major)
//   - Dense3: 3-D arrays holding data and model estimates
//   - Bool3: 3-D observation masks (true = observed, false = missing)
//
// All containers use contiguous row-major storage, so rows and temporal
// fibers are plain []float64 views into the backing slice and can be
// mutated in place.
//
// # Basic Usage
//
//	x := tensor.NewDense3(n, k, t)
//	copy(x.Fiber(0, 0), series) // write one temporal fiber
//
//	u := tensor.NewDense(rank, n)
//	row := u.Row(2) // mutable view of component 2
package tensor
