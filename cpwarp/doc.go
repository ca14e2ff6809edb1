// Copyright 2025 The Warp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpwarp fits shifted, semi-nonnegative CP decompositions of
// third-order arrays.
//
// # Model
//
// An observed array X of shape (N, K, T) is approximated by R rank-one
// components whose temporal profile is shifted independently per slice
// along the first two axes:
//
//	X[n,k,t] ≈ Σ_r u[r,n] · v[r,k] · w[r, t + uShift[r,n] + vShift[r,k]]
//
// Shifts are real-valued (fractional shifts use linear interpolation) and
// bounded by a configured fraction of T. The boundary convention is
// either zero padding or periodic wraparound.
//
// # Basic Usage
//
//	import (
//	    "github.com/warp-ml/warp/cpwarp"
//	    "github.com/warp-ml/warp/tensor"
//	)
//
//	func main() {
//	    x := loadData() // *tensor.Dense3, shape N×K×T
//	    n, k, t := x.Dims()
//
//	    // Random nonnegative initialization.
//	    u := randomFactor(rank, n)
//	    v := randomFactor(rank, k)
//	    w := randomFactor(rank, t)
//	    uShift := tensor.NewDense(rank, n)
//	    vShift := tensor.NewDense(rank, k)
//
//	    dec, err := cpwarp.Fit(x, nil, rank, u, v, w, uShift, vShift, cpwarp.Config{
//	        UNonneg: true,
//	        VNonneg: true,
//	        Seed:    42,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("final loss:", dec.LossHist[len(dec.LossHist)-1])
//	}
//
// Fit mutates the factor arrays in place and returns them bundled in a
// Decomposition together with the loss history. Non-convergence within
// Config.MaxIter is not an error; inspect the loss history to judge fit
// quality.
package cpwarp
