// Package tensor provides the dense float64 containers used throughout the
// warp fitting routines.
//
// All containers are backed by a single contiguous row-major slice so that
// rows and temporal fibers can be handed to numerical kernels as plain
// []float64 views without copying.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Dense is a 2-D float64 array with row-major contiguous storage.
type Dense struct {
	rows, cols int
	data       []float64
}

// NewDense allocates a rows×cols matrix of zeros.
func NewDense(rows, cols int) *Dense {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("tensor: invalid Dense dimensions %d×%d", rows, cols))
	}
	return &Dense{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// NewDenseData wraps an existing slice as a rows×cols matrix without copying.
// The slice length must equal rows*cols.
func NewDenseData(rows, cols int, data []float64) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("tensor: invalid Dense dimensions %d×%d", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("tensor: data length %d does not match %d×%d", len(data), rows, cols)
	}
	return &Dense{rows: rows, cols: cols, data: data}, nil
}

// Dims returns the matrix dimensions.
func (d *Dense) Dims() (rows, cols int) { return d.rows, d.cols }

// Row returns the i-th row as a mutable view into the backing storage.
func (d *Dense) Row(i int) []float64 {
	return d.data[i*d.cols : (i+1)*d.cols]
}

// At returns the element at (i, j).
func (d *Dense) At(i, j int) float64 { return d.data[i*d.cols+j] }

// Set stores v at (i, j).
func (d *Dense) Set(i, j int, v float64) { d.data[i*d.cols+j] = v }

// Fill sets every element to v.
func (d *Dense) Fill(v float64) {
	for i := range d.data {
		d.data[i] = v
	}
}

// Data returns the backing slice.
func (d *Dense) Data() []float64 { return d.data }

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	c := NewDense(d.rows, d.cols)
	copy(c.data, d.data)
	return c
}

// Dense3 is a 3-D float64 array with row-major contiguous storage, indexed
// as (i, j, t) with the last axis contiguous.
type Dense3 struct {
	n, k, t int
	data    []float64
}

// NewDense3 allocates an n×k×t array of zeros.
func NewDense3(n, k, t int) *Dense3 {
	if n <= 0 || k <= 0 || t <= 0 {
		panic(fmt.Sprintf("tensor: invalid Dense3 dimensions %d×%d×%d", n, k, t))
	}
	return &Dense3{n: n, k: k, t: t, data: make([]float64, n*k*t)}
}

// NewDense3Data wraps an existing slice as an n×k×t array without copying.
func NewDense3Data(n, k, t int, data []float64) (*Dense3, error) {
	if n <= 0 || k <= 0 || t <= 0 {
		return nil, fmt.Errorf("tensor: invalid Dense3 dimensions %d×%d×%d", n, k, t)
	}
	if len(data) != n*k*t {
		return nil, fmt.Errorf("tensor: data length %d does not match %d×%d×%d", len(data), n, k, t)
	}
	return &Dense3{n: n, k: k, t: t, data: data}, nil
}

// Dims returns the array dimensions.
func (d *Dense3) Dims() (n, k, t int) { return d.n, d.k, d.t }

// Fiber returns the length-t slice at position (i, j) along the last axis.
// The returned slice is a mutable view into the backing storage.
func (d *Dense3) Fiber(i, j int) []float64 {
	off := (i*d.k + j) * d.t
	return d.data[off : off+d.t]
}

// At returns the element at (i, j, l).
func (d *Dense3) At(i, j, l int) float64 {
	return d.data[(i*d.k+j)*d.t+l]
}

// Set stores v at (i, j, l).
func (d *Dense3) Set(i, j, l int, v float64) {
	d.data[(i*d.k+j)*d.t+l] = v
}

// Fill sets every element to v.
func (d *Dense3) Fill(v float64) {
	for i := range d.data {
		d.data[i] = v
	}
}

// Data returns the backing slice.
func (d *Dense3) Data() []float64 { return d.data }

// Clone returns a deep copy.
func (d *Dense3) Clone() *Dense3 {
	c := NewDense3(d.n, d.k, d.t)
	copy(c.data, d.data)
	return c
}

// Norm returns the Frobenius norm of the array.
func (d *Dense3) Norm() float64 {
	return floats.Norm(d.data, 2)
}

// Sub writes a - b into dst elementwise. All three arrays must share the
// same dimensions, and dst must not alias a or b partially.
func Sub(dst, a, b *Dense3) {
	floats.SubTo(dst.data, a.data, b.data)
}

// Bool3 is a 3-D boolean array with the same layout as Dense3. It marks
// observed entries of a data array: true means observed, false missing.
type Bool3 struct {
	n, k, t int
	data    []bool
}

// NewBool3 allocates an n×k×t boolean array (all false).
func NewBool3(n, k, t int) *Bool3 {
	if n <= 0 || k <= 0 || t <= 0 {
		panic(fmt.Sprintf("tensor: invalid Bool3 dimensions %d×%d×%d", n, k, t))
	}
	return &Bool3{n: n, k: k, t: t, data: make([]bool, n*k*t)}
}

// Dims returns the array dimensions.
func (b *Bool3) Dims() (n, k, t int) { return b.n, b.k, b.t }

// At returns the element at (i, j, l).
func (b *Bool3) At(i, j, l int) bool {
	return b.data[(i*b.k+j)*b.t+l]
}

// Set stores v at (i, j, l).
func (b *Bool3) Set(i, j, l int, v bool) {
	b.data[(i*b.k+j)*b.t+l] = v
}

// Fill sets every element to v.
func (b *Bool3) Fill(v bool) {
	for i := range b.data {
		b.data[i] = v
	}
}

// Data returns the backing slice.
func (b *Bool3) Data() []bool { return b.data }
