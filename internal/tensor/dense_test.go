package tensor

import (
	"math"
	"testing"
)

func TestDense_RowIsView(t *testing.T) {
	d := NewDense(3, 4)
	row := d.Row(1)
	row[2] = 7.5

	if got := d.At(1, 2); got != 7.5 {
		t.Fatalf("At(1,2) = %g after writing through Row view, want 7.5", got)
	}
}

func TestDense_NewDenseData(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	d, err := NewDenseData(2, 3, data)
	if err != nil {
		t.Fatal(err)
	}
	if got := d.At(1, 0); got != 4 {
		t.Fatalf("At(1,0) = %g, want 4", got)
	}

	if _, err := NewDenseData(2, 4, data); err == nil {
		t.Fatal("expected error for mismatched data length")
	}
}

func TestDense3_FiberLayout(t *testing.T) {
	d := NewDense3(2, 3, 4)
	for i := range d.Data() {
		d.Data()[i] = float64(i)
	}

	fiber := d.Fiber(1, 2)
	// (1,2) starts at (1*3+2)*4 = 20.
	for l := 0; l < 4; l++ {
		if fiber[l] != float64(20+l) {
			t.Fatalf("Fiber(1,2)[%d] = %g, want %d", l, fiber[l], 20+l)
		}
		if d.At(1, 2, l) != fiber[l] {
			t.Fatalf("At(1,2,%d) disagrees with Fiber view", l)
		}
	}
}

func TestDense3_SubAndNorm(t *testing.T) {
	a := NewDense3(2, 2, 2)
	b := NewDense3(2, 2, 2)
	a.Fill(3)
	b.Fill(1)

	dst := NewDense3(2, 2, 2)
	Sub(dst, a, b)

	for _, v := range dst.Data() {
		if v != 2 {
			t.Fatalf("Sub entry = %g, want 2", v)
		}
	}
	if got, want := dst.Norm(), math.Sqrt(8*4.0); math.Abs(got-want) > 1e-14 {
		t.Fatalf("Norm = %g, want %g", got, want)
	}
}

func TestDense3_CloneIsDeep(t *testing.T) {
	a := NewDense3(2, 2, 2)
	a.Fill(1)
	c := a.Clone()
	c.Set(0, 0, 0, 9)

	if a.At(0, 0, 0) != 1 {
		t.Fatal("Clone shares storage with original")
	}
}

func TestBool3_SetAt(t *testing.T) {
	m := NewBool3(2, 2, 3)
	m.Set(1, 0, 2, true)

	if !m.At(1, 0, 2) {
		t.Fatal("At(1,0,2) = false after Set")
	}
	if m.At(0, 0, 0) {
		t.Fatal("unset entry reads true")
	}
}
