package route

import (
	"math"
	"testing"
)

func TestReversedOffsetInvolution(t *testing.T) {
	const max = 6.0
	for _, off := range []float64{0, 3, 6} {
		if got := ReversedOffset(ReversedOffset(off, max), max); got != off {
			t.Errorf("double reversal of %v = %v, want identity", off, got)
		}
	}
	if got := ReversedOffset(0, max); got != max {
		t.Errorf("ReversedOffset(0, %v) = %v, want %v", max, got, max)
	}
	if got := ReversedOffset(max, max); got != 0 {
		t.Errorf("ReversedOffset(%v, %v) = %v, want 0", max, max, got)
	}
}

func TestLShapeRadiiGoingDown(t *testing.T) {
	const (
		n    = 3
		step = 3.0
		base = 10.0
	)
	tests := []struct {
		i                      int
		delta, rFirst, rSecond float64
	}{
		{0, 3, 16, 10},
		{1, 0, 13, 13},
		{2, -3, 10, 16},
	}
	for _, tt := range tests {
		delta, r1, r2 := LShapeRadii(tt.i, n, true, step, base)
		if delta != tt.delta || r1 != tt.rFirst || r2 != tt.rSecond {
			t.Errorf("LShapeRadii(%d) = (%v, %v, %v), want (%v, %v, %v)",
				tt.i, delta, r1, r2, tt.delta, tt.rFirst, tt.rSecond)
		}
	}
}

func TestLShapeRadiiGoingUpMirrors(t *testing.T) {
	const (
		n    = 4
		step = 3.0
		base = 10.0
	)
	for i := 0; i < n; i++ {
		dDown, r1Down, r2Down := LShapeRadii(i, n, true, step, base)
		dUp, r1Up, r2Up := LShapeRadii(i, n, false, step, base)
		if dUp != -dDown {
			t.Errorf("i=%d: up delta %v should mirror down delta %v", i, dUp, dDown)
		}
		if r1Up != r2Down || r2Up != r1Down {
			t.Errorf("i=%d: up radii (%v, %v) should swap down radii (%v, %v)",
				i, r1Up, r2Up, r1Down, r2Down)
		}
	}
}

func TestLShapeRadiiNesting(t *testing.T) {
	// Radii at each corner are pairwise distinct so arcs nest, and every
	// line's two radii sum to the same constant: each line is outside
	// exactly one of the two corners.
	const (
		n    = 5
		step = 3.0
		base = 10.0
	)
	wantSum := 2*base + float64(n-1)*step
	seenFirst := make(map[float64]bool)
	for i := 0; i < n; i++ {
		_, r1, r2 := LShapeRadii(i, n, true, step, base)
		if seenFirst[r1] {
			t.Errorf("duplicate first-corner radius %v at i=%d", r1, i)
		}
		seenFirst[r1] = true
		if math.Abs(r1+r2-wantSum) > 1e-9 {
			t.Errorf("i=%d: radius sum %v, want %v", i, r1+r2, wantSum)
		}
		if r1 < base || r2 < base {
			t.Errorf("i=%d: radii (%v, %v) below base %v", i, r1, r2, base)
		}
	}
}

func TestTBExitCorner(t *testing.T) {
	const (
		max  = 6.0
		base = 10.0
	)

	// Outermost line of the drop (offset 0) takes the largest radius.
	vertX, horizY, r := TBExitCorner(0, max, true, base)
	if vertX != 0 || horizY != max || r != base+max {
		t.Errorf("right exit, off 0: (%v, %v, %v), want (0, %v, %v)", vertX, horizY, r, max, base+max)
	}

	// Innermost line (offset == max) hugs the corner.
	vertX, horizY, r = TBExitCorner(max, max, true, base)
	if vertX != max || horizY != 0 || r != base {
		t.Errorf("right exit, off max: (%v, %v, %v), want (%v, 0, %v)", vertX, horizY, r, max, base)
	}

	// A LEFT exit reverses the vertical segment offset too.
	vertX, _, _ = TBExitCorner(0, max, false, base)
	if vertX != max {
		t.Errorf("left exit should reverse the vertical offset, got %v", vertX)
	}
}

func TestTBEntryCorner(t *testing.T) {
	const (
		max  = 6.0
		base = 10.0
	)

	vertX, r := TBEntryCorner(0, max, true, base)
	if vertX != 0 || r != base+max {
		t.Errorf("right entry, off 0: (%v, %v), want (0, %v)", vertX, r, base+max)
	}
	vertX, r = TBEntryCorner(max, max, false, base)
	if vertX != 0 || r != base {
		t.Errorf("left entry, off max: (%v, %v), want (0, %v)", vertX, r, base)
	}
}
