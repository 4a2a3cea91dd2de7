package common

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	for i := range m {
		m[i] = float32(i + 1)
	}
	Mul4(out[:], id[:], m[:])
	if out != m {
		t.Fatalf("I*M = %v, want %v", out, m)
	}
	Mul4(out[:], m[:], id[:])
	if out != m {
		t.Fatalf("M*I = %v, want %v", out, m)
	}
}

func TestPerspectiveAspect(t *testing.T) {
	var m [16]float32
	Perspective(m[:], DegToRad(90), 2, 0.1, 100)
	// tan(45deg) == 1, so f == 1 and the x scale is 1/aspect.
	if !approx(m[0], 0.5) || !approx(m[5], 1) {
		t.Fatalf("unexpected scale terms x=%f y=%f", m[0], m[5])
	}
	if m[11] != -1 {
		t.Fatalf("m[11] = %f, want -1", m[11])
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	var view [16]float32
	LookAt(view[:], 0, 0, 0.1, 0, 0, 0, 0, 1, 0)
	// The eye position must map to the view-space origin.
	x := view[0]*0 + view[4]*0 + view[8]*0.1 + view[12]
	y := view[1]*0 + view[5]*0 + view[9]*0.1 + view[13]
	z := view[2]*0 + view[6]*0 + view[10]*0.1 + view[14]
	if !approx(x, 0) || !approx(y, 0) || !approx(z, 0) {
		t.Fatalf("eye maps to (%f, %f, %f)", x, y, z)
	}
}

func TestSliceToBytes(t *testing.T) {
	if SliceToBytes([]uint32{}) != nil {
		t.Fatal("empty slice should produce nil")
	}
	b := SliceToBytes([]uint32{1, 2})
	if len(b) != 8 {
		t.Fatalf("len = %d, want 8", len(b))
	}
}

func TestSolidTextureAndClamp(t *testing.T) {
	tex := SolidTexture("white", [4]float32{1, 0.5, -1, 2})
	want := []byte{255, 128, 0, 255}
	for i := range want {
		if tex.Pixels[i] != want[i] {
			t.Fatalf("pixel[%d] = %d, want %d", i, tex.Pixels[i], want[i])
		}
	}
	sd := tex.StagingData()
	if sd.Width != 1 || sd.Height != 1 {
		t.Fatalf("staging size = %dx%d", sd.Width, sd.Height)
	}
	if got := Coalesce(0, 0, 3, 4); got != 3 {
		t.Fatalf("Coalesce = %d", got)
	}
}
