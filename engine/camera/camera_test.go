package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/common"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestControllerStartsInsideSphere(t *testing.T) {
	cc := NewCameraController(WithRadius(0.1))
	x, y, z := cc.Position()
	if !near(x, 0) || !near(y, 0) || !near(z, 0.1) {
		t.Fatalf("position = (%f, %f, %f), want (0, 0, 0.1)", x, y, z)
	}
}

func TestRotateWithoutDampingAppliesImmediately(t *testing.T) {
	cc := NewCameraController(WithMouseSensitivity(0.01))
	cc.Rotate(10, 0)
	if !near(cc.Azimuth(), -0.1) {
		t.Fatalf("azimuth = %f, want -0.1", cc.Azimuth())
	}
	if cc.Update() {
		t.Fatal("Update reported movement without damping")
	}
}

func TestRotateWithDampingEasesIn(t *testing.T) {
	cc := NewCameraController(WithMouseSensitivity(0.01), WithDamping(true, 0.5))
	cc.Rotate(10, 0)
	if cc.Azimuth() != 0 {
		t.Fatalf("azimuth moved before Update: %f", cc.Azimuth())
	}

	if !cc.Update() {
		t.Fatal("first Update should move the camera")
	}
	if !near(cc.Azimuth(), -0.05) {
		t.Fatalf("azimuth after one update = %f, want -0.05", cc.Azimuth())
	}

	for i := 0; i < 200 && cc.Update(); i++ {
	}
	if !near(cc.Azimuth(), -0.1) {
		t.Fatalf("settled azimuth = %f, want -0.1", cc.Azimuth())
	}
	if cc.Update() {
		t.Fatal("settled controller still reports movement")
	}
}

func TestInvalidDampingFactorDisablesDamping(t *testing.T) {
	for _, f := range []float32{0, -1, 1.5} {
		if NewCameraController(WithDamping(true, f)).DampingEnabled() {
			t.Fatalf("damping enabled with factor %f", f)
		}
	}
}

func TestElevationClamped(t *testing.T) {
	cc := NewCameraController(WithElevationBounds(-0.5, 0.5))
	cc.SetElevation(2)
	if cc.Elevation() != 0.5 {
		t.Fatalf("elevation = %f, want 0.5", cc.Elevation())
	}
	cc.SetElevation(-2)
	if cc.Elevation() != -0.5 {
		t.Fatalf("elevation = %f, want -0.5", cc.Elevation())
	}
}

func TestZoomRespectsEnableFlag(t *testing.T) {
	off := NewCameraController(WithRadius(1), WithZoom(false))
	off.Zoom(0.5)
	if off.Radius() != 1 {
		t.Fatalf("radius changed with zoom disabled: %f", off.Radius())
	}

	on := NewCameraController(WithRadius(1), WithZoom(true), WithZoomSpeed(1), WithRadiusBounds(0.1, 10))
	on.Zoom(0.5)
	if !near(on.Radius(), 0.5) {
		t.Fatalf("radius = %f, want 0.5", on.Radius())
	}
}

func TestResetRestoresInitialView(t *testing.T) {
	cc := NewCameraController(WithAzimuth(0.3), WithDamping(true, 0.2))
	cc.SetAzimuth(2)
	cc.Rotate(100, 100)
	cc.Reset()
	if cc.Azimuth() != 0.3 {
		t.Fatalf("azimuth = %f, want 0.3", cc.Azimuth())
	}
	if cc.Update() {
		t.Fatal("pending rotation survived Reset")
	}
}

func TestSetAspectRecomputesProjection(t *testing.T) {
	c := NewCamera(WithController(NewCameraController()))
	c.SetAspect(2)
	if c.Aspect() != 2 {
		t.Fatalf("aspect = %f, want 2", c.Aspect())
	}
	p := c.ProjectionMatrix()
	f := float32(1 / math.Tan(float64(c.Fov())/2))
	if !near(p[0], f/2) || !near(p[5], f) {
		t.Fatalf("projection scale = (%f, %f), want (%f, %f)", p[0], p[5], f/2, f)
	}
}

func TestEyeMatricesDiffer(t *testing.T) {
	c := NewCamera(WithAspect(2), WithEyeSeparation(0.064), WithController(NewCameraController()))
	mono := c.EyeViewProjectionMatrix(EyeMono)
	if mono != c.ViewProjectionMatrix() {
		t.Fatal("mono eye must match the camera view-projection")
	}
	left := c.EyeViewProjectionMatrix(EyeLeft)
	right := c.EyeViewProjectionMatrix(EyeRight)
	if left == right {
		t.Fatal("left and right eye matrices are identical")
	}
}

func TestEyeProjectionUsesWebGPUDepth(t *testing.T) {
	c := NewCamera(WithAspect(2), WithEyeSeparation(0), WithController(NewCameraController()))
	view := c.ViewMatrix()
	var proj, want [16]float32
	common.Perspective(proj[:], c.Fov(), c.Aspect()/2, c.Near(), c.Far())
	common.Mul4(want[:], proj[:], view[:])

	got := c.EyeViewProjectionMatrix(EyeLeft)
	for i := range got {
		if !near(got[i], want[i]) {
			t.Fatalf("element %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	c := NewCamera(WithController(NewCameraController(WithRadius(0.1))))
	u := NewGPUCameraUniform(c, EyeMono)
	buf := u.Marshal()
	if len(buf) != 80 || u.Size() != 80 {
		t.Fatalf("uniform size = %d/%d, want 80", len(buf), u.Size())
	}
	if !near(u.CameraPosition[2], 0.1) {
		t.Fatalf("camera z = %f, want 0.1", u.CameraPosition[2])
	}
}

func TestViewportSplitsStereoSideBySide(t *testing.T) {
	tests := []struct {
		eye        Eye
		x, y, w, h float32
	}{
		{EyeMono, 0, 0, 800, 600},
		{EyeLeft, 0, 0, 400, 600},
		{EyeRight, 400, 0, 400, 600},
	}
	for _, tt := range tests {
		x, y, w, h := Viewport(tt.eye, 800, 600)
		if x != tt.x || y != tt.y || w != tt.w || h != tt.h {
			t.Errorf("Viewport(%d) = (%g, %g, %g, %g), want (%g, %g, %g, %g)", tt.eye, x, y, w, h, tt.x, tt.y, tt.w, tt.h)
		}
	}
}
