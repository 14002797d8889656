package render

import (
	"math"
	"testing"

	"github.com/Amirkhon3223/first3d/pkg/math3d"
)

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()
	if c.Near != 0.1 || c.Far != 1000 {
		t.Errorf("clip planes = %v/%v", c.Near, c.Far)
	}
	if math.Abs(c.FOV-math.Pi/3) > 1e-9 {
		t.Errorf("FOV = %v, want pi/3", c.FOV)
	}
}

func TestCameraLookAtCentersTarget(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math3d.V3(0, 2, 6))
	c.LookAt(math3d.V3(0, 1, 0))

	x, y, _, visible := c.WorldToScreen(math3d.V3(0, 1, 0), 100, 100)
	if !visible {
		t.Fatal("target not visible")
	}
	if math.Abs(x-50) > 1 || math.Abs(y-50) > 1 {
		t.Errorf("target projects to (%v, %v), want screen center", x, y)
	}
}

func TestCameraBehindNotVisible(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math3d.V3(0, 0, 5))
	c.LookAt(math3d.Zero3())

	if _, _, _, visible := c.WorldToScreen(math3d.V3(0, 0, 10), 100, 100); visible {
		t.Error("point behind camera reported visible")
	}
}

func TestCameraMatrixInvalidation(t *testing.T) {
	c := NewCamera()
	before := c.ViewProjectionMatrix()

	c.SetPosition(math3d.V3(10, 0, 0))
	c.LookAt(math3d.Zero3())
	after := c.ViewProjectionMatrix()

	if before == after {
		t.Error("view-projection unchanged after moving the camera")
	}

	c.SetFOV(math.Pi / 6)
	if c.ViewProjectionMatrix() == after {
		t.Error("view-projection unchanged after FOV change")
	}
}

func TestCameraForward(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math3d.V3(0, 0, 5))
	c.LookAt(math3d.Zero3())

	f := c.Forward()
	want := math3d.V3(0, 0, -1)
	if f.Sub(want).Len() > 1e-9 {
		t.Errorf("forward = %v, want %v", f, want)
	}
}
