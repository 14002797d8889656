package render

import (
	"math"
	"testing"

	"github.com/Amirkhon3223/first3d/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z.
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if math.Abs(plane.Normal.Len()-1.0) > 1e-9 {
		t.Errorf("normal length = %v, want 1.0", plane.Normal.Len())
	}
	if math.Abs(plane.D-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}
}

func viewFrustum() Frustum {
	c := NewCamera()
	c.SetPosition(math3d.V3(0, 0, 5))
	c.LookAt(math3d.Zero3())
	return ExtractFrustum(c.ViewProjectionMatrix())
}

func TestFrustumContainsPoint(t *testing.T) {
	f := viewFrustum()

	tests := []struct {
		name   string
		point  math3d.Vec3
		inside bool
	}{
		{"origin", math3d.V3(0, 0, 0), true},
		{"behind camera", math3d.V3(0, 0, 20), false},
		{"beyond far", math3d.V3(0, 0, -2000), false},
		{"far left", math3d.V3(-100, 0, 0), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.point); got != tc.inside {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.inside)
			}
		})
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	f := viewFrustum()

	inside := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}
	if !f.IntersectAABB(inside) {
		t.Error("box at origin rejected")
	}

	// Straddling a frustum plane still intersects.
	straddle := AABB{Min: math3d.V3(-100, -1, -1), Max: math3d.V3(1, 1, 1)}
	if !f.IntersectAABB(straddle) {
		t.Error("straddling box rejected")
	}

	outside := AABB{Min: math3d.V3(50, 50, 50), Max: math3d.V3(60, 60, 60)}
	if f.IntersectAABB(outside) {
		t.Error("distant box accepted")
	}
}

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}
	moved := box.Transform(math3d.Translate(math3d.V3(10, 0, 0)))

	if moved.Min.X != 9 || moved.Max.X != 11 {
		t.Errorf("transformed X = [%v, %v], want [9, 11]", moved.Min.X, moved.Max.X)
	}

	// Rotation by 45 degrees grows the XZ extent to sqrt(2).
	rotated := box.Transform(math3d.RotateY(math.Pi / 4))
	want := math.Sqrt2
	if math.Abs(rotated.Max.X-want) > 1e-9 {
		t.Errorf("rotated Max.X = %v, want %v", rotated.Max.X, want)
	}
}
