package math3d

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func vec3Near(a, b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

func TestVec3Basics(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, 5, 6)

	if got := a.Add(b); got != V3(5, 7, 9) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != V3(3, 3, 3) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != V3(2, 4, 6) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := V3(1, 0, 0)
	y := V3(0, 1, 0)

	if got := x.Cross(y); got != V3(0, 0, 1) {
		t.Errorf("X cross Y = %v, want (0, 0, 1)", got)
	}
	if got := y.Cross(x); got != V3(0, 0, -1) {
		t.Errorf("Y cross X = %v, want (0, 0, -1)", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := V3(3, 4, 0).Normalize()
	if math.Abs(v.Len()-1) > epsilon {
		t.Errorf("normalized length = %v, want 1", v.Len())
	}
	if !vec3Near(v, V3(0.6, 0.8, 0), epsilon) {
		t.Errorf("normalized = %v, want (0.6, 0.8, 0)", v)
	}

	// Zero vector normalizes to itself.
	if got := Zero3().Normalize(); got != Zero3() {
		t.Errorf("zero normalize = %v", got)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := V3(1, 5, -3)
	b := V3(2, -1, 4)

	if got := a.Min(b); got != V3(1, -1, -3) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != V3(2, 5, 4) {
		t.Errorf("Max = %v", got)
	}
	if got := a.MaxComponent(); got != 5 {
		t.Errorf("MaxComponent = %v, want 5", got)
	}
}

func TestVec2Cross(t *testing.T) {
	a := V2(1, 0)
	b := V2(0, 1)
	if got := a.Cross(b); got != 1 {
		t.Errorf("cross = %v, want 1", got)
	}
	if got := b.Cross(a); got != -1 {
		t.Errorf("cross = %v, want -1", got)
	}
}

func TestMat4Identity(t *testing.T) {
	v := V3(1, 2, 3)
	if got := Identity().MulVec3(v); got != v {
		t.Errorf("identity transform = %v, want %v", got, v)
	}
}

func TestMat4Translate(t *testing.T) {
	m := Translate(V3(10, 20, 30))
	if got := m.MulVec3(V3(1, 2, 3)); got != V3(11, 22, 33) {
		t.Errorf("translated = %v", got)
	}
	// Directions ignore translation.
	if got := m.MulVec3Dir(V3(1, 0, 0)); got != V3(1, 0, 0) {
		t.Errorf("direction = %v", got)
	}
}

func TestMat4RotatePreservesLength(t *testing.T) {
	v := V3(1, 2, 3)
	for _, m := range []Mat4{
		RotateX(0.7),
		RotateY(1.3),
		RotateZ(-2.1),
	} {
		got := m.MulVec3Dir(v)
		if math.Abs(got.Len()-v.Len()) > epsilon {
			t.Errorf("rotation changed length: %v -> %v", v.Len(), got.Len())
		}
	}
}

func TestMat4RotateRoundTrip(t *testing.T) {
	v := V3(1, 2, 3)
	m := RotateY(0.9).Mul(RotateY(-0.9))
	if got := m.MulVec3(v); !vec3Near(got, v, epsilon) {
		t.Errorf("round trip = %v, want %v", got, v)
	}
}

func TestMat4RotateHalfTurn(t *testing.T) {
	got := RotateY(math.Pi).MulVec3Dir(V3(1, 0, 0))
	if !vec3Near(got, V3(-1, 0, 0), epsilon) {
		t.Errorf("half turn = %v, want (-1, 0, 0)", got)
	}
}

func TestMat4TRS(t *testing.T) {
	// Scale then translate, no rotation.
	m := TRS(V3(1, 2, 3), Zero3(), V3(2, 2, 2))
	if got := m.MulVec3(V3(1, 1, 1)); !vec3Near(got, V3(3, 4, 5), epsilon) {
		t.Errorf("TRS = %v, want (3, 4, 5)", got)
	}
	// Identity TRS.
	if got := TRS(Zero3(), Zero3(), One3()); got != Identity() {
		t.Errorf("identity TRS = %v", got)
	}
}

func TestMat4Inverse(t *testing.T) {
	m := TRS(V3(5, -2, 1), V3(0.3, 0.7, -0.4), V3(2, 3, 0.5))
	round := m.Mul(m.Inverse())

	id := Identity()
	for i := range round {
		if math.Abs(round[i]-id[i]) > 1e-9 {
			t.Fatalf("m * m^-1 [%d] = %v, want %v", i, round[i], id[i])
		}
	}
}

func TestMat4LookAt(t *testing.T) {
	view := LookAt(V3(0, 0, 5), Zero3(), Up())

	// The target lands on the -Z axis at the eye distance.
	got := view.MulVec3(Zero3())
	if !vec3Near(got, V3(0, 0, -5), epsilon) {
		t.Errorf("view(center) = %v, want (0, 0, -5)", got)
	}
}

func TestMat4Perspective(t *testing.T) {
	proj := Perspective(math.Pi/3, 16.0/9.0, 1, 100)

	// A point in front of the camera projects with positive W and NDC
	// depth inside [-1, 1].
	clip := proj.MulVec4(V4FromV3(V3(0, 0, -10), 1))
	if clip.W <= 0 {
		t.Fatalf("clip W = %v, want > 0", clip.W)
	}
	ndc := clip.PerspectiveDivide()
	if ndc.Z < -1 || ndc.Z > 1 {
		t.Errorf("ndc Z = %v, want within [-1, 1]", ndc.Z)
	}
}

func TestMat4Orthographic(t *testing.T) {
	proj := Orthographic(-10, 10, -10, 10, 1, 100)

	clip := proj.MulVec4(V4FromV3(V3(5, -5, -50), 1))
	if math.Abs(clip.W-1) > epsilon {
		t.Fatalf("orthographic W = %v, want 1", clip.W)
	}
	if math.Abs(clip.X-0.5) > epsilon || math.Abs(clip.Y+0.5) > epsilon {
		t.Errorf("ndc = (%v, %v), want (0.5, -0.5)", clip.X, clip.Y)
	}
}

func TestRadians(t *testing.T) {
	if got := Radians(180); math.Abs(got-math.Pi) > epsilon {
		t.Errorf("Radians(180) = %v, want pi", got)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := TRS(V3(1, 2, 3), V3(0.1, 0.2, 0.3), One3())
	m2 := RotateY(0.5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := TRS(V3(1, 2, 3), V3(0.1, 0.2, 0.3), One3())
	v := V3(4, 5, 6)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.MulVec3(v)
	}
}
