package scene

import (
	"math"
	"testing"

	"github.com/Amirkhon3223/first3d/pkg/math3d"
)

// quad returns a unit square in the XY plane, two triangles.
func quad() *Mesh {
	m := NewMesh()
	m.Vertices = []Vertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(1, 1, 0)},
		{Position: math3d.V3(0, 1, 0)},
	}
	m.Faces = [][3]int{{0, 1, 2}, {0, 2, 3}}
	return m
}

func TestNodeAddReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	child := NewNode("child")

	a.Add(child)
	if child.Parent() != a {
		t.Fatalf("parent = %v, want a", child.Parent())
	}

	b.Add(child)
	if child.Parent() != b {
		t.Errorf("parent after reparent = %v, want b", child.Parent())
	}
	if len(a.Children()) != 0 {
		t.Errorf("a still has %d children", len(a.Children()))
	}
}

func TestNodeRemove(t *testing.T) {
	root := NewNode("root")
	child := NewNode("child")
	root.Add(child)

	if !root.Remove(child) {
		t.Fatal("Remove returned false for attached child")
	}
	if child.Parent() != nil {
		t.Error("removed child still has a parent")
	}
	if root.Remove(child) {
		t.Error("Remove returned true for detached child")
	}
}

func TestTraversePreOrder(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	a1 := NewNode("a1")
	root.Add(a)
	root.Add(b)
	a.Add(a1)

	var visited []string
	root.Traverse(func(n *Node) bool {
		visited = append(visited, n.Name)
		return true
	})

	want := []string{"root", "a", "a1", "b"}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited %v, want %v", visited, want)
		}
	}
}

func TestTraverseSkipsSubtree(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	a1 := NewNode("a1")
	root.Add(a)
	a.Add(a1)

	count := 0
	root.Traverse(func(n *Node) bool {
		count++
		return n.Name != "a"
	})

	if count != 2 {
		t.Errorf("visited %d nodes, want 2 (a1 skipped)", count)
	}
}

func TestWorldMatrixComposes(t *testing.T) {
	parent := NewNode("parent")
	parent.Position = math3d.V3(1, 0, 0)
	child := NewNode("child")
	child.Position = math3d.V3(0, 2, 0)
	parent.Add(child)

	got := child.WorldMatrix().Translation()
	want := math3d.V3(1, 2, 0)
	if got != want {
		t.Errorf("world translation = %v, want %v", got, want)
	}
}

func TestTraverseWithWorldMatchesWorldMatrix(t *testing.T) {
	root := NewNode("root")
	root.Position = math3d.V3(3, 0, 0)
	child := NewNode("child")
	child.Position = math3d.V3(0, 0, 5)
	child.Scaling = math3d.V3(2, 2, 2)
	root.Add(child)

	root.TraverseWithWorld(func(n *Node, world math3d.Mat4) bool {
		direct := n.WorldMatrix()
		for i := range world {
			if math.Abs(world[i]-direct[i]) > 1e-12 {
				t.Errorf("node %s: incremental world differs from direct at [%d]", n.Name, i)
				return false
			}
		}
		return true
	})
}

func TestSceneMeshesAndLights(t *testing.T) {
	sc := New()
	sc.Add(NewAmbientLight(White, 0.8))
	sc.Add(NewDirectionalLight(White, 1.0, math3d.V3(4, 6, 4)))

	group := NewNode("group")
	group.Add(NewMeshNode("m1", quad()))
	group.Add(NewMeshNode("m2", quad()))
	sc.Add(group)

	if got := len(sc.Lights()); got != 2 {
		t.Errorf("lights = %d, want 2", got)
	}
	if got := len(sc.Meshes()); got != 2 {
		t.Errorf("meshes = %d, want 2", got)
	}
}

func TestLightInstancePosition(t *testing.T) {
	sc := New()
	rig := NewNode("rig")
	rig.Position = math3d.V3(0, 10, 0)
	light := NewPointLight(White, 1.0, math3d.V3(1, 0, 0))
	rig.Add(light)
	sc.Add(rig)

	lights := sc.Lights()
	if len(lights) != 1 {
		t.Fatalf("lights = %d, want 1", len(lights))
	}
	want := math3d.V3(1, 10, 0)
	if lights[0].Position != want {
		t.Errorf("light position = %v, want %v", lights[0].Position, want)
	}
}

func TestSceneBounds(t *testing.T) {
	sc := New()
	n := NewMeshNode("quad", quad())
	n.Position = math3d.V3(10, 0, 0)
	sc.Add(n)

	min, max, ok := sc.Bounds()
	if !ok {
		t.Fatal("Bounds reported no geometry")
	}
	if math.Abs(min.X-10) > 1e-9 || math.Abs(max.X-11) > 1e-9 {
		t.Errorf("bounds X = [%v, %v], want [10, 11]", min.X, max.X)
	}
}

func TestSceneBoundsEmpty(t *testing.T) {
	if _, _, ok := New().Bounds(); ok {
		t.Error("empty scene reported geometry")
	}
}

func TestCalculateBounds(t *testing.T) {
	m := quad()
	m.CalculateBounds()

	if m.BoundsMin != math3d.V3(0, 0, 0) {
		t.Errorf("BoundsMin = %v", m.BoundsMin)
	}
	if m.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("BoundsMax = %v", m.BoundsMax)
	}
	if got := m.Center(); got != math3d.V3(0.5, 0.5, 0) {
		t.Errorf("Center = %v", got)
	}
}

func TestCalculateSmoothNormals(t *testing.T) {
	m := quad()
	m.CalculateSmoothNormals()

	// Flat geometry: every vertex normal is the face normal.
	want := math3d.V3(0, 0, 1)
	for i, v := range m.Vertices {
		if v.Normal.Sub(want).Len() > 1e-9 {
			t.Errorf("vertex %d normal = %v, want %v", i, v.Normal, want)
		}
	}
}

func TestFaceNormal(t *testing.T) {
	m := quad()
	got := m.FaceNormal(0)
	if got.Sub(math3d.V3(0, 0, 1)).Len() > 1e-9 {
		t.Errorf("face normal = %v, want (0, 0, 1)", got)
	}
}
