package scene

import (
	"image/color"

	"github.com/Amirkhon3223/first3d/pkg/math3d"
)

// Scene is the root container the renderer draws each frame.
type Scene struct {
	Root       *Node
	Background color.RGBA
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		Root:       NewNode("root"),
		Background: color.RGBA{0, 0, 0, 255},
	}
}

// Add attaches a node to the scene root.
func (s *Scene) Add(n *Node) {
	s.Root.Add(n)
}

// Remove detaches a node from the scene root.
func (s *Scene) Remove(n *Node) bool {
	return s.Root.Remove(n)
}

// LightInstance is a light resolved to world space, as consumed by the
// renderer.
type LightInstance struct {
	Light    *Light
	Position math3d.Vec3
}

// MeshInstance is a mesh paired with its world transform.
type MeshInstance struct {
	Mesh  *Mesh
	World math3d.Mat4
}

// Lights collects every light in the graph with its world position.
func (s *Scene) Lights() []LightInstance {
	var lights []LightInstance
	s.Root.TraverseWithWorld(func(n *Node, world math3d.Mat4) bool {
		if n.Light != nil {
			lights = append(lights, LightInstance{
				Light:    n.Light,
				Position: world.Translation(),
			})
		}
		return true
	})
	return lights
}

// Meshes collects every mesh in the graph with its world transform, in
// traversal order.
func (s *Scene) Meshes() []MeshInstance {
	var meshes []MeshInstance
	s.Root.TraverseWithWorld(func(n *Node, world math3d.Mat4) bool {
		if n.Mesh != nil {
			meshes = append(meshes, MeshInstance{Mesh: n.Mesh, World: world})
		}
		return true
	})
	return meshes
}

// Bounds returns the world-space bounding box over all meshes and whether
// the scene contains any geometry. The shadow pass fits its orthographic
// projection to this box.
func (s *Scene) Bounds() (min, max math3d.Vec3, ok bool) {
	for _, mi := range s.Meshes() {
		mi.Mesh.CalculateBounds()
		for _, corner := range boxCorners(mi.Mesh.BoundsMin, mi.Mesh.BoundsMax) {
			p := mi.World.MulVec3(corner)
			if !ok {
				min, max, ok = p, p, true
				continue
			}
			min = min.Min(p)
			max = max.Max(p)
		}
	}
	return min, max, ok
}

func boxCorners(min, max math3d.Vec3) [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: min.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: min.Y, Z: min.Z},
		{X: min.X, Y: max.Y, Z: min.Z},
		{X: max.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: min.Y, Z: max.Z},
		{X: min.X, Y: max.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: max.Z},
	}
}
