package scene

import (
	"image"
	"image/color"

	"github.com/Amirkhon3223/first3d/pkg/math3d"
)

// Vertex holds the per-vertex attributes of a mesh.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Mesh is renderable triangle geometry attached to a scene node.
type Mesh struct {
	Vertices []Vertex
	Faces    [][3]int // indices into Vertices, renderer winding
	Material *Material

	CastShadow    bool
	ReceiveShadow bool

	// Axis-aligned bounding box in local space, maintained by
	// CalculateBounds.
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Material describes how a mesh surface is shaded. Values follow the glTF
// metallic-roughness model.
type Material struct {
	Name        string
	BaseColor   color.RGBA
	BaseTexture image.Image // optional base color texture
	Metallic    float64
	Roughness   float64

	// FlatShading requests per-face constant shading instead of smooth
	// interpolated (Gouraud) shading.
	FlatShading bool
}

// DefaultMaterial returns a neutral gray smooth-shaded material.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "default",
		BaseColor: color.RGBA{200, 200, 200, 255},
		Roughness: 1,
	}
}

// NewMesh creates an empty mesh with the default material.
func NewMesh() *Mesh {
	return &Mesh{Material: DefaultMaterial()}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangle faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// CalculateBounds recomputes the local-space bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}
	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// CalculateSmoothNormals computes area-weighted averaged vertex normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		v0 := m.Vertices[f[0]].Position
		v1 := m.Vertices[f[1]].Position
		v2 := m.Vertices[f[2]].Position

		// Unnormalized cross weights the contribution by face area.
		normal := v1.Sub(v0).Cross(v2.Sub(v0))

		m.Vertices[f[0]].Normal = m.Vertices[f[0]].Normal.Add(normal)
		m.Vertices[f[1]].Normal = m.Vertices[f[1]].Normal.Add(normal)
		m.Vertices[f[2]].Normal = m.Vertices[f[2]].Normal.Add(normal)
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// FaceNormal returns the geometric normal of face i.
func (m *Mesh) FaceNormal(i int) math3d.Vec3 {
	f := m.Faces[i]
	v0 := m.Vertices[f[0]].Position
	v1 := m.Vertices[f[1]].Position
	v2 := m.Vertices[f[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}
