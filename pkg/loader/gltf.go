// Package loader reads glTF assets into scene graph subtrees.
package loader

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/Amirkhon3223/first3d/pkg/math3d"
	"github.com/Amirkhon3223/first3d/pkg/scene"
)

// Load reads a .gltf or .glb file and returns a node holding one child
// per mesh primitive. Each child carries a mesh with its resolved
// material. Geometry without normals gets smooth normals calculated.
func Load(path string) (*scene.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	root := scene.NewNode(filepath.Base(path))

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			mesh, err := loadPrimitive(doc, path, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
			}
			if mesh == nil {
				continue
			}
			name := m.Name
			if name == "" {
				name = "mesh"
			}
			root.Add(scene.NewMeshNode(name, mesh))
		}
	}

	if len(root.Children()) == 0 {
		return nil, fmt.Errorf("no triangle geometry in %s", path)
	}

	return root, nil
}

// loadPrimitive converts one triangle primitive into a mesh. Returns
// (nil, nil) for non-triangle primitives.
func loadPrimitive(doc *gltf.Document, path string, prim *gltf.Primitive) (*scene.Mesh, error) {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return nil, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}

	positions, err := readVec3Accessor(doc, int(posIdx))
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var normals []math3d.Vec3
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = readVec3Accessor(doc, int(normIdx))
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs []math3d.Vec2
	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = readVec2Accessor(doc, int(uvIdx))
		if err != nil {
			return nil, fmt.Errorf("read uvs: %w", err)
		}
	}

	mesh := scene.NewMesh()
	for i := range positions {
		v := scene.Vertex{Position: positions[i]}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(uvs) {
			// glTF uses top-left UV origin, flip V for bottom-left.
			v.UV = math3d.V2(uvs[i].X, 1.0-uvs[i].Y)
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	// glTF front faces wind CCW. Screen-space Y flipping makes the
	// rasterizer treat CW as front, so swap the winding here.
	if prim.Indices != nil {
		indices, err := readIndices(doc, int(*prim.Indices))
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, [3]int{
				indices[i],
				indices[i+2],
				indices[i+1],
			})
		}
	} else {
		for i := 0; i+2 < len(positions); i += 3 {
			mesh.Faces = append(mesh.Faces, [3]int{i, i + 2, i + 1})
		}
	}

	if len(normals) == 0 {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	mesh.Material = loadMaterial(doc, path, prim)

	return mesh, nil
}

// loadMaterial resolves the primitive's PBR material: base color factor,
// metallic and roughness factors, and the base color texture if present.
func loadMaterial(doc *gltf.Document, path string, prim *gltf.Primitive) *scene.Material {
	mat := scene.DefaultMaterial()
	if prim.Material == nil {
		return mat
	}

	src := doc.Materials[*prim.Material]
	mat.Name = src.Name

	pbr := src.PBRMetallicRoughness
	if pbr == nil {
		return mat
	}

	f := pbr.BaseColorFactorOrDefault()
	mat.BaseColor = color.RGBA{
		R: uint8(math.Round(float64(f[0]) * 255)),
		G: uint8(math.Round(float64(f[1]) * 255)),
		B: uint8(math.Round(float64(f[2]) * 255)),
		A: uint8(math.Round(float64(f[3]) * 255)),
	}
	mat.Metallic = float64(pbr.MetallicFactorOrDefault())
	mat.Roughness = float64(pbr.RoughnessFactorOrDefault())

	if pbr.BaseColorTexture != nil {
		if img := loadImage(doc, path, int(pbr.BaseColorTexture.Index)); img != nil {
			mat.BaseTexture = img
		}
	}

	return mat
}

// loadImage decodes the image referenced by a texture, either from an
// embedded buffer view or from a file next to the document.
func loadImage(doc *gltf.Document, path string, textureIdx int) image.Image {
	tex := doc.Textures[textureIdx]
	if tex.Source == nil {
		return nil
	}
	src := doc.Images[*tex.Source]

	var data []byte
	switch {
	case src.BufferView != nil:
		bv := doc.BufferViews[*src.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			return nil
		}
		start := int(bv.ByteOffset)
		end := start + int(bv.ByteLength)
		if end > len(buf.Data) {
			return nil
		}
		data = buf.Data[start:end]
	case src.URI != "":
		b, err := os.ReadFile(filepath.Join(filepath.Dir(path), src.URI))
		if err != nil {
			return nil
		}
		data = b
	default:
		return nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return img
}

// readVec3Accessor reads Vec3 data from an accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}
	return result, nil
}

// readVec2Accessor reads Vec2 data from an accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}
	return result, nil
}

// readIndices reads index data from an accessor, widening to int.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint16:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint32:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

// readAccessorData reads raw values from an accessor's buffer view.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	bufData := buffer.Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12 // 3 floats
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		if stride == 0 {
			stride = 8 // 2 floats
		}
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		if stride == 0 {
			switch accessor.ComponentType {
			case gltf.ComponentUbyte:
				stride = 1
			case gltf.ComponentUshort:
				stride = 2
			case gltf.ComponentUint:
				stride = 4
			}
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint16(bufData[offset]) | uint16(bufData[offset+1])<<8
			}
			return result, nil
		case gltf.ComponentUint:
			result := make([]uint32, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint32(bufData[offset]) |
					uint32(bufData[offset+1])<<8 |
					uint32(bufData[offset+2])<<16 |
					uint32(bufData[offset+3])<<24
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
