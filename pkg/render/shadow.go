package render

import (
	"math"

	"github.com/Amirkhon3223/first3d/pkg/math3d"
	"github.com/Amirkhon3223/first3d/pkg/scene"
)

// shadowMap is a depth-only render of the scene from the primary
// shadow-casting directional light, projected orthographically over the
// scene bounds.
type shadowMap struct {
	size     int
	depth    []float64 // NDC depth, row-major
	viewProj math3d.Mat4
	light    *scene.Light
}

// shadowDarkness is the light multiplier applied to shadowed points.
const shadowDarkness = 0.35

// shadowBias offsets the depth comparison to avoid self-shadowing acne.
const shadowBias = 0.005

// updateShadowMap rebuilds the shadow map for this frame. The first
// directional light with CastShadow set owns the map. Scenes without
// such a light, or without bounded geometry, render unshadowed.
func (r *Renderer) updateShadowMap(sc *scene.Scene, meshes []scene.MeshInstance, lights []scene.LightInstance) {
	r.shadow = nil

	var light *scene.Light
	var lightPos math3d.Vec3
	for _, li := range lights {
		if li.Light.Kind == scene.LightDirectional && li.Light.CastShadow {
			light = li.Light
			lightPos = li.Position
			break
		}
	}
	if light == nil {
		return
	}

	boundsMin, boundsMax, ok := sc.Bounds()
	if !ok {
		return
	}

	center := boundsMin.Add(boundsMax).Scale(0.5)
	radius := boundsMax.Sub(center).Len()
	if radius == 0 {
		return
	}

	dir := lightPos.Sub(light.Target).Normalize()
	up := math3d.Up()
	if math.Abs(dir.Dot(up)) > 0.99 {
		up = math3d.V3(1, 0, 0)
	}

	eye := center.Add(dir.Scale(radius * 2))
	view := math3d.LookAt(eye, center, up)
	proj := math3d.Orthographic(-radius, radius, -radius, radius, 0.1, radius*4)

	sm := &shadowMap{
		size:     r.opts.ShadowMapSize,
		depth:    make([]float64, r.opts.ShadowMapSize*r.opts.ShadowMapSize),
		viewProj: proj.Mul(view),
		light:    light,
	}
	sm.clear()

	for _, mi := range meshes {
		if !mi.Mesh.CastShadow {
			continue
		}
		sm.drawMesh(mi)
	}

	r.shadow = sm
}

func (s *shadowMap) clear() {
	n := len(s.depth)
	if n == 0 {
		return
	}
	s.depth[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(s.depth[i:], s.depth[:i])
	}
}

// drawMesh rasterizes the mesh into the depth map.
func (s *shadowMap) drawMesh(mi scene.MeshInstance) {
	mesh := mi.Mesh
	for _, f := range mesh.Faces {
		var sx, sy, sz [3]float64
		for j := range 3 {
			world := mi.World.MulVec3(mesh.Vertices[f[j]].Position)
			clip := s.viewProj.MulVec4(math3d.V4FromV3(world, 1))
			// Orthographic projection, W is 1.
			sx[j] = (clip.X + 1) * 0.5 * float64(s.size)
			sy[j] = (1 - clip.Y) * 0.5 * float64(s.size)
			sz[j] = clip.Z
		}
		s.fillTriangle(sx, sy, sz)
	}
}

func (s *shadowMap) fillTriangle(sx, sy, sz [3]float64) {
	fsize := float64(s.size)
	minX := int(math.Max(0, math.Floor(min3(sx[0], sx[1], sx[2]))))
	maxX := int(math.Min(fsize-1, math.Ceil(max3(sx[0], sx[1], sx[2]))))
	minY := int(math.Max(0, math.Floor(min3(sy[0], sy[1], sy[2]))))
	maxY := int(math.Min(fsize-1, math.Ceil(max3(sy[0], sy[1], sy[2]))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc := barycentric(
				sx[0], sy[0],
				sx[1], sy[1],
				sx[2], sy[2],
				float64(x)+0.5, float64(y)+0.5,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sz[0] + bc.Y*sz[1] + bc.Z*sz[2]
			idx := y*s.size + x
			if z < s.depth[idx] {
				s.depth[idx] = z
			}
		}
	}
}

// factor returns the light multiplier at a world point: 1 when lit,
// shadowDarkness when occluded. Points outside the map count as lit.
func (s *shadowMap) factor(world math3d.Vec3) float64 {
	clip := s.viewProj.MulVec4(math3d.V4FromV3(world, 1))

	if clip.X < -1 || clip.X > 1 || clip.Y < -1 || clip.Y > 1 {
		return 1
	}

	x := int((clip.X + 1) * 0.5 * float64(s.size))
	y := int((1 - clip.Y) * 0.5 * float64(s.size))
	if x < 0 || x >= s.size || y < 0 || y >= s.size {
		return 1
	}

	if clip.Z-shadowBias > s.depth[y*s.size+x] {
		return shadowDarkness
	}
	return 1
}
