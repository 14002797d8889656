package render

import (
	"math"

	"github.com/Amirkhon3223/first3d/pkg/math3d"
	"github.com/Amirkhon3223/first3d/pkg/scene"
)

// Options configures a Renderer at construction time.
type Options struct {
	// Antialias renders at double resolution and box-filters down.
	Antialias bool

	// ShadowMaps enables the depth-only shadow pass for the primary
	// shadow-casting directional light.
	ShadowMaps bool

	// ShadowMapSize is the shadow map edge length in texels.
	// Defaults to 512.
	ShadowMapSize int

	// PixelRatio is the number of vertical pixels per surface cell.
	// Terminal half-block presentation uses 2. Defaults to 2.
	PixelRatio int
}

func (o *Options) fillDefaults() {
	if o.ShadowMapSize <= 0 {
		o.ShadowMapSize = 512
	}
	if o.PixelRatio <= 0 {
		o.PixelRatio = 2
	}
}

// Renderer draws a scene graph through a camera into a framebuffer.
// It owns the z-buffer, the optional supersampled working buffer, and the
// shadow map.
type Renderer struct {
	cam  *Camera
	fb   *Framebuffer // presented buffer, surface pixel dimensions
	work *Framebuffer // render target: fb, or 2x buffer when antialiasing
	opts Options

	zbuffer  []float64
	shadow   *shadowMap
	textures map[*scene.Material]*Texture

	// Wireframe switches mesh drawing to edge lines.
	Wireframe bool
	WireColor Color
}

// aaFactor is the supersampling multiplier used when Antialias is on.
const aaFactor = 2

// NewRenderer creates a renderer bound to a surface of the given content
// dimensions (in cells). The pixel height is rows times the pixel ratio.
func NewRenderer(cam *Camera, cols, rows int, opts Options) *Renderer {
	opts.fillDefaults()
	r := &Renderer{
		cam:       cam,
		opts:      opts,
		textures:  make(map[*scene.Material]*Texture),
		WireColor: RGB(0, 255, 128),
	}
	r.SetSize(cols, rows)
	return r
}

// SetSize resizes the renderer's buffers for a surface of cols x rows
// cells.
func (r *Renderer) SetSize(cols, rows int) {
	w := cols
	h := rows * r.opts.PixelRatio
	r.fb = NewFramebuffer(w, h)
	if r.opts.Antialias {
		r.work = NewFramebuffer(w*aaFactor, h*aaFactor)
	} else {
		r.work = r.fb
	}
	r.zbuffer = make([]float64, r.work.Width*r.work.Height)
	r.cam.SetAspectRatio(float64(w) / float64(h))
}

// Size returns the pixel dimensions of the presented framebuffer.
func (r *Renderer) Size() (width, height int) {
	return r.fb.Width, r.fb.Height
}

// Framebuffer returns the presented framebuffer.
func (r *Renderer) Framebuffer() *Framebuffer {
	return r.fb
}

// Camera returns the camera the renderer draws through.
func (r *Renderer) Camera() *Camera {
	return r.cam
}

// Render draws one frame of the scene.
func (r *Renderer) Render(sc *scene.Scene) {
	r.work.Clear(sc.Background)
	r.clearDepth()

	meshes := sc.Meshes()
	lights := sc.Lights()

	if r.opts.ShadowMaps {
		r.updateShadowMap(sc, meshes, lights)
	} else {
		r.shadow = nil
	}

	frustum := ExtractFrustum(r.cam.ViewProjectionMatrix())

	for _, mi := range meshes {
		if culled(frustum, mi) {
			continue
		}
		if r.Wireframe {
			r.drawMeshWireframe(mi)
			continue
		}
		r.drawMesh(mi, lights)
	}

	if r.work != r.fb {
		r.work.DownsampleInto(r.fb)
	}
}

// culled tests the mesh's transformed bounds against the view frustum.
func culled(f Frustum, mi scene.MeshInstance) bool {
	local := AABB{Min: mi.Mesh.BoundsMin, Max: mi.Mesh.BoundsMax}
	if local.Min == local.Max {
		return false // bounds never calculated, draw anyway
	}
	return !f.IntersectAABB(local.Transform(mi.World))
}

// clearDepth resets the z-buffer using copy doubling.
func (r *Renderer) clearDepth() {
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

func (r *Renderer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.work.Width || y < 0 || y >= r.work.Height {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.work.Width+x]
}

func (r *Renderer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.work.Width || y < 0 || y >= r.work.Height {
		return
	}
	r.zbuffer[y*r.work.Width+x] = z
}

// textureFor lazily converts a material's base texture into a sampler.
func (r *Renderer) textureFor(mat *scene.Material) *Texture {
	if tex, ok := r.textures[mat]; ok {
		return tex
	}
	tex := TextureFromImage(mat.BaseTexture)
	r.textures[mat] = tex
	return tex
}

// screenVertex is a vertex projected to screen space with its lit color
// multiplier.
type screenVertex struct {
	X, Y, Z, W float64
	UV         math3d.Vec2
	LR, LG, LB float64 // accumulated light color, linear
}

// drawMesh rasterizes every triangle of a mesh instance with the full
// light rig.
func (r *Renderer) drawMesh(mi scene.MeshInstance, lights []scene.LightInstance) {
	mesh := mi.Mesh
	mat := mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}

	var tex *Texture
	if mat.BaseTexture != nil {
		tex = r.textureFor(mat)
	}

	for i := range mesh.Faces {
		f := mesh.Faces[i]

		var wp [3]math3d.Vec3
		var wn [3]math3d.Vec3
		var uvs [3]math3d.Vec2

		if mat.FlatShading {
			n := mi.World.MulVec3Dir(mesh.FaceNormal(i)).Normalize()
			wn[0], wn[1], wn[2] = n, n, n
		}

		for j := range 3 {
			v := mesh.Vertices[f[j]]
			wp[j] = mi.World.MulVec3(v.Position)
			if !mat.FlatShading {
				wn[j] = mi.World.MulVec3Dir(v.Normal).Normalize()
			}
			uvs[j] = v.UV
		}

		var lit [3][3]float64
		for j := range 3 {
			lit[j][0], lit[j][1], lit[j][2] = r.shadeVertex(wp[j], wn[j], lights, mesh.ReceiveShadow, mat)
		}

		r.rasterTriangle(wp, uvs, lit, mat.BaseColor, tex)
	}
}

// shadeVertex accumulates the light rig at a world-space point: ambient
// term, Lambert diffuse for directional lights, attenuated Lambert for
// point lights, plus a Blinn-Phong highlight scaled by the material's
// roughness and metallic factors. Returns a linear RGB multiplier.
func (r *Renderer) shadeVertex(pos, normal math3d.Vec3, lights []scene.LightInstance, receiveShadow bool, mat *scene.Material) (lr, lg, lb float64) {
	specStrength := (1 - mat.Roughness) * (0.5 + 0.5*mat.Metallic)
	viewDir := r.cam.Position.Sub(pos).Normalize()

	for _, li := range lights {
		l := li.Light
		cr := float64(l.Color.R) / 255
		cg := float64(l.Color.G) / 255
		cb := float64(l.Color.B) / 255

		var k, spec float64
		switch l.Kind {
		case scene.LightAmbient:
			k = l.Intensity

		case scene.LightDirectional:
			// Direction from the surface toward the light.
			dir := li.Position.Sub(l.Target).Normalize()
			k = l.Intensity * math.Max(0, normal.Dot(dir))
			spec = l.Intensity * r.specular(normal, dir, viewDir, specStrength)
			if receiveShadow && r.shadow != nil && r.shadow.light == l {
				f := r.shadow.factor(pos)
				k *= f
				spec *= f
			}

		case scene.LightPoint:
			toLight := li.Position.Sub(pos)
			d := toLight.Len()
			dir := toLight.Normalize()
			lambert := math.Max(0, normal.Dot(dir))
			atten := 1.0 / (1.0 + 0.05*d + 0.02*d*d)
			k = l.Intensity * lambert * atten
			spec = l.Intensity * atten * r.specular(normal, dir, viewDir, specStrength)
		}

		lr += (k + spec) * cr
		lg += (k + spec) * cg
		lb += (k + spec) * cb
	}
	return lr, lg, lb
}

const shininess = 32.0

// specular returns the Blinn-Phong highlight term for one light.
func (r *Renderer) specular(normal, lightDir, viewDir math3d.Vec3, strength float64) float64 {
	if strength <= 0 {
		return 0
	}
	half := lightDir.Add(viewDir).Normalize()
	ndoth := math.Max(0, normal.Dot(half))
	return strength * math.Pow(ndoth, shininess)
}

// rasterTriangle projects and fills one triangle with z-buffering,
// backface culling, perspective-correct UV and Gouraud light
// interpolation.
func (r *Renderer) rasterTriangle(wp [3]math3d.Vec3, uvs [3]math3d.Vec2, lit [3][3]float64, base Color, tex *Texture) {
	var sv [3]screenVertex
	allBehind := true

	viewProj := r.cam.ViewProjectionMatrix()
	w := float64(r.work.Width)
	h := float64(r.work.Height)

	for i := range 3 {
		clip := viewProj.MulVec4(math3d.V4FromV3(wp[i], 1))
		if clip.W > 0 {
			allBehind = false
		}
		if clip.W != 0 {
			sv[i].X = clip.X / clip.W
			sv[i].Y = clip.Y / clip.W
			sv[i].Z = clip.Z / clip.W
		}
		sv[i].W = clip.W

		// NDC to screen, Y flipped.
		sv[i].X = (sv[i].X + 1) * 0.5 * w
		sv[i].Y = (1 - sv[i].Y) * 0.5 * h

		sv[i].UV = uvs[i]
		sv[i].LR, sv[i].LG, sv[i].LB = lit[i][0], lit[i][1], lit[i][2]
	}

	if allBehind {
		return
	}

	// Backface culling via screen-space winding.
	edge1 := math3d.V2(sv[1].X-sv[0].X, sv[1].Y-sv[0].Y)
	edge2 := math3d.V2(sv[2].X-sv[0].X, sv[2].Y-sv[0].Y)
	if edge1.Cross(edge2) < 0 {
		return
	}

	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(w-1, math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(h-1, math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	var invW [3]float64
	for i := range 3 {
		if sv[i].W != 0 {
			invW[i] = 1.0 / sv[i].W
		}
	}

	baseR := float64(base.R)
	baseG := float64(base.G)
	baseB := float64(base.B)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z >= r.getDepth(x, y) {
				continue
			}

			w0, w1, w2 := bc.X*invW[0], bc.Y*invW[1], bc.Z*invW[2]
			oneOverW := w0 + w1 + w2
			if oneOverW == 0 {
				continue
			}

			// Perspective-correct light interpolation.
			lr := (w0*sv[0].LR + w1*sv[1].LR + w2*sv[2].LR) / oneOverW
			lg := (w0*sv[0].LG + w1*sv[1].LG + w2*sv[2].LG) / oneOverW
			lb := (w0*sv[0].LB + w1*sv[1].LB + w2*sv[2].LB) / oneOverW

			cr, cg, cb := baseR, baseG, baseB
			if tex != nil {
				u := (w0*sv[0].UV.X + w1*sv[1].UV.X + w2*sv[2].UV.X) / oneOverW
				v := (w0*sv[0].UV.Y + w1*sv[1].UV.Y + w2*sv[2].UV.Y) / oneOverW
				texel := tex.Sample(u, v)
				cr = float64(texel.R)
				cg = float64(texel.G)
				cb = float64(texel.B)
			}

			r.setDepth(x, y, z)
			r.work.SetPixel(x, y, Color{
				R: clamp8(cr * lr),
				G: clamp8(cg * lg),
				B: clamp8(cb * lb),
				A: 255,
			})
		}
	}
}

// drawMeshWireframe draws the mesh's triangle edges.
func (r *Renderer) drawMeshWireframe(mi scene.MeshInstance) {
	mesh := mi.Mesh
	for _, f := range mesh.Faces {
		v0 := mi.World.MulVec3(mesh.Vertices[f[0]].Position)
		v1 := mi.World.MulVec3(mesh.Vertices[f[1]].Position)
		v2 := mi.World.MulVec3(mesh.Vertices[f[2]].Position)

		r.drawLine3D(v0, v1)
		r.drawLine3D(v1, v2)
		r.drawLine3D(v2, v0)
	}
}

func (r *Renderer) drawLine3D(a, b math3d.Vec3) {
	viewProj := r.cam.ViewProjectionMatrix()

	clipA := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	clipB := viewProj.MulVec4(math3d.V4FromV3(b, 1))

	if clipA.W <= 0 && clipB.W <= 0 {
		return
	}

	if clipA.W > 0 {
		clipA.X /= clipA.W
		clipA.Y /= clipA.W
	}
	if clipB.W > 0 {
		clipB.X /= clipB.W
		clipB.Y /= clipB.W
	}

	w := float64(r.work.Width)
	h := float64(r.work.Height)
	x0 := int((clipA.X + 1) * 0.5 * w)
	y0 := int((1 - clipA.Y) * 0.5 * h)
	x1 := int((clipB.X + 1) * 0.5 * w)
	y1 := int((1 - clipB.Y) * 0.5 * h)

	r.work.DrawLine(x0, y0, x1, y1, r.WireColor)
}

// barycentric calculates barycentric coordinates for (px, py) within the
// triangle (x0,y0) (x1,y1) (x2,y2).
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
