// Package viewer runs an interactive model viewing session: a scene with
// a fixed light rig, orbit camera controls, and an asynchronously loaded
// model, rendered to a surface at a fixed frame rate.
package viewer

import (
	"context"
	"image/color"
	"math"
	"time"

	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/Amirkhon3223/first3d/pkg/control"
	"github.com/Amirkhon3223/first3d/pkg/loader"
	"github.com/Amirkhon3223/first3d/pkg/math3d"
	"github.com/Amirkhon3223/first3d/pkg/render"
	"github.com/Amirkhon3223/first3d/pkg/scene"
)

// Options configures a viewing session.
type Options struct {
	// FPS is the target frame rate. Defaults to 60.
	FPS int

	// Background is the scene clear color. Defaults to a dark slate.
	Background color.RGBA

	// Logger receives session events. Defaults to the package logger.
	Logger *log.Logger
}

// Session is one run of the viewer for a single model.
type Session struct {
	surface  Surface
	scene    *scene.Scene
	cam      *render.Camera
	renderer *render.Renderer
	orbit    *control.Orbit

	modelPath string
	loaded    chan loadResult
	modelRoot *scene.Node

	// Mouse drag state, touched only on the Run goroutine.
	mouseDown    bool
	lastX, lastY int

	opts Options
	log  *log.Logger
}

type loadResult struct {
	node *scene.Node
	err  error
}

// Camera and orbit constants.
var (
	cameraStart = math3d.V3(0, 2, 6)
	orbitTarget = math3d.V3(0, 1, 0)
)

const (
	cameraFOV  = math.Pi / 6 // 30 degrees
	cameraNear = 0.1
	cameraFar  = 2000
)

// Orbit sensitivity per cell of mouse travel, and per wheel notch.
const (
	dragSensitivity = 0.05
	zoomStep        = 0.5
)

// New builds a session: camera, renderer sized to the surface, light rig,
// orbit controls, and kicks off the model load in the background. The
// model attaches to the scene on the first frame after loading finishes;
// a failed load leaves the scene without it.
func New(surface Surface, modelPath string, opts Options) *Session {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Background == (color.RGBA{}) {
		opts.Background = color.RGBA{30, 30, 40, 255}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	cam := render.NewCamera()
	cam.SetFOV(cameraFOV)
	cam.SetClipPlanes(cameraNear, cameraFar)
	cam.SetPosition(cameraStart)

	cols, rows := surface.Size()
	renderer := render.NewRenderer(cam, cols, rows, render.Options{
		Antialias:  true,
		ShadowMaps: true,
		PixelRatio: surface.PixelRatio(),
	})

	sc := scene.New()
	sc.Background = opts.Background
	addLightRig(sc)

	s := &Session{
		surface:   surface,
		scene:     sc,
		cam:       cam,
		renderer:  renderer,
		orbit:     control.NewOrbit(cam, orbitTarget, opts.FPS),
		modelPath: modelPath,
		loaded:    make(chan loadResult, 1),
		opts:      opts,
		log:       logger,
	}

	go func() {
		node, err := loader.Load(modelPath)
		if err == nil {
			PrepareModel(node)
		}
		s.loaded <- loadResult{node: node, err: err}
	}()

	return s
}

// addLightRig installs the fixed lights: an ambient fill, a key and a
// weaker opposing directional, and a point light near the camera side.
func addLightRig(sc *scene.Scene) {
	sc.Add(scene.NewAmbientLight(scene.White, 0.8))

	key := scene.NewDirectionalLight(scene.White, 1.0, math3d.V3(4, 6, 4))
	key.Light.CastShadow = true
	sc.Add(key)

	fill := scene.NewDirectionalLight(scene.White, 0.5, math3d.V3(-4, 6, -4))
	fill.Light.CastShadow = true
	sc.Add(fill)

	point := scene.NewPointLight(scene.White, 1.0, math3d.V3(0, 3, 3))
	point.Light.CastShadow = true
	sc.Add(point)
}

// PrepareModel marks every mesh in a loaded subtree for shadow casting
// and receiving, with smooth shading.
func PrepareModel(root *scene.Node) {
	root.Traverse(func(n *scene.Node) bool {
		if n.Mesh != nil {
			n.Mesh.CastShadow = true
			n.Mesh.ReceiveShadow = true
			if n.Mesh.Material != nil {
				n.Mesh.Material.FlatShading = false
			}
		}
		return true
	})
}

// fitModel centers the subtree on the orbit target and scales it so its
// largest dimension is 2 world units.
func fitModel(root *scene.Node) {
	var boundsMin, boundsMax math3d.Vec3
	ok := false
	root.TraverseWithWorld(func(n *scene.Node, world math3d.Mat4) bool {
		if n.Mesh == nil {
			return true
		}
		n.Mesh.CalculateBounds()
		for _, v := range n.Mesh.Vertices {
			p := world.MulVec3(v.Position)
			if !ok {
				boundsMin, boundsMax, ok = p, p, true
				continue
			}
			boundsMin = boundsMin.Min(p)
			boundsMax = boundsMax.Max(p)
		}
		return true
	})
	if !ok {
		return
	}

	center := boundsMin.Add(boundsMax).Scale(0.5)
	maxDim := boundsMax.Sub(boundsMin).MaxComponent()

	s := 1.0
	if maxDim > 0 {
		s = 2.0 / maxDim
	}
	root.Scaling = math3d.V3(s, s, s)
	root.Position = orbitTarget.Sub(center.Scale(s))
}

// Scene exposes the session scene graph.
func (s *Session) Scene() *scene.Scene {
	return s.scene
}

// Camera exposes the session camera.
func (s *Session) Camera() *render.Camera {
	return s.cam
}

// Model returns the loaded model subtree, or nil before the load lands
// or after a failed load.
func (s *Session) Model() *scene.Node {
	return s.modelRoot
}

// Run drives the render loop until the context is canceled or the user
// quits. Surface input is drained and applied between frames, on this
// goroutine, so the orbit, camera, and renderer have a single writer.
// Run always leaves the surface closed.
func (s *Session) Run(ctx context.Context) error {
	defer s.surface.Close()

	events := s.surface.Events()
	frame := time.Second / time.Duration(s.opts.FPS)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()

		for draining := true; draining; {
			select {
			case ev, ok := <-events:
				if !ok || s.handleEvent(ev) {
					return nil
				}
			default:
				draining = false
			}
		}

		s.applyPendingLoad()
		s.orbit.Update()
		s.renderer.Render(s.scene)

		if err := s.surface.Present(s.renderer.Framebuffer()); err != nil {
			return err
		}

		if elapsed := time.Since(start); elapsed < frame {
			time.Sleep(frame - elapsed)
		}
	}
}

// applyPendingLoad attaches the model on the first frame after loading
// completes. Load failures are logged and leave the scene untouched.
func (s *Session) applyPendingLoad() {
	select {
	case res := <-s.loaded:
		if res.err != nil {
			s.log.Error("load model", "path", s.modelPath, "err", res.err)
			return
		}
		fitModel(res.node)
		s.scene.Add(res.node)
		s.modelRoot = res.node
		s.log.Info("model ready",
			"path", s.modelPath,
			"nodes", len(res.node.Children()))
	default:
	}
}

// handleEvent translates one surface event into orbit impulses and
// session commands. Returns true when the session should end.
func (s *Session) handleEvent(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		if r, ok := s.surface.(Resizable); ok {
			r.Resize(ev.Width, ev.Height)
		}
		s.renderer.SetSize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape"), ev.MatchString("q"), ev.MatchString("ctrl+c"):
			return true
		case ev.MatchString("r"):
			s.cam.SetPosition(cameraStart)
			s.orbit = control.NewOrbit(s.cam, orbitTarget, s.opts.FPS)
		case ev.MatchString("x"):
			s.renderer.Wireframe = !s.renderer.Wireframe
		case ev.MatchString("left"), ev.MatchString("a"):
			s.orbit.Rotate(-dragSensitivity, 0)
		case ev.MatchString("right"), ev.MatchString("d"):
			s.orbit.Rotate(dragSensitivity, 0)
		case ev.MatchString("up"), ev.MatchString("w"):
			s.orbit.Rotate(0, dragSensitivity)
		case ev.MatchString("down"), ev.MatchString("s"):
			s.orbit.Rotate(0, -dragSensitivity)
		case ev.MatchString("+", "="):
			s.orbit.Zoom(-zoomStep)
		case ev.MatchString("-", "_"):
			s.orbit.Zoom(zoomStep)
		}

	case uv.MouseClickEvent:
		s.mouseDown = true
		s.lastX, s.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		s.mouseDown = false

	case uv.MouseMotionEvent:
		if !s.mouseDown {
			break
		}
		dx := ev.X - s.lastX
		dy := ev.Y - s.lastY
		// Dragging right orbits left around the target; dragging up
		// raises the camera.
		s.orbit.Rotate(-float64(dx)*dragSensitivity, float64(dy)*dragSensitivity)
		s.lastX, s.lastY = ev.X, ev.Y

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			s.orbit.Zoom(-zoomStep)
		case uv.MouseWheelDown:
			s.orbit.Zoom(zoomStep)
		}
	}
	return false
}
