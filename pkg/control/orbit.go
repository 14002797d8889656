// Package control implements camera controllers.
package control

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/Amirkhon3223/first3d/pkg/math3d"
	"github.com/Amirkhon3223/first3d/pkg/render"
)

// axis tracks position and velocity for one orbit degree of freedom with
// spring decay.
type axis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity, animates Velocity toward 0
}

func newAxis(fps int) axis {
	return axis{
		// Frequency 4.0, damping 1.0 is critically damped: no overshoot.
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

func (a *axis) update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Orbit rotates a camera around a fixed target point with inertial
// damping. Azimuth spins around the target's vertical axis, elevation
// tilts above and below it, radius is the orbit distance.
type Orbit struct {
	Target math3d.Vec3

	azimuth   axis
	elevation axis
	radius    axis

	MinRadius float64
	MaxRadius float64

	cam *render.Camera
	fps int
}

// Elevation clamp just short of the poles, keeps LookAt stable.
const maxElevation = math.Pi/2 - 0.05

// NewOrbit creates orbit controls for a camera, deriving the initial
// spherical state from the camera's current position relative to target.
func NewOrbit(cam *render.Camera, target math3d.Vec3, fps int) *Orbit {
	o := &Orbit{
		Target:    target,
		azimuth:   newAxis(fps),
		elevation: newAxis(fps),
		radius:    newAxis(fps),
		MinRadius: 0.5,
		MaxRadius: 100,
		cam:       cam,
		fps:       fps,
	}

	offset := cam.Position.Sub(target)
	r := offset.Len()
	if r == 0 {
		r = o.MinRadius
		offset = math3d.V3(0, 0, r)
	}
	o.radius.Position = r
	o.elevation.Position = math.Asin(offset.Y / r)
	o.azimuth.Position = math.Atan2(offset.X, offset.Z)

	o.apply()
	return o
}

// Rotate adds a rotation impulse in radians. The springs decay it over
// the following frames.
func (o *Orbit) Rotate(dAzimuth, dElevation float64) {
	o.azimuth.Velocity += dAzimuth
	o.elevation.Velocity += dElevation
}

// Zoom adds a radius impulse. Positive moves the camera away from the
// target.
func (o *Orbit) Zoom(delta float64) {
	o.radius.Velocity += delta
}

// Stop kills all remaining velocity without moving the camera.
func (o *Orbit) Stop() {
	o.azimuth.Velocity, o.azimuth.velAccel = 0, 0
	o.elevation.Velocity, o.elevation.velAccel = 0, 0
	o.radius.Velocity, o.radius.velAccel = 0, 0
}

// Update advances the springs one frame and repositions the camera.
// Call once per frame.
func (o *Orbit) Update() {
	o.azimuth.update()
	o.elevation.update()
	o.radius.update()

	o.elevation.Position = clamp(o.elevation.Position, -maxElevation, maxElevation)
	o.radius.Position = clamp(o.radius.Position, o.MinRadius, o.MaxRadius)

	o.apply()
}

// Radius returns the current orbit distance.
func (o *Orbit) Radius() float64 {
	return o.radius.Position
}

// apply converts the spherical state to a camera position and aims the
// camera at the target.
func (o *Orbit) apply() {
	r := o.radius.Position
	el := o.elevation.Position
	az := o.azimuth.Position

	o.cam.SetPosition(o.Target.Add(math3d.V3(
		r*math.Cos(el)*math.Sin(az),
		r*math.Sin(el),
		r*math.Cos(el)*math.Cos(az),
	)))
	o.cam.LookAt(o.Target)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
