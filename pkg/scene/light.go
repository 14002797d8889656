package scene

import (
	"image/color"

	"github.com/Amirkhon3223/first3d/pkg/math3d"
)

// LightKind discriminates the light types the renderer understands.
type LightKind int

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightPoint
)

// Light is the illumination payload of a scene node. Position comes from
// the owning node's transform; directional lights shine from that position
// towards Target.
type Light struct {
	Kind       LightKind
	Color      color.RGBA
	Intensity  float64
	Target     math3d.Vec3 // directional only
	CastShadow bool
}

// White is the neutral light color.
var White = color.RGBA{255, 255, 255, 255}

// NewAmbientLight creates a node carrying an ambient light. Ambient light
// has no position or direction.
func NewAmbientLight(c color.RGBA, intensity float64) *Node {
	n := NewNode("ambient")
	n.Light = &Light{Kind: LightAmbient, Color: c, Intensity: intensity}
	return n
}

// NewDirectionalLight creates a node carrying a directional light at the
// given position, shining towards the origin.
func NewDirectionalLight(c color.RGBA, intensity float64, position math3d.Vec3) *Node {
	n := NewNode("directional")
	n.Position = position
	n.Light = &Light{Kind: LightDirectional, Color: c, Intensity: intensity}
	return n
}

// NewPointLight creates a node carrying a point light at the given
// position.
func NewPointLight(c color.RGBA, intensity float64, position math3d.Vec3) *Node {
	n := NewNode("point")
	n.Position = position
	n.Light = &Light{Kind: LightPoint, Color: c, Intensity: intensity}
	return n
}
