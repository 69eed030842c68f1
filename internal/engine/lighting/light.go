// Package lighting provides the scene light records and their procedural
// population.
package lighting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the size of the light array declared by the shaders.
const MaxLights = 128

// Type identifies the kind of light source. Values match the shader constants.
type Type int32

const (
	TypeDirectional Type = iota
	TypePoint
	TypeSpot
)

func (t Type) String() string {
	switch t {
	case TypeDirectional:
		return "Directional"
	case TypePoint:
		return "Point"
	case TypeSpot:
		return "Spot"
	default:
		return fmt.Sprintf("Type(%d)", int32(t))
	}
}

// Light is one light record as uploaded to the shaders.
type Light struct {
	Type      Type
	Direction mgl32.Vec3 // Directional and Spot
	Position  mgl32.Vec3 // Point and Spot
	Color     mgl32.Vec3 // unnormalized RGB gain
	Intensity float32
	Range     float32 // Point and Spot falloff distance

	// SpotFalloff is the cone falloff exponent of a Spot light.
	// It is kept apart from Range since the two have different units.
	SpotFalloff float32
}

// FinalColor returns Color scaled by Intensity.
func (l Light) FinalColor() mgl32.Vec3 {
	return l.Color.Mul(l.Intensity)
}

// HasDirection reports whether Direction is meaningful for the light's type.
func (l Light) HasDirection() bool {
	return l.Type == TypeDirectional || l.Type == TypeSpot
}

// HasPosition reports whether Position and Range are meaningful.
func (l Light) HasPosition() bool {
	return l.Type == TypePoint || l.Type == TypeSpot
}
