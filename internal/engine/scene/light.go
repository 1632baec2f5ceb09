package scene

import "github.com/Faultbox/portal-viewer/pkg/math"

// DirectionalLight shines from Position towards the origin.
type DirectionalLight struct {
	Color     Color
	Intensity float32
	Position  math.Vec3
}

// NewDirectionalLight creates a light with the given color and intensity.
func NewDirectionalLight(color Color, intensity float32) *DirectionalLight {
	return &DirectionalLight{
		Color:     color,
		Intensity: intensity,
		Position:  math.Vec3{X: 0, Y: 1, Z: 0},
	}
}

// Direction returns the normalized vector pointing towards the light.
func (l *DirectionalLight) Direction() math.Vec3 {
	return l.Position.Normalize()
}

// Radiance returns color scaled by intensity.
func (l *DirectionalLight) Radiance() Color {
	return l.Color.Scale(l.Intensity)
}
