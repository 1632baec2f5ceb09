// Package camera provides the perspective camera and the damped orbit
// controller that drives it.
package camera

import (
	"github.com/Faultbox/portal-viewer/pkg/math"
)

// Up is the world up vector.
var Up = math.Vec3{X: 0, Y: 1, Z: 0}

// Perspective is a perspective camera looking at Target.
type Perspective struct {
	FOV    float32 // Vertical field of view in degrees
	Aspect float32
	Near   float32
	Far    float32

	Position math.Vec3
	Target   math.Vec3

	projection math.Mat4
}

// NewPerspective creates a camera and commits its projection.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	c := &Perspective{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	c.UpdateProjection()
	return c
}

// UpdateProjection recomputes the projection matrix from FOV, Aspect,
// Near and Far. Call it after changing any of them.
func (c *Perspective) UpdateProjection() {
	c.projection = math.Perspective(math.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Projection returns the last committed projection matrix.
func (c *Perspective) Projection() math.Mat4 {
	return c.projection
}

// ViewMatrix returns the view matrix for the current position and target.
func (c *Perspective) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, Up)
}
