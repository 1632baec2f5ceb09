package camera

import (
	gomath "math"

	"github.com/Faultbox/portal-viewer/pkg/math"
)

// zoomStep is the distance ratio applied per scroll notch at ZoomSpeed 1.
const zoomStep = 0.95

// pitchLimit keeps the camera off the poles where LookAt degenerates.
const pitchLimit = gomath.Pi/2 - 1e-4

// OrbitControls rotates and zooms a camera around its Target.
//
// Input only accumulates pending motion. Update applies it: with damping
// a fraction DampingFactor of the pending motion is applied per call and
// the rest decays geometrically, so the camera eases towards where the
// input pointed. Without Update nothing moves.
type OrbitControls struct {
	camera *Perspective

	Enabled       bool
	EnableDamping bool
	DampingFactor float32
	RotateSpeed   float32
	ZoomSpeed     float32

	// Constraints
	MinDistance float32
	MaxDistance float32 // 0 means unlimited
	MinPitch    float32
	MaxPitch    float32

	// Pending motion
	deltaYaw   float64
	deltaPitch float64
	deltaZoom  float64 // log of the distance ratio

	// Pointer state
	dragging   bool
	last       math.Vec2
	viewHeight float32
}

// NewOrbitControls creates controls for cam with three.js-like defaults.
func NewOrbitControls(cam *Perspective) *OrbitControls {
	return &OrbitControls{
		camera:        cam,
		Enabled:       true,
		EnableDamping: false,
		DampingFactor: 0.05,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		MinDistance:   0,
		MaxDistance:   0,
		MinPitch:      -pitchLimit,
		MaxPitch:      pitchLimit,
		viewHeight:    1,
	}
}

// Camera returns the controlled camera.
func (o *OrbitControls) Camera() *Perspective {
	return o.camera
}

// SetViewportHeight sets the height in pixels that maps a full-height drag
// to one full turn.
func (o *OrbitControls) SetViewportHeight(h float32) {
	if h < 1 {
		h = 1
	}
	o.viewHeight = h
}

// PointerDown starts a rotate drag at (x, y) window pixels.
func (o *OrbitControls) PointerDown(x, y float32) {
	if !o.Enabled {
		return
	}
	o.dragging = true
	o.last = math.Vec2{X: x, Y: y}
}

// PointerMove continues a drag. Moves without a pressed pointer are ignored.
func (o *OrbitControls) PointerMove(x, y float32) {
	if !o.Enabled || !o.dragging {
		return
	}
	p := math.Vec2{X: x, Y: y}
	d := p.Sub(o.last)
	o.last = p

	turn := 2 * gomath.Pi * float64(o.RotateSpeed) / float64(o.viewHeight)
	o.Rotate(-float32(float64(d.X)*turn), float32(float64(d.Y)*turn))
}

// PointerUp ends a drag.
func (o *OrbitControls) PointerUp() {
	o.dragging = false
}

// Dragging reports whether a drag is in progress.
func (o *OrbitControls) Dragging() bool {
	return o.dragging
}

// Scroll zooms by wheel notches. Positive values move closer.
func (o *OrbitControls) Scroll(notches float32) {
	if !o.Enabled || notches == 0 {
		return
	}
	o.deltaZoom += float64(notches) * float64(o.ZoomSpeed) * gomath.Log(zoomStep)
}

// Rotate queues a yaw and pitch change in radians.
func (o *OrbitControls) Rotate(yaw, pitch float32) {
	o.deltaYaw += float64(yaw)
	o.deltaPitch += float64(pitch)
}

// Pending reports whether any queued motion is still above tolerance.
func (o *OrbitControls) Pending() bool {
	const eps = 1e-6
	return gomath.Abs(o.deltaYaw) > eps || gomath.Abs(o.deltaPitch) > eps || gomath.Abs(o.deltaZoom) > eps
}

// Stop discards pending motion and ends any drag.
func (o *OrbitControls) Stop() {
	o.deltaYaw, o.deltaPitch, o.deltaZoom = 0, 0, 0
	o.dragging = false
}

// Update advances the controller by one step and repositions the camera.
// Returns true if the camera moved.
func (o *OrbitControls) Update() bool {
	cam := o.camera
	offset := cam.Position.Sub(cam.Target)
	ox, oy, oz := float64(offset.X), float64(offset.Y), float64(offset.Z)

	distance := gomath.Sqrt(ox*ox + oy*oy + oz*oz)
	if distance == 0 {
		return false
	}
	yaw := gomath.Atan2(ox, oz)
	pitch := gomath.Asin(math.Clamp(oy/distance, -1, 1))

	step := 1.0
	if o.EnableDamping {
		step = float64(o.DampingFactor)
	}

	yaw += o.deltaYaw * step
	pitch += o.deltaPitch * step
	pitch = math.Clamp(pitch, float64(o.MinPitch), float64(o.MaxPitch))
	distance *= gomath.Exp(o.deltaZoom * step)
	distance = gomath.Max(distance, float64(o.MinDistance))
	if o.MaxDistance > 0 {
		distance = gomath.Min(distance, float64(o.MaxDistance))
	}

	if o.EnableDamping {
		o.deltaYaw *= 1 - step
		o.deltaPitch *= 1 - step
		o.deltaZoom *= 1 - step
	} else {
		o.deltaYaw, o.deltaPitch, o.deltaZoom = 0, 0, 0
	}

	next := math.Vec3{
		X: cam.Target.X + float32(distance*gomath.Cos(pitch)*gomath.Sin(yaw)),
		Y: cam.Target.Y + float32(distance*gomath.Sin(pitch)),
		Z: cam.Target.Z + float32(distance*gomath.Cos(pitch)*gomath.Cos(yaw)),
	}
	moved := next.Distance(cam.Position) > 1e-6
	cam.Position = next
	return moved
}

// Spherical returns the camera's yaw, pitch (radians) and distance
// relative to the target.
func (o *OrbitControls) Spherical() (yaw, pitch, distance float32) {
	offset := o.camera.Position.Sub(o.camera.Target)
	d := offset.Length()
	if d == 0 {
		return 0, 0, 0
	}
	yaw = float32(gomath.Atan2(float64(offset.X), float64(offset.Z)))
	pitch = float32(gomath.Asin(math.Clamp(float64(offset.Y/d), -1, 1)))
	return yaw, pitch, d
}
