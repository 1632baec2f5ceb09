// Package viewer wires the scene, camera, orbit controls, portal material
// and renderer together and drives them from the render loop.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/Faultbox/portal-viewer/internal/config"
	"github.com/Faultbox/portal-viewer/internal/engine/camera"
	"github.com/Faultbox/portal-viewer/internal/engine/capture"
	"github.com/Faultbox/portal-viewer/internal/engine/input"
	"github.com/Faultbox/portal-viewer/internal/engine/scene"
	"github.com/Faultbox/portal-viewer/internal/portal"
	"github.com/Faultbox/portal-viewer/pkg/math"
)

// Renderer draws the scene. Render is called once per tick.
type Renderer interface {
	Render(s *scene.Scene, cam *camera.Perspective) error
	Resize(targetW, targetH, screenW, screenH int)
}

// FrameReader is implemented by renderers that can read back the last
// frame for screenshots.
type FrameReader interface {
	ReadPixels() (pixels []byte, width, height int)
}

// Surface is the window the viewer presents to.
type Surface interface {
	Size() (width, height int)
	PixelRatio() float32
	PollEvents(in *input.Input)
	Present()
}

// AssetLoader loads a model in the background and calls done exactly
// once on the main thread.
type AssetLoader interface {
	Load(ctx context.Context, ref string, done func(*scene.Node, error))
}

// Deps are the collaborators a Viewer drives.
type Deps struct {
	Renderer Renderer
	Surface  Surface
	Capturer *capture.Capturer // optional
	Now      func() time.Time  // defaults to time.Now
}

// Viewer is the context object owning every piece of viewer state.
// All methods must be called from the main thread.
type Viewer struct {
	scene    *scene.Scene
	camera   *camera.Perspective
	controls *camera.OrbitControls
	light    *scene.DirectionalLight
	material *portal.Material
	viewport Viewport

	renderer Renderer
	surface  Surface
	capturer *capture.Capturer
	input    *input.Input
	queue    *Queue

	portalNode string
	model      *scene.Node
	loadErr    error

	homePosition math.Vec3
	homeTarget   math.Vec3

	loop loop
}

// New builds the scene described by cfg: a perspective camera with damped
// orbit controls, one directional light and the portal material. The model
// is attached later by LoadModel.
func New(cfg *config.Config, deps Deps) (*Viewer, error) {
	if deps.Renderer == nil || deps.Surface == nil {
		return nil, fmt.Errorf("viewer: renderer and surface are required")
	}

	clearColor, err := scene.ParseHexColor(cfg.Scene.ClearColor)
	if err != nil {
		return nil, fmt.Errorf("scene.clear_color: %w", err)
	}
	lightColor, err := scene.ParseHexColor(cfg.Light.Color)
	if err != nil {
		return nil, fmt.Errorf("light.color: %w", err)
	}
	colorStart, err := scene.ParseHexColor(cfg.Portal.ColorStart)
	if err != nil {
		return nil, fmt.Errorf("portal.color_start: %w", err)
	}
	colorEnd, err := scene.ParseHexColor(cfg.Portal.ColorEnd)
	if err != nil {
		return nil, fmt.Errorf("portal.color_end: %w", err)
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	v := &Viewer{
		scene:      scene.New(),
		material:   portal.NewMaterial(colorStart, colorEnd),
		renderer:   deps.Renderer,
		surface:    deps.Surface,
		capturer:   deps.Capturer,
		input:      input.New(),
		queue:      NewQueue(),
		portalNode: cfg.Scene.PortalNode,
		viewport:   Viewport{MaxPixelRatio: cfg.Window.MaxPixelRatio},
		loop:       loop{now: now},
	}
	if v.portalNode == "" {
		v.portalNode = portal.NodeName
	}
	v.scene.ClearColor = clearColor

	w, h := deps.Surface.Size()
	w, h = max(w, 1), max(h, 1)

	c := cfg.Camera
	v.camera = camera.NewPerspective(c.FOV, float32(w)/float32(h), c.Near, c.Far)
	v.camera.Position = vec3(c.Position)
	v.camera.Target = vec3(c.Target)
	v.homePosition = v.camera.Position
	v.homeTarget = v.camera.Target
	v.scene.AddCamera(v.camera)

	v.light = scene.NewDirectionalLight(lightColor, cfg.Light.Intensity)
	v.light.Position = vec3(cfg.Light.Position)
	v.scene.AddLight(v.light)

	ctl := cfg.Controls
	v.controls = camera.NewOrbitControls(v.camera)
	v.controls.EnableDamping = ctl.Damping
	v.controls.DampingFactor = ctl.DampingFactor
	v.controls.RotateSpeed = ctl.RotateSpeed
	v.controls.ZoomSpeed = ctl.ZoomSpeed
	v.controls.MinDistance = ctl.MinDistance
	v.controls.MaxDistance = ctl.MaxDistance

	v.Resize(w, h, deps.Surface.PixelRatio())
	return v, nil
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// Scene returns the scene graph.
func (v *Viewer) Scene() *scene.Scene { return v.scene }

// Camera returns the perspective camera.
func (v *Viewer) Camera() *camera.Perspective { return v.camera }

// Controls returns the orbit controller.
func (v *Viewer) Controls() *camera.OrbitControls { return v.controls }

// Material returns the portal material.
func (v *Viewer) Material() *portal.Material { return v.material }

// Viewport returns the current viewport state.
func (v *Viewer) Viewport() Viewport { return v.viewport }

// Model returns the attached model root, nil until a load succeeds.
func (v *Viewer) Model() *scene.Node { return v.model }

// LoadErr returns the error of the last failed load, if any.
func (v *Viewer) LoadErr() error { return v.loadErr }

// Post queues fn to run on the main thread between ticks. Safe for
// concurrent use.
func (v *Viewer) Post(fn func()) { v.queue.Post(fn) }

// ResetCamera moves the camera back to its configured position.
func (v *Viewer) ResetCamera() {
	v.camera.Position = v.homePosition
	v.camera.Target = v.homeTarget
	v.controls.Stop()
}
