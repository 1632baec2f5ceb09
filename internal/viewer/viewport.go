package viewer

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/portal-viewer/internal/logger"
)

// DefaultMaxPixelRatio caps the device pixel ratio used for the render
// target.
const DefaultMaxPixelRatio = 2

// Viewport is the window size in logical pixels and its device pixel ratio.
type Viewport struct {
	Width         int
	Height        int
	PixelRatio    float32
	MaxPixelRatio float32 // 0 uses DefaultMaxPixelRatio
}

// Aspect returns Width / Height.
func (vp Viewport) Aspect() float32 {
	if vp.Height <= 0 {
		return 1
	}
	return float32(vp.Width) / float32(vp.Height)
}

// EffectiveRatio returns the pixel ratio clamped to MaxPixelRatio.
func (vp Viewport) EffectiveRatio() float32 {
	r := vp.PixelRatio
	if r <= 0 {
		r = 1
	}
	limit := vp.MaxPixelRatio
	if limit <= 0 {
		limit = DefaultMaxPixelRatio
	}
	return min(r, limit)
}

// TargetSize returns the render target size in pixels:
// floor(Width·r) x floor(Height·r) with r the effective ratio.
func (vp Viewport) TargetSize() (int, int) {
	return scaled(vp.Width, vp.Height, vp.EffectiveRatio())
}

// DrawableSize returns the window's framebuffer size in pixels, using the
// unclamped ratio.
func (vp Viewport) DrawableSize() (int, int) {
	r := vp.PixelRatio
	if r <= 0 {
		r = 1
	}
	return scaled(vp.Width, vp.Height, r)
}

func scaled(w, h int, r float32) (int, int) {
	sw := int(gomath.Floor(float64(w) * float64(r)))
	sh := int(gomath.Floor(float64(h) * float64(r)))
	return max(sw, 1), max(sh, 1)
}

// Resize applies a new window size: it updates the viewport, the camera
// aspect and projection, the orbit drag scale and the render target.
func (v *Viewer) Resize(width, height int, pixelRatio float32) {
	width, height = max(width, 1), max(height, 1)

	v.viewport.Width = width
	v.viewport.Height = height
	v.viewport.PixelRatio = pixelRatio

	v.camera.Aspect = v.viewport.Aspect()
	v.camera.UpdateProjection()
	v.controls.SetViewportHeight(float32(height))

	tw, th := v.viewport.TargetSize()
	sw, sh := v.viewport.DrawableSize()
	v.renderer.Resize(tw, th, sw, sh)

	logger.Debug("viewport resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float32("pixel_ratio", v.viewport.EffectiveRatio()),
		zap.Int("target_width", tw),
		zap.Int("target_height", th),
	)
}
