package viewer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/portal-viewer/internal/engine/input"
	"github.com/Faultbox/portal-viewer/internal/logger"
)

func (v *Viewer) handleEvents(events []input.Event) {
	for _, e := range events {
		switch e.Type {
		case input.EventQuit:
			v.Stop()

		case input.EventWindowResize:
			v.Resize(e.Width, e.Height, e.PixelRatio)

		case input.EventKeyDown:
			switch e.Key {
			case input.KeyEscape:
				v.Stop()
			case input.KeyF12:
				v.Screenshot()
			case input.KeyR:
				v.ResetCamera()
			}

		case input.EventMouseDown:
			if e.Button == input.ButtonLeft {
				v.controls.PointerDown(e.MouseX, e.MouseY)
			}

		case input.EventMouseMove:
			v.controls.PointerMove(e.MouseX, e.MouseY)

		case input.EventMouseUp:
			if e.Button == input.ButtonLeft {
				v.controls.PointerUp()
			}

		case input.EventMouseWheel:
			v.controls.Scroll(e.WheelY)
		}
	}
}

// Screenshot saves the last rendered frame. It needs a capturer and a
// renderer that implements FrameReader.
func (v *Viewer) Screenshot() (string, error) {
	fr, ok := v.renderer.(FrameReader)
	if v.capturer == nil || !ok {
		logger.Warn("screenshots are not available")
		return "", nil
	}

	pixels, w, h := fr.ReadPixels()
	path, err := v.capturer.Save(pixels, w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return "", err
	}
	logger.Info("screenshot saved", zap.String("path", path))
	return path, nil
}
