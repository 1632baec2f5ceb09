package viewer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/portal-viewer/internal/logger"
)

// LoopState is the render loop lifecycle: idle, then running, then stopped.
type LoopState int

const (
	LoopIdle LoopState = iota
	LoopRunning
	LoopStopped
)

func (s LoopState) String() string {
	switch s {
	case LoopIdle:
		return "idle"
	case LoopRunning:
		return "running"
	case LoopStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrLoopStopped is returned by Run and Tick once the loop has stopped.
var ErrLoopStopped = errors.New("render loop stopped")

type loop struct {
	state  LoopState
	now    func() time.Time
	cancel context.CancelFunc

	start   time.Time
	elapsed float32
	frames  uint64

	fpsTimer  time.Time
	fpsFrames int
}

// State returns the loop state.
func (v *Viewer) State() LoopState { return v.loop.state }

// Frames returns the number of frames drawn.
func (v *Viewer) Frames() uint64 { return v.loop.frames }

// Elapsed returns the seconds since the first tick, as last written to
// the portal material.
func (v *Viewer) Elapsed() float32 { return v.loop.elapsed }

// Run drives the render loop until ctx is cancelled, the user quits or a
// frame fails. Cancellation is checked before every tick; events and
// posted completions are dispatched between ticks. A draw failure is
// returned as *RenderFault. Quitting returns nil.
func (v *Viewer) Run(ctx context.Context) error {
	switch v.loop.state {
	case LoopRunning:
		return errors.New("render loop already running")
	case LoopStopped:
		return ErrLoopStopped
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	v.loop.cancel = cancel
	v.loop.state = LoopRunning
	logger.Info("render loop started")

	for {
		if ctx.Err() != nil {
			v.stop()
			logger.Info("render loop stopped", zap.Uint64("frames", v.loop.frames))
			return nil
		}

		v.pump()
		if ctx.Err() != nil {
			continue
		}

		if err := v.Tick(); err != nil {
			v.stop()
			logger.Error("render loop failed", zap.Error(err))
			return err
		}
	}
}

// Stop asks a running loop to stop before its next tick.
func (v *Viewer) Stop() {
	if v.loop.cancel != nil {
		v.loop.cancel()
	}
}

func (v *Viewer) stop() {
	v.loop.state = LoopStopped
	v.loop.cancel = nil
}

// pump dispatches window events and posted completions.
func (v *Viewer) pump() {
	v.surface.PollEvents(v.input)
	v.handleEvents(v.input.Events())
	v.queue.Drain()
}

// Tick draws one frame: it samples the elapsed time, writes it to the
// portal material, advances the orbit controls, renders and presents.
func (v *Viewer) Tick() error {
	l := &v.loop
	if l.state == LoopStopped {
		return ErrLoopStopped
	}

	now := l.now()
	if l.frames == 0 && l.start.IsZero() {
		l.start = now
		l.fpsTimer = now
	}
	if t := float32(now.Sub(l.start).Seconds()); t > l.elapsed {
		l.elapsed = t
	}

	v.material.SetTime(l.elapsed)
	v.controls.Update()

	if err := v.renderer.Render(v.scene, v.camera); err != nil {
		return &RenderFault{Frame: l.frames, Err: err}
	}
	v.surface.Present()
	l.frames++

	l.fpsFrames++
	if dt := now.Sub(l.fpsTimer); dt >= time.Second {
		logger.Debug("fps",
			zap.Int("count", l.fpsFrames),
			zap.Float64("avg_ms", float64(dt.Microseconds())/1000/float64(l.fpsFrames)))
		l.fpsFrames = 0
		l.fpsTimer = now
	}
	return nil
}
