package viewer

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Faultbox/portal-viewer/internal/assets"
	"github.com/Faultbox/portal-viewer/internal/config"
	"github.com/Faultbox/portal-viewer/internal/engine/camera"
	"github.com/Faultbox/portal-viewer/internal/engine/capture"
	"github.com/Faultbox/portal-viewer/internal/engine/input"
	"github.com/Faultbox/portal-viewer/internal/engine/scene"
	"github.com/Faultbox/portal-viewer/pkg/math"
)

type resizeCall struct {
	targetW, targetH, screenW, screenH int
}

type fakeRenderer struct {
	renders  int
	failAt   int // 1-based render that fails, 0 never
	err      error
	resizes  []resizeCall
	onRender func()
}

func (r *fakeRenderer) Render(s *scene.Scene, cam *camera.Perspective) error {
	r.renders++
	if r.onRender != nil {
		r.onRender()
	}
	if r.failAt > 0 && r.renders == r.failAt {
		return r.err
	}
	return nil
}

func (r *fakeRenderer) Resize(targetW, targetH, screenW, screenH int) {
	r.resizes = append(r.resizes, resizeCall{targetW, targetH, screenW, screenH})
}

func (r *fakeRenderer) ReadPixels() ([]byte, int, int) {
	return make([]byte, 2*2*4), 2, 2
}

func (r *fakeRenderer) lastResize() resizeCall {
	return r.resizes[len(r.resizes)-1]
}

type fakeSurface struct {
	width, height int
	ratio         float32
	presents      int
	polls         [][]input.Event // events returned by successive polls
	onPresent     func(n int)
}

func (s *fakeSurface) Size() (int, int)    { return s.width, s.height }
func (s *fakeSurface) PixelRatio() float32 { return s.ratio }

func (s *fakeSurface) PollEvents(in *input.Input) {
	in.Reset()
	if len(s.polls) == 0 {
		return
	}
	for _, e := range s.polls[0] {
		in.Push(e)
	}
	s.polls = s.polls[1:]
}

func (s *fakeSurface) Present() {
	s.presents++
	if s.onPresent != nil {
		s.onPresent(s.presents)
	}
}

// fakeClock advances by step on every call.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}

type fakeLoader struct {
	post func(func())
	root *scene.Node
	err  error
	refs []string
}

func (l *fakeLoader) Load(ctx context.Context, ref string, done func(*scene.Node, error)) {
	l.refs = append(l.refs, ref)
	l.post(func() { done(l.root, l.err) })
}

func newTestViewer(t *testing.T) (*Viewer, *fakeRenderer, *fakeSurface, *fakeClock) {
	t.Helper()
	r := &fakeRenderer{}
	s := &fakeSurface{width: 1280, height: 720, ratio: 1}
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: 16 * time.Millisecond}

	v, err := New(config.Default(), Deps{Renderer: r, Surface: s, Now: clock.now})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v, r, s, clock
}

func helmet(children ...string) *scene.Node {
	root := scene.NewNode("helmet")
	for _, name := range children {
		root.Add(scene.NewNode(name))
	}
	return root
}

func TestNewBuildsScene(t *testing.T) {
	v, r, _, _ := newTestViewer(t)

	cam := v.Camera()
	if cam.FOV != 45 || cam.Near != 0.1 || cam.Far != 100 {
		t.Errorf("camera = fov %v near %v far %v", cam.FOV, cam.Near, cam.Far)
	}
	if cam.Position != (math.Vec3{X: 4, Y: 6, Z: 6}) {
		t.Errorf("camera position = %v", cam.Position)
	}
	if want := float32(1280) / 720; cam.Aspect != want {
		t.Errorf("aspect = %v, want %v", cam.Aspect, want)
	}

	lights := v.Scene().Lights()
	if len(lights) != 1 {
		t.Fatalf("got %d lights, want 1", len(lights))
	}
	if lights[0].Intensity != 0.8 || lights[0].Color != scene.White {
		t.Errorf("light = %+v", lights[0])
	}
	if lights[0].Position != (math.Vec3{X: -5, Y: 5, Z: 3}) {
		t.Errorf("light position = %v", lights[0].Position)
	}
	if len(v.Scene().Nodes()) != 0 {
		t.Error("scene should have no model before loading")
	}
	if !v.Controls().EnableDamping {
		t.Error("damping should be enabled")
	}
	if v.State() != LoopIdle {
		t.Errorf("state = %v, want idle", v.State())
	}
	if len(r.resizes) != 1 {
		t.Errorf("renderer resized %d times during New, want 1", len(r.resizes))
	}
}

func TestNewRejectsBadColors(t *testing.T) {
	cfg := config.Default()
	cfg.Portal.ColorStart = "teal"
	_, err := New(cfg, Deps{Renderer: &fakeRenderer{}, Surface: &fakeSurface{width: 1, height: 1}})
	if err == nil {
		t.Fatal("expected error for invalid color")
	}
}

func TestRunThreeFrames(t *testing.T) {
	v, r, s, _ := newTestViewer(t)

	var times []float32
	r.onRender = func() { times = append(times, v.Material().Time()) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.onPresent = func(n int) {
		if n == 3 {
			cancel()
		}
	}

	if err := v.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if r.renders != 3 || s.presents != 3 {
		t.Fatalf("renders=%d presents=%d, want 3", r.renders, s.presents)
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			t.Errorf("uTime not strictly increasing: %v", times)
		}
	}
	if v.State() != LoopStopped {
		t.Errorf("state = %v, want stopped", v.State())
	}
	if v.Frames() != 3 {
		t.Errorf("Frames = %d, want 3", v.Frames())
	}

	if err := v.Run(context.Background()); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("second Run = %v, want ErrLoopStopped", err)
	}
}

func TestTickWritesSecondsSinceFirstTick(t *testing.T) {
	v, _, _, clock := newTestViewer(t)
	clock.step = 0
	base := clock.t

	steps := []struct {
		at   time.Duration
		want float32
	}{
		{0, 0},
		{1500 * time.Millisecond, 1.5},
		{2250 * time.Millisecond, 2.25},
		{4 * time.Second, 4},
	}
	for _, st := range steps {
		clock.t = base.Add(st.at)
		if err := v.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		if got := v.Material().Time(); got != st.want {
			t.Errorf("at %v: uTime = %v, want %v", st.at, got, st.want)
		}
		if v.Elapsed() != st.want {
			t.Errorf("at %v: Elapsed = %v, want %v", st.at, v.Elapsed(), st.want)
		}
	}
}

func TestTickTimeNeverDecreases(t *testing.T) {
	v, _, _, clock := newTestViewer(t)
	clock.step = 0
	base := clock.t

	for _, at := range []time.Duration{0, 2 * time.Second, time.Second} {
		clock.t = base.Add(at)
		if err := v.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if got := v.Material().Time(); got != 2 {
		t.Errorf("uTime = %v after a clock step back, want 2", got)
	}
}

func TestResize(t *testing.T) {
	tests := []struct {
		name           string
		w, h           int
		dpr            float32
		wantTW, wantTH int
		wantSW, wantSH int
	}{
		{"standard display", 800, 600, 1, 800, 600, 800, 600},
		{"fractional ratio", 800, 600, 1.5, 1200, 900, 1200, 900},
		{"retina", 1024, 768, 2, 2048, 1536, 2048, 1536},
		{"ratio above cap", 800, 600, 3, 1600, 1200, 2400, 1800},
		{"floor", 333, 111, 1.25, 416, 138, 416, 138},
		{"missing ratio", 640, 480, 0, 640, 480, 640, 480},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, r, _, _ := newTestViewer(t)
			v.Resize(tt.w, tt.h, tt.dpr)

			wantAspect := float32(tt.w) / float32(tt.h)
			if v.Camera().Aspect != wantAspect {
				t.Errorf("aspect = %v, want %v", v.Camera().Aspect, wantAspect)
			}
			wantProj := camera.NewPerspective(45, wantAspect, 0.1, 100).Projection()
			if v.Camera().Projection() != wantProj {
				t.Error("projection not recomputed after resize")
			}

			got := r.lastResize()
			want := resizeCall{tt.wantTW, tt.wantTH, tt.wantSW, tt.wantSH}
			if got != want {
				t.Errorf("renderer.Resize = %+v, want %+v", got, want)
			}

			vp := v.Viewport()
			if vp.Width != tt.w || vp.Height != tt.h {
				t.Errorf("viewport = %dx%d", vp.Width, vp.Height)
			}
			if tw, th := vp.TargetSize(); tw != tt.wantTW || th != tt.wantTH {
				t.Errorf("TargetSize = %dx%d", tw, th)
			}
		})
	}
}

func TestResizeEventBetweenTicks(t *testing.T) {
	v, r, s, _ := newTestViewer(t)
	s.polls = [][]input.Event{{
		{Type: input.EventWindowResize, Width: 640, Height: 480, PixelRatio: 2},
	}}

	v.pump()

	if got := r.lastResize(); got != (resizeCall{1280, 960, 1280, 960}) {
		t.Errorf("renderer.Resize = %+v", got)
	}
	if v.Camera().Aspect != float32(640)/480 {
		t.Errorf("aspect = %v", v.Camera().Aspect)
	}
}

func TestLoadModelAttachesPortalMaterial(t *testing.T) {
	v, _, _, _ := newTestViewer(t)
	root := helmet("visor", "portal", "frame")
	l := &fakeLoader{post: v.Post, root: root}

	v.LoadModel(context.Background(), l, "helmet.glb")

	if v.Scene().Contains(root) {
		t.Fatal("model attached before the completion was drained")
	}
	if n := v.queue.Drain(); n != 1 {
		t.Fatalf("drained %d completions, want 1", n)
	}

	if err := v.LoadErr(); err != nil {
		t.Fatalf("LoadErr = %v", err)
	}
	if !v.Scene().Contains(root) || v.Model() != root {
		t.Fatal("model not in scene")
	}
	portalNode := root.FindChild("portal")
	if portalNode.Material() != v.Material().Shader() {
		t.Error("portal material is not the viewer's shader material")
	}
	for _, name := range []string{"visor", "frame"} {
		if root.FindChild(name).Material() != nil {
			t.Errorf("%s material was changed", name)
		}
	}
	if len(l.refs) != 1 || l.refs[0] != "helmet.glb" {
		t.Errorf("loader refs = %v", l.refs)
	}
}

func TestLoadModelWithoutPortalLeavesSceneUntouched(t *testing.T) {
	v, _, _, _ := newTestViewer(t)
	root := helmet("visor")
	nested := scene.NewNode("portal")
	root.Children[0].Add(nested)

	before := v.Scene().Len()
	v.LoadModel(context.Background(), &fakeLoader{post: v.Post, root: root}, "helmet.glb")
	v.queue.Drain()

	var perr *PreconditionError
	if !errors.As(v.LoadErr(), &perr) {
		t.Fatalf("LoadErr = %v, want *PreconditionError", v.LoadErr())
	}
	if perr.Node != "portal" || perr.Ref != "helmet.glb" {
		t.Errorf("PreconditionError = %+v", perr)
	}
	if v.Scene().Len() != before || v.Scene().Contains(root) {
		t.Error("scene changed after a rejected load")
	}
	if nested.Material() != nil {
		t.Error("grandchild named portal must not receive the material")
	}
	if v.Model() != nil {
		t.Error("Model should stay nil")
	}
}

func TestLoadModelErrorKeepsRendering(t *testing.T) {
	v, r, _, _ := newTestViewer(t)
	loadErr := &assets.LoadError{Ref: "helmet.glb", Op: "fetch", Err: os.ErrNotExist}
	v.LoadModel(context.Background(), &fakeLoader{post: v.Post, err: loadErr}, "helmet.glb")
	v.queue.Drain()

	var le *assets.LoadError
	if !errors.As(v.LoadErr(), &le) {
		t.Fatalf("LoadErr = %v, want *assets.LoadError", v.LoadErr())
	}
	if len(v.Scene().Nodes()) != 0 {
		t.Error("failed load added nodes")
	}
	if err := v.Tick(); err != nil {
		t.Fatalf("Tick after failed load: %v", err)
	}
	if r.renders != 1 {
		t.Errorf("renders = %d, want 1", r.renders)
	}
}

func TestRunStopsOnRenderFault(t *testing.T) {
	v, r, s, _ := newTestViewer(t)
	boom := errors.New("device lost")
	r.failAt = 2
	r.err = boom

	err := v.Run(context.Background())

	var fault *RenderFault
	if !errors.As(err, &fault) {
		t.Fatalf("Run = %v, want *RenderFault", err)
	}
	if !errors.Is(err, boom) {
		t.Error("RenderFault should wrap the draw error")
	}
	if fault.Frame != 1 {
		t.Errorf("Frame = %d, want 1", fault.Frame)
	}
	if r.renders != 2 || s.presents != 1 {
		t.Errorf("renders=%d presents=%d, want 2 and 1", r.renders, s.presents)
	}
	if v.State() != LoopStopped {
		t.Errorf("state = %v, want stopped", v.State())
	}
	if err := v.Tick(); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("Tick after fault = %v, want ErrLoopStopped", err)
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	v, r, _, _ := newTestViewer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := v.Run(ctx); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if r.renders != 0 {
		t.Errorf("renders = %d, want 0", r.renders)
	}
	if v.State() != LoopStopped {
		t.Errorf("state = %v", v.State())
	}
}

func TestRunStopsOnQuitEvents(t *testing.T) {
	tests := []struct {
		name  string
		event input.Event
	}{
		{"escape", input.Event{Type: input.EventKeyDown, Key: input.KeyEscape}},
		{"window close", input.Event{Type: input.EventQuit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, r, s, _ := newTestViewer(t)
			s.polls = [][]input.Event{nil, {tt.event}}

			if err := v.Run(context.Background()); err != nil {
				t.Fatalf("Run = %v", err)
			}
			if r.renders != 1 {
				t.Errorf("renders = %d, want 1", r.renders)
			}
		})
	}
}

func TestDragIsAppliedOnlyByTicks(t *testing.T) {
	v, _, s, _ := newTestViewer(t)
	s.polls = [][]input.Event{{
		{Type: input.EventMouseDown, Button: input.ButtonLeft, MouseX: 100, MouseY: 100},
		{Type: input.EventMouseMove, MouseX: 300, MouseY: 100},
		{Type: input.EventMouseUp, Button: input.ButtonLeft},
	}}

	start := v.Camera().Position
	startYaw, _, startDist := v.Controls().Spherical()
	v.pump()
	if v.Camera().Position != start {
		t.Fatal("camera moved before any tick")
	}

	prev := startYaw
	var step0 float64
	for i := 0; i < 30; i++ {
		if err := v.Tick(); err != nil {
			t.Fatal(err)
		}
		yaw, _, dist := v.Controls().Spherical()
		step := float64(prev - yaw)
		if step <= 0 {
			t.Fatalf("tick %d: yaw did not keep moving (%v -> %v)", i, prev, yaw)
		}
		if i == 0 {
			step0 = step
		} else if step > step0+1e-6 {
			t.Errorf("tick %d: damped step %v grew beyond first step %v", i, step, step0)
		}
		if d := dist - startDist; d > 1e-3 || d < -1e-3 {
			t.Errorf("tick %d: distance changed %v -> %v", i, startDist, dist)
		}
		prev = yaw
	}
}

func TestResetCameraKey(t *testing.T) {
	v, _, s, _ := newTestViewer(t)
	home := v.Camera().Position

	v.Controls().Rotate(1, 0)
	if err := v.Tick(); err != nil {
		t.Fatal(err)
	}
	if v.Camera().Position == home {
		t.Fatal("camera did not move")
	}

	s.polls = [][]input.Event{{{Type: input.EventKeyDown, Key: input.KeyR}}}
	v.pump()
	if v.Camera().Position != home {
		t.Errorf("position = %v, want %v", v.Camera().Position, home)
	}
	if v.Controls().Pending() {
		t.Error("reset should discard pending motion")
	}
}

func TestScreenshot(t *testing.T) {
	r := &fakeRenderer{}
	s := &fakeSurface{width: 320, height: 240, ratio: 1}
	dir := t.TempDir()

	v, err := New(config.Default(), Deps{Renderer: r, Surface: s, Capturer: capture.New(dir, "portal")})
	if err != nil {
		t.Fatal(err)
	}

	path, err := v.Screenshot()
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("screenshot not written: %v", err)
	}

	v.capturer = nil
	if path, err := v.Screenshot(); path != "" || err != nil {
		t.Errorf("without capturer got %q, %v", path, err)
	}
}

func TestQueue(t *testing.T) {
	q := NewQueue()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ran := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Post(func() {
				mu.Lock()
				ran++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	if q.Len() != 50 {
		t.Fatalf("Len = %d, want 50", q.Len())
	}
	if n := q.Drain(); n != 50 || ran != 50 {
		t.Fatalf("Drain ran %d (counted %d), want 50", n, ran)
	}

	q.Post(func() { q.Post(func() {}) })
	if n := q.Drain(); n != 1 {
		t.Errorf("Drain = %d, want 1", n)
	}
	if q.Len() != 1 {
		t.Errorf("function posted while draining should wait, Len = %d", q.Len())
	}
}

func TestLoopStateString(t *testing.T) {
	for s, want := range map[LoopState]string{
		LoopIdle:      "idle",
		LoopRunning:   "running",
		LoopStopped:   "stopped",
		LoopState(42): "unknown",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", s, got, want)
		}
	}
}
