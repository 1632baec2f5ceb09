// Package renderer draws a scene graph with OpenGL.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/portal-viewer/internal/engine/camera"
	"github.com/Faultbox/portal-viewer/internal/engine/framebuffer"
	"github.com/Faultbox/portal-viewer/internal/engine/scene"
	"github.com/Faultbox/portal-viewer/internal/engine/shader"
	"github.com/Faultbox/portal-viewer/internal/logger"
	"github.com/Faultbox/portal-viewer/internal/shaders"
	"github.com/Faultbox/portal-viewer/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width   int // initial render target size in pixels
	Height  int
	Samples int // MSAA samples, 0 disables
}

// Renderer draws scenes into an offscreen target and presents it to the
// default framebuffer.
type Renderer struct {
	config Config

	standard *shader.Program
	target   *framebuffer.Framebuffer

	screenW, screenH int32

	meshes   map[*scene.Primitive]*gpuMesh
	textures map[*scene.Texture]uint32
	programs map[*scene.ShaderMaterial]*shader.Program
}

// New creates a new renderer.
// Must be called after the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		screenW:  int32(cfg.Width),
		screenH:  int32(cfg.Height),
		meshes:   make(map[*scene.Primitive]*gpuMesh),
		textures: make(map[*scene.Texture]uint32),
		programs: make(map[*scene.ShaderMaterial]*shader.Program),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	var err error
	r.standard, err = shader.NewProgram(shaders.StandardVertexShader, shaders.StandardFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("standard program: %w", err)
	}

	r.target, err = framebuffer.New(int32(cfg.Width), int32(cfg.Height), int32(cfg.Samples))
	if err != nil {
		r.standard.Delete()
		return nil, err
	}

	return r, nil
}

// Close releases all GPU resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for p, m := range r.meshes {
		m.delete()
		delete(r.meshes, p)
	}
	for t, id := range r.textures {
		gl.DeleteTextures(1, &id)
		delete(r.textures, t)
	}
	for m, p := range r.programs {
		p.Delete()
		delete(r.programs, m)
	}
	if r.standard != nil {
		r.standard.Delete()
	}
	if r.target != nil {
		r.target.Destroy()
	}
}

// Resize sets the offscreen target to targetW x targetH pixels and the
// presented area to screenW x screenH pixels.
func (r *Renderer) Resize(targetW, targetH, screenW, screenH int) {
	r.target.Resize(int32(targetW), int32(targetH))
	r.screenW, r.screenH = int32(screenW), int32(screenH)
	logger.Debug("renderer resized",
		zap.Int("target_width", targetW),
		zap.Int("target_height", targetH),
		zap.Int("screen_width", screenW),
		zap.Int("screen_height", screenH),
	)
}

// TargetSize returns the offscreen target size in pixels.
func (r *Renderer) TargetSize() (int, int) {
	w, h := r.target.Size()
	return int(w), int(h)
}

// frame carries per-frame uniforms.
type frame struct {
	view, proj math.Mat4
	lightDir   [3]float32
	lightColor [3]float32
}

type drawItem struct {
	prim  *scene.Primitive
	mat   scene.Material
	world math.Mat4
}

// Render draws one frame of s as seen by cam and presents it to the
// default framebuffer.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Perspective) error {
	r.target.Bind()
	gl.Enable(gl.FRAMEBUFFER_SRGB)
	gl.DepthMask(true)
	gl.ClearColor(s.ClearColor.R, s.ClearColor.G, s.ClearColor.B, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	f := frame{view: cam.ViewMatrix(), proj: cam.Projection()}
	if lights := s.Lights(); len(lights) > 0 {
		d := lights[0].Direction()
		f.lightDir = [3]float32{d.X, d.Y, d.Z}
		f.lightColor = lights[0].Radiance().Array()
	}

	var opaque, transparent []drawItem
	for _, root := range s.Nodes() {
		root.Walk(math.Identity(), func(n *scene.Node, world math.Mat4) {
			if n.Mesh == nil {
				return
			}
			for _, p := range n.Mesh.Primitives {
				mat := n.Material()
				if mat == nil {
					mat = p.Material
				}
				item := drawItem{prim: p, mat: mat, world: world}
				if sm, ok := mat.(*scene.ShaderMaterial); ok && sm.Transparent {
					transparent = append(transparent, item)
				} else {
					opaque = append(opaque, item)
				}
			}
		})
	}

	for _, item := range opaque {
		if err := r.draw(item, &f); err != nil {
			return err
		}
	}
	if len(transparent) > 0 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
		for _, item := range transparent {
			if err := r.draw(item, &f); err != nil {
				return err
			}
		}
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}

	gl.Disable(gl.FRAMEBUFFER_SRGB)
	gl.BindVertexArray(0)
	r.target.Resolve()
	r.target.BlitToScreen(r.screenW, r.screenH)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

func (r *Renderer) draw(item drawItem, f *frame) error {
	mesh := r.mesh(item.prim)
	if mesh == nil {
		return nil
	}

	switch m := item.mat.(type) {
	case *scene.ShaderMaterial:
		prog, err := r.program(m)
		if err != nil {
			return err
		}
		prog.Use()
		prog.SetMat4("modelMatrix", item.world)
		prog.SetMat4("viewMatrix", f.view)
		prog.SetMat4("projectionMatrix", f.proj)
		if err := applyUniforms(prog, m.Uniforms); err != nil {
			return fmt.Errorf("material %q: %w", m.Name, err)
		}
		// Custom shaders write display values directly.
		gl.Disable(gl.FRAMEBUFFER_SRGB)
		gl.Disable(gl.CULL_FACE)
		mesh.draw()
		gl.Enable(gl.FRAMEBUFFER_SRGB)

	case *scene.StandardMaterial:
		p := r.standard
		p.Use()
		p.SetMat4("uModel", item.world)
		p.SetMat4("uView", f.view)
		p.SetMat4("uProjection", f.proj)
		p.SetVec4("uBaseColor", m.BaseColor)
		p.SetVec3("uLightDir", f.lightDir)
		p.SetVec3("uLightColor", f.lightColor)
		p.SetInt("uTexture", 0)

		hasTex := int32(0)
		if m.Texture != nil && m.Texture.Image != nil {
			gl.ActiveTexture(gl.TEXTURE0)
			gl.BindTexture(gl.TEXTURE_2D, r.texture(m.Texture))
			hasTex = 1
		}
		p.SetInt("uHasTexture", hasTex)

		if m.DoubleSided {
			gl.Disable(gl.CULL_FACE)
		} else {
			gl.Enable(gl.CULL_FACE)
			gl.CullFace(gl.BACK)
		}
		mesh.draw()

	default:
		return fmt.Errorf("unsupported material %T", item.mat)
	}
	return nil
}

func applyUniforms(p *shader.Program, uniforms map[string]*scene.Uniform) error {
	for name, u := range uniforms {
		switch v := u.Value.(type) {
		case float32:
			p.SetFloat(name, v)
		case int32:
			p.SetInt(name, v)
		case scene.Color:
			p.SetVec3(name, v.Array())
		case [3]float32:
			p.SetVec3(name, v)
		case math.Vec3:
			p.SetVec3(name, [3]float32{v.X, v.Y, v.Z})
		case [4]float32:
			p.SetVec4(name, v)
		case math.Mat4:
			p.SetMat4(name, v)
		default:
			return fmt.Errorf("uniform %q: unsupported type %T", name, u.Value)
		}
	}
	return nil
}

// program compiles m on first use and caches it.
func (r *Renderer) program(m *scene.ShaderMaterial) (*shader.Program, error) {
	if p, ok := r.programs[m]; ok {
		return p, nil
	}
	p, err := shader.NewProgram(
		shaders.WithPrelude(shaders.VertexPrelude, m.VertexShader),
		shaders.WithPrelude(shaders.FragmentPrelude, m.FragmentShader),
	)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", m.Name, err)
	}
	logger.Debug("compiled shader material", zap.String("material", m.Name))
	r.programs[m] = p
	return p, nil
}

// ReadPixels returns the last rendered frame as RGBA rows, bottom row
// first, with its size.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.target.Size()
	return r.target.ReadPixels(), int(w), int(h)
}
