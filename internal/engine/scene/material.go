package scene

import "image"

// Material describes how a primitive is shaded.
// Implementations are *StandardMaterial and *ShaderMaterial.
type Material interface {
	MaterialName() string
}

// Texture is CPU-side image data. The renderer owns the GPU copy.
type Texture struct {
	Name  string
	Image *image.RGBA
}

// StandardMaterial is the lit, optionally textured material that model
// primitives carry when they are loaded.
type StandardMaterial struct {
	Name        string
	BaseColor   [4]float32
	Texture     *Texture
	DoubleSided bool
}

// MaterialName implements Material.
func (m *StandardMaterial) MaterialName() string { return m.Name }

// Uniform is a named shader parameter whose Value is read every draw.
// Supported values: float32, Color, [3]float32, math.Vec3.
type Uniform struct {
	Value any
}

// ShaderMaterial runs caller-supplied GLSL with a fixed uniform set.
// The renderer prepends the standard attribute and matrix declarations.
type ShaderMaterial struct {
	Name           string
	VertexShader   string
	FragmentShader string
	Uniforms       map[string]*Uniform
	Transparent    bool
}

// MaterialName implements Material.
func (m *ShaderMaterial) MaterialName() string { return m.Name }

// Uniform returns the named uniform or nil.
func (m *ShaderMaterial) Uniform(name string) *Uniform {
	return m.Uniforms[name]
}
