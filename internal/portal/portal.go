// Package portal builds the animated portal shader material.
package portal

import (
	"github.com/Faultbox/portal-viewer/internal/engine/scene"
	"github.com/Faultbox/portal-viewer/internal/shaders"
)

// NodeName is the model child that receives the portal material.
const NodeName = "portal"

// Uniform names.
const (
	UniformTime       = "uTime"
	UniformColorStart = "uColorStart"
	UniformColorEnd   = "uColorEnd"
)

// Default gradient colors.
var (
	DefaultColorStart = scene.MustParseHexColor("#34d8eb")
	DefaultColorEnd   = scene.MustParseHexColor("#3489eb")
)

// Material is the portal shader material and its time parameter.
type Material struct {
	shader *scene.ShaderMaterial
	time   *scene.Uniform
}

// NewMaterial creates the portal material with a fixed color gradient and
// time zero.
func NewMaterial(start, end scene.Color) *Material {
	time := &scene.Uniform{Value: float32(0)}
	return &Material{
		shader: &scene.ShaderMaterial{
			Name:           NodeName,
			VertexShader:   shaders.PortalVertexShader,
			FragmentShader: shaders.PortalFragmentShader,
			Uniforms: map[string]*scene.Uniform{
				UniformTime:       time,
				UniformColorStart: {Value: start},
				UniformColorEnd:   {Value: end},
			},
		},
		time: time,
	}
}

// Shader returns the material to attach to a node.
func (m *Material) Shader() *scene.ShaderMaterial {
	return m.shader
}

// SetTime writes the elapsed seconds into uTime.
func (m *Material) SetTime(seconds float32) {
	m.time.Value = seconds
}

// Time returns the current uTime value.
func (m *Material) Time() float32 {
	return m.time.Value.(float32)
}
